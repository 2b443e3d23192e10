package state

import (
	"sync"

	"github.com/huellitas/clinic_bot/internal/editor"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		if state == StateNone {
			return
		}
		sm.states[telegramID] = &UserData{State: state}
		return
	}

	userData.State = state
	if userData.State == StateNone && userData.Editor == nil {
		delete(sm.states, telegramID)
	}
}

// SetEditor привязывает открытый редактор к пользователю
func (sm *Manager) SetEditor(telegramID int64, ed *editor.Editor) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, exists := sm.states[telegramID]; exists {
		userData.Editor = ed
		return
	}
	sm.states[telegramID] = &UserData{Editor: ed}
}

// Editor возвращает открытый редактор пользователя (nil если не открыт)
func (sm *Manager) Editor(telegramID int64) *editor.Editor {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.Editor
	}
	return nil
}

// ClearState очищает состояние и редактор пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
