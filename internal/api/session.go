package api

import "sync"

// Session хранит токены авторизации.
//
// Явный объект, который передаётся клиенту при создании - никакого
// глобального состояния, ядро тестируется без ambient-хранилища.
type Session struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewSession() *Session {
	return &Session{}
}

// SetTokens сохраняет пару токенов после логина или рефреша
func (s *Session) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}

// AccessToken возвращает текущий bearer-токен (пустая строка = не залогинены)
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken возвращает refresh-токен
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Clear сбрасывает сессию
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}
