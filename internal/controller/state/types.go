package state

import "github.com/huellitas/clinic_bot/internal/editor"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Текстовые шаги редактора записи
	StateEditDate             UserState = "edit_date"
	StateEditReason           UserState = "edit_reason"
	StateEditMedicationType   UserState = "edit_medication_type"
	StateEditMedicationDosage UserState = "edit_medication_dosage"
	StateEditInstructions     UserState = "edit_instructions"
	StateEditObservations     UserState = "edit_observations"
)

// UserData хранит состояние диалога и открытый редактор записи.
// Редактор живёт от открытия до закрытия/сохранения; закрытие
// отбрасывает черновик без сетевых вызовов.
type UserData struct {
	State  UserState
	Editor *editor.Editor
}
