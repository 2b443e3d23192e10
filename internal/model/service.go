package model

type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ServiceType     string `json:"service_type"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           string `json:"price"` // DRF DecimalField сериализуется строкой ("25.00")
	// Для медикаментозных услуг (баня с лекарством, дегельминтизация)
	// редактор требует заполнить поля медикаментов
	RequiresMedication  bool   `json:"requires_medication"`
	DefaultInstructions string `json:"default_instructions"`
	IsActive            bool   `json:"is_active"`
}
