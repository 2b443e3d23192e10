package model

type Pet struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Species        string `json:"species"`
	Breed          string `json:"breed"`
	OwnerID        int64  `json:"owner"`
	OwnerName      string `json:"owner_name,omitempty"`
	OwnerShortName string `json:"owner_short_name,omitempty"`
	OwnerPhone     string `json:"owner_phone,omitempty"`
	IsActive       bool   `json:"is_active"`
}
