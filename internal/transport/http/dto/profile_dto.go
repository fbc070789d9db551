package dto

import "time"

type ProfileUpdateRequest struct {
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	City        string   `json:"city"`
	Sports      []string `json:"sports"`
	Bio         string   `json:"bio"`
}

type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	City        string    `json:"city"`
	Sports      []string  `json:"sports"`
	Bio         string    `json:"bio,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type PhotoUploadResponse struct {
	OK       bool   `json:"ok"`
	PhotoURL string `json:"photo_url"`
}
