package dto

import "time"

type FriendResponse struct {
	PairKey       string    `json:"pair_key"`
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	City          string    `json:"city,omitempty"`
	Sports        []string  `json:"sports,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	MatchedAt     time.Time `json:"matched_at"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int       `json:"unread_count"`
}

type FriendsResponse struct {
	Friends []FriendResponse `json:"friends"`
}

type MatchResponse struct {
	PairKey   string    `json:"pair_key"`
	BuddyID   string    `json:"buddy_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Matches []MatchResponse `json:"matches"`
}
