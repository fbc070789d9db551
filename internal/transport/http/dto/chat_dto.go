package dto

import "time"

type ChatSendRequest struct {
	Body string `json:"body"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	PairKey   string    `json:"pair_key"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}
