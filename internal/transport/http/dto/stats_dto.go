package dto

type UserStatsResponse struct {
	LikesGiven    int `json:"likes_given"`
	LikesReceived int `json:"likes_received"`
	Matches       int `json:"matches"`
}

type SportCountResponse struct {
	Sport string `json:"sport"`
	Users int    `json:"users"`
}

type CommunityStatsResponse struct {
	Sports []SportCountResponse `json:"sports"`
}
