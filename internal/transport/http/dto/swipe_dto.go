package dto

type SwipeRequest struct {
	TargetID  string `json:"target_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	OK           bool   `json:"ok"`
	Liked        bool   `json:"liked"`
	MatchCreated bool   `json:"match_created"`
	PairKey      string `json:"pair_key,omitempty"`
}
