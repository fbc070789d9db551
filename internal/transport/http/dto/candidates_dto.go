package dto

type CandidateResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Gender   string   `json:"gender"`
	City     string   `json:"city"`
	Sports   []string `json:"sports"`
	ImageURL string   `json:"image_url,omitempty"`
}

type CandidatesResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}
