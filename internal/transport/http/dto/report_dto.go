package dto

type ReportRequest struct {
	Reason string `json:"reason"`
}

type ReportResponse struct {
	OK bool `json:"ok"`
}
