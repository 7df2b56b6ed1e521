package models

// ClientAdvice is preliminary guidance for a lay client
type ClientAdvice struct {
	Advice       string   `json:"advice"`
	RelevantLaws []string `json:"relevantLaws"`
	Disclaimer   string   `json:"disclaimer"`
}

// DocumentSummary is the summary of a single legal document
type DocumentSummary struct {
	Summary string `json:"summary"`
}
