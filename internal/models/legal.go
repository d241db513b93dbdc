package models

// LegalQuestion is the request body of POST /api/legal/ask
type LegalQuestion struct {
	Question string `json:"question"`
}

// LegalAnswer is the legal assistant response
type LegalAnswer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Error    bool     `json:"error"`
}
