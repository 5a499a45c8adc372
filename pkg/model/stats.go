package model

// Stats summarizes a problem sequence. Active = Total - Ignored.
type Stats struct {
	Total           int `json:"total"`
	Ignored         int `json:"ignored"`
	Active          int `json:"active"`
	SolvedActive    int `json:"solved_active"`
	UnsolvedActive  int `json:"unsolved_active"`
	SolvedIgnored   int `json:"solved_ignored"`
	UnsolvedIgnored int `json:"unsolved_ignored"`
}
