package model

// EvaluationResult is the outcome of evaluating one password.
// Secure holds iff StrengthScore >= 5 and the password is not leaked;
// SuggestedPassword is set iff the password is not secure.
type EvaluationResult struct {
	Password          string         `json:"password"`
	StrengthScore     int            `json:"strength_score"`
	Entropy           float64        `json:"entropy"`
	Leaked            bool           `json:"leaked"`
	Secure            bool           `json:"secure"`
	SuggestedPassword string         `json:"suggested_password,omitempty"`
	Guesses           *GuessEstimate `json:"guesses,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// GuessEstimate is an advisory pattern-matching estimate; it never affects Secure.
type GuessEstimate struct {
	Score     int    `json:"score"`
	CrackTime string `json:"crack_time"`
}

// EvaluateRequest is the JSON body of POST /api/v1/evaluate.
// Either Password or Passwords may be set; Passwords are evaluated first.
// Password is a pointer so an explicit empty password is still evaluated.
type EvaluateRequest struct {
	Password  *string  `json:"password"`
	Passwords []string `json:"passwords" validate:"max=1000"`
}

// EvaluateResponse wraps the ordered evaluation results.
type EvaluateResponse struct {
	Results []EvaluationResult `json:"results"`
}
