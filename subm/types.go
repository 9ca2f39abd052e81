package subm

import "time"

type Subm struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	ProblemID    string    `json:"problemId"`
	ProblemTitle string    `json:"problemTitle"`
	Language     string    `json:"language"`
	Code         string    `json:"code"`
	Verdict      Verdict   `json:"verdict"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// NewSubm holds the caller supplied fields of a submission.
type NewSubm struct {
	UserID       string
	Username     string
	ProblemID    string
	ProblemTitle string
	Language     string
	Code         string
}

// VerdictCounts is a histogram of the verdicts currently in the store.
type VerdictCounts map[Verdict]int
