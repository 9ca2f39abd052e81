package contest

import "time"

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

func (d Difficulty) IsValid() bool {
	return d == Easy || d == Medium || d == Hard
}

type SampleCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type Problem struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Statement    string       `json:"statement"`
	InputFormat  string       `json:"inputFormat"`
	OutputFormat string       `json:"outputFormat"`
	SampleCases  []SampleCase `json:"sampleCases"`
	Tags         []string     `json:"tags"`
	Difficulty   Difficulty   `json:"difficulty"`
	Points       int          `json:"points"`
}

type Contest struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Problems     []Problem `json:"problems"`
	Participants []string  `json:"participants"`
}

type Status string

const (
	Upcoming Status = "Upcoming"
	Active   Status = "Active"
	Past     Status = "Past"
)

// StatusAt derives the contest status; it is never stored.
func (c Contest) StatusAt(now time.Time) Status {
	switch {
	case now.Before(c.StartTime):
		return Upcoming
	case now.Before(c.EndTime):
		return Active
	default:
		return Past
	}
}

func (c Contest) ProblemIDs() []string {
	ids := make([]string, 0, len(c.Problems))
	for _, p := range c.Problems {
		ids = append(ids, p.ID)
	}
	return ids
}

func (c Contest) IsParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

func (c Contest) clone() Contest {
	out := c
	out.Problems = make([]Problem, len(c.Problems))
	for i, p := range c.Problems {
		out.Problems[i] = p.clone()
	}
	out.Participants = append(make([]string, 0, len(c.Participants)), c.Participants...)
	return out
}

func (p Problem) clone() Problem {
	out := p
	out.SampleCases = append(make([]SampleCase, 0, len(p.SampleCases)), p.SampleCases...)
	out.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
	return out
}
