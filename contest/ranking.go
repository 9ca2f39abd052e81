package contest

import (
	"math"
	"slices"
	"sort"

	"github.com/royal-judge/backend/subm"
)

const wrongAttemptPenalty = 20 // minutes

type ProblemStatus struct {
	Solved   bool `json:"solved"`
	Attempts int  `json:"attempts"`
}

type Row struct {
	Rank           int                      `json:"rank"`
	UserID         string                   `json:"userId"`
	Username       string                   `json:"username"`
	ProblemsSolved int                      `json:"problemsSolved"`
	Penalty        int                      `json:"penalty"`
	ProblemStatus  map[string]ProblemStatus `json:"problemStatus"`
}

type Participant struct {
	UserID   string
	Username string
}

// Rank computes the standings of c. Only the given participants get a
// row, in the given order before sorting. subms must be in creation
// order; submissions to problems outside c are ignored.
//
// Each accepted problem adds the whole minutes elapsed since the
// contest start plus 20 minutes per earlier rejected attempt.
// Attempts after the first accepted one are not counted. Rows are
// sorted by solved count descending and penalty ascending; equal rows
// keep their relative order and still get distinct ranks.
func Rank(c Contest, participants []Participant, subms []subm.Subm) []Row {
	problemIDs := c.ProblemIDs()

	rows := make([]*Row, 0, len(participants))
	byUser := make(map[string]*Row, len(participants))
	for _, p := range participants {
		if _, dup := byUser[p.UserID]; dup {
			continue
		}
		row := &Row{
			UserID:        p.UserID,
			Username:      p.Username,
			ProblemStatus: make(map[string]ProblemStatus),
		}
		rows = append(rows, row)
		byUser[p.UserID] = row
	}

	relevant := make([]subm.Subm, 0, len(subms))
	for _, s := range subms {
		if slices.Contains(problemIDs, s.ProblemID) {
			relevant = append(relevant, s)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].SubmittedAt.Before(relevant[j].SubmittedAt)
	})

	for _, s := range relevant {
		row, ok := byUser[s.UserID]
		if !ok {
			continue
		}
		st := row.ProblemStatus[s.ProblemID]
		if st.Solved {
			continue
		}
		st.Attempts++
		if s.Verdict == subm.Accepted {
			st.Solved = true
			row.ProblemsSolved++
			minutes := int(math.Floor(s.SubmittedAt.Sub(c.StartTime).Minutes()))
			row.Penalty += minutes + wrongAttemptPenalty*(st.Attempts-1)
		}
		row.ProblemStatus[s.ProblemID] = st
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProblemsSolved != rows[j].ProblemsSolved {
			return rows[i].ProblemsSolved > rows[j].ProblemsSolved
		}
		return rows[i].Penalty < rows[j].Penalty
	})

	res := make([]Row, len(rows))
	for i, row := range rows {
		row.Rank = i + 1
		res[i] = *row
	}
	return res
}
