// Package seed loads users, problems, contests and already judged
// submissions from a TOML document.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/user"
)

//go:embed default.toml
var defaultSeed []byte

type Document struct {
	Users       []User       `toml:"users"`
	Problems    []Problem    `toml:"problems"`
	Contests    []Contest    `toml:"contests"`
	Submissions []Submission `toml:"submissions"`
}

type ContestResult struct {
	ContestID string `toml:"contest_id"`
	Rank      int    `toml:"rank"`
}

type User struct {
	ID             string          `toml:"id"`
	Username       string          `toml:"username"`
	Email          string          `toml:"email"`
	Password       string          `toml:"password"`
	Role           string          `toml:"role"`
	ContestHistory []ContestResult `toml:"contest_history"`
}

type SampleCase struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

type Problem struct {
	ID           string       `toml:"id"`
	Title        string       `toml:"title"`
	Statement    string       `toml:"statement"`
	InputFormat  string       `toml:"input_format"`
	OutputFormat string       `toml:"output_format"`
	SampleCases  []SampleCase `toml:"sample_cases"`
	Tags         []string     `toml:"tags"`
	Difficulty   string       `toml:"difficulty"`
	Points       int          `toml:"points"`
}

// Contest is scheduled either with absolute start and end times or
// relative to the load time with starts_in and duration.
type Contest struct {
	ID           string     `toml:"id"`
	Title        string     `toml:"title"`
	Description  string     `toml:"description"`
	StartTime    *time.Time `toml:"start_time"`
	EndTime      *time.Time `toml:"end_time"`
	StartsIn     string     `toml:"starts_in"`
	Duration     string     `toml:"duration"`
	Problems     []string   `toml:"problems"`
	Participants []string   `toml:"participants"`
}

type Submission struct {
	ID          string    `toml:"id"`
	UserID      string    `toml:"user_id"`
	ProblemID   string    `toml:"problem_id"`
	Language    string    `toml:"language"`
	Code        string    `toml:"code"`
	Verdict     string    `toml:"verdict"`
	SubmittedAt time.Time `toml:"submitted_at"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("seed: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &doc, nil
}

// Default returns the built in demo data.
func Default() (*Document, error) {
	return Parse(bytes.NewReader(defaultSeed))
}

// Load reads the seed file at path, or the built in demo data when
// path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

type userImporter interface {
	Import(u user.SeedUser) error
}

type contestAppender interface {
	Append(c contest.Contest) error
}

type submImporter interface {
	Import(s subm.Subm) error
}

// Targets are the stores a document is loaded into. A nil Subms skips
// the submissions, as when they come from a snapshot instead.
type Targets struct {
	Users    userImporter
	Contests contestAppender
	Subms    submImporter
}

// Apply validates the document and loads it into the targets. Relative
// contest times are resolved against now. Nothing is loaded when the
// document is invalid.
func (d *Document) Apply(now time.Time, t Targets) error {
	users, byID, err := d.seedUsers()
	if err != nil {
		return err
	}
	problems, err := d.seedProblems()
	if err != nil {
		return err
	}
	contests, err := d.seedContests(now, problems, byID)
	if err != nil {
		return err
	}
	subms, err := d.seedSubms(byID, problems)
	if err != nil {
		return err
	}

	for _, u := range users {
		if err := t.Users.Import(u); err != nil {
			return fmt.Errorf("seed: user %s: %w", u.ID, err)
		}
	}
	for _, c := range contests {
		if err := t.Contests.Append(c); err != nil {
			return fmt.Errorf("seed: contest %s: %w", c.ID, err)
		}
	}
	if t.Subms == nil {
		subms = nil
	}
	for _, s := range subms {
		if err := t.Subms.Import(s); err != nil {
			return fmt.Errorf("seed: submission %s: %w", s.ID, err)
		}
	}

	slog.Default().With("module", "seed").Info("seed data loaded",
		"users", len(users),
		"problems", len(problems),
		"contests", len(contests),
		"submissions", len(subms))
	return nil
}

func (d *Document) seedUsers() ([]user.SeedUser, map[string]user.SeedUser, error) {
	byID := make(map[string]user.SeedUser, len(d.Users))
	res := make([]user.SeedUser, 0, len(d.Users))
	for _, u := range d.Users {
		if u.ID == "" {
			return nil, nil, errors.New("seed: user without id")
		}
		if _, dup := byID[u.ID]; dup {
			return nil, nil, fmt.Errorf("seed: duplicate user %s", u.ID)
		}
		role := user.Role(u.Role)
		if role == "" {
			role = user.RoleUser
		}
		if role != user.RoleUser && role != user.RoleAdmin {
			return nil, nil, fmt.Errorf("seed: user %s: unknown role %q", u.ID, u.Role)
		}
		history := make([]user.ContestResult, 0, len(u.ContestHistory))
		for _, h := range u.ContestHistory {
			history = append(history, user.ContestResult{ContestID: h.ContestID, Rank: h.Rank})
		}
		su := user.SeedUser{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			Password:       u.Password,
			Role:           role,
			ContestHistory: history,
		}
		byID[u.ID] = su
		res = append(res, su)
	}
	return res, byID, nil
}

func (d *Document) seedProblems() (map[string]contest.Problem, error) {
	res := make(map[string]contest.Problem, len(d.Problems))
	for _, p := range d.Problems {
		if p.ID == "" {
			return nil, errors.New("seed: problem without id")
		}
		if _, dup := res[p.ID]; dup {
			return nil, fmt.Errorf("seed: duplicate problem %s", p.ID)
		}
		difficulty := contest.Difficulty(p.Difficulty)
		if difficulty == "" {
			difficulty = contest.Easy
		}
		if !difficulty.IsValid() {
			return nil, fmt.Errorf("seed: problem %s: unknown difficulty %q", p.ID, p.Difficulty)
		}
		samples := make([]contest.SampleCase, 0, len(p.SampleCases))
		for _, sc := range p.SampleCases {
			samples = append(samples, contest.SampleCase{Input: sc.Input, Output: sc.Output})
		}
		res[p.ID] = contest.Problem{
			ID:           p.ID,
			Title:        p.Title,
			Statement:    p.Statement,
			InputFormat:  p.InputFormat,
			OutputFormat: p.OutputFormat,
			SampleCases:  samples,
			Tags:         append([]string{}, p.Tags...),
			Difficulty:   difficulty,
			Points:       p.Points,
		}
	}
	return res, nil
}

func (c Contest) window(now time.Time) (time.Time, time.Time, error) {
	if c.StartTime != nil || c.EndTime != nil {
		if c.StartTime == nil || c.EndTime == nil {
			return time.Time{}, time.Time{}, errors.New("start_time and end_time go together")
		}
		if c.StartsIn != "" || c.Duration != "" {
			return time.Time{}, time.Time{}, errors.New("absolute and relative times are exclusive")
		}
		return c.StartTime.UTC(), c.EndTime.UTC(), nil
	}
	startsIn, err := time.ParseDuration(c.StartsIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("starts_in: %w", err)
	}
	duration, err := time.ParseDuration(c.Duration)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("duration: %w", err)
	}
	start := now.Add(startsIn).UTC()
	return start, start.Add(duration), nil
}

func (d *Document) seedContests(
	now time.Time,
	problems map[string]contest.Problem,
	users map[string]user.SeedUser,
) ([]contest.Contest, error) {
	seen := make(map[string]bool, len(d.Contests))
	res := make([]contest.Contest, 0, len(d.Contests))
	for _, c := range d.Contests {
		if c.ID == "" {
			return nil, errors.New("seed: contest without id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("seed: duplicate contest %s", c.ID)
		}
		seen[c.ID] = true

		start, end, err := c.window(now)
		if err != nil {
			return nil, fmt.Errorf("seed: contest %s: %w", c.ID, err)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("seed: contest %s ends before it starts", c.ID)
		}

		probs := make([]contest.Problem, 0, len(c.Problems))
		for _, id := range c.Problems {
			p, ok := problems[id]
			if !ok {
				return nil, fmt.Errorf("seed: contest %s: unknown problem %s", c.ID, id)
			}
			probs = append(probs, p)
		}
		for _, id := range c.Participants {
			if _, ok := users[id]; !ok {
				return nil, fmt.Errorf("seed: contest %s: unknown participant %s", c.ID, id)
			}
		}

		res = append(res, contest.Contest{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			StartTime:    start,
			EndTime:      end,
			Problems:     probs,
			Participants: append([]string{}, c.Participants...),
		})
	}
	return res, nil
}

func (d *Document) seedSubms(users map[string]user.SeedUser, problems map[string]contest.Problem) ([]subm.Subm, error) {
	res := make([]subm.Subm, 0, len(d.Submissions))
	for _, s := range d.Submissions {
		u, ok := users[s.UserID]
		if !ok {
			return nil, fmt.Errorf("seed: submission %s: unknown user %s", s.ID, s.UserID)
		}
		p, ok := problems[s.ProblemID]
		if !ok {
			return nil, fmt.Errorf("seed: submission %s: unknown problem %s", s.ID, s.ProblemID)
		}
		verdict := subm.Verdict(s.Verdict)
		if !verdict.IsTerminal() {
			return nil, fmt.Errorf("seed: submission %s: verdict %q is not final", s.ID, s.Verdict)
		}
		res = append(res, subm.Subm{
			ID:           s.ID,
			UserID:       u.ID,
			Username:     u.Username,
			ProblemID:    p.ID,
			ProblemTitle: p.Title,
			Language:     s.Language,
			Code:         s.Code,
			Verdict:      verdict,
			SubmittedAt:  s.SubmittedAt.UTC(),
		})
	}
	return res, nil
}
