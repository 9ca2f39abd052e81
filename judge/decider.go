package judge

import (
	"regexp"
	"sync"

	"github.com/royal-judge/backend/planglist"
	"github.com/royal-judge/backend/subm"
	"golang.org/x/exp/rand"
)

// Decider picks the final verdict of a submission. This is where a real
// compiler and sandbox would plug in.
type Decider interface {
	Decide(language, source, problemID string) subm.Verdict
}

type DeciderFunc func(language, source, problemID string) subm.Verdict

func (f DeciderFunc) Decide(language, source, problemID string) subm.Verdict {
	return f(language, source, problemID)
}

var (
	whitespace = regexp.MustCompile(`\s+`)

	// a, b = map(int, input().split()) followed by print(a + b) on the
	// same line after a semicolon or on the next line. The two line form
	// is the editor's Python template, so it has to be accepted.
	refPython = regexp.MustCompile(`a, *b *= *map\(int, *input\(\)\.split\(\)\)(?: *;)? *print\(a *\+ *b\)`)
	refCpp    = regexp.MustCompile(`#include *<iostream>[\s\S]*std::cin *>> *a *>> *b;[\s\S]*std::cout *<< *a *\+ *b;`)
	cppDecl   = regexp.MustCompile(`int main\(\) *\{ *int a, *b;`)
)

// MatchReference compares the source against the known correct
// solutions of the reference problem, ignoring whitespace differences.
// For Python the semicolon between the two statements is optional, so
// the newline separated form is Accepted too.
func MatchReference(language, source string) subm.Verdict {
	code := whitespace.ReplaceAllString(source, " ")
	switch language {
	case planglist.Python:
		if refPython.MatchString(code) {
			return subm.Accepted
		}
	case planglist.Cpp:
		if refCpp.MatchString(cppDecl.ReplaceAllString(code, "")) {
			return subm.Accepted
		}
	}
	return subm.WrongAnswer
}

var randomVerdicts = []subm.Verdict{
	subm.Accepted,
	subm.WrongAnswer,
	subm.TimeLimitExceeded,
	subm.RuntimeError,
}

// RandomDecider picks uniformly from the verdicts a real run could end in.
type RandomDecider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDecider(seed uint64) *RandomDecider {
	return &RandomDecider{rng: rand.New(rand.NewSource(seed))}
}

func (d *RandomDecider) Decide(string, string, string) subm.Verdict {
	d.mu.Lock()
	defer d.mu.Unlock()
	return randomVerdicts[d.rng.Intn(len(randomVerdicts))]
}

// NewDefaultDecider checks the reference problem against its known
// solutions and picks a random verdict for every other problem.
func NewDefaultDecider(referenceProblem string, fallback Decider) Decider {
	return DeciderFunc(func(language, source, problemID string) subm.Verdict {
		if problemID == referenceProblem {
			return MatchReference(language, source)
		}
		return fallback.Decide(language, source, problemID)
	})
}
