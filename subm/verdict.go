package subm

type Verdict string

const (
	Pending   Verdict = "Pending"
	Compiling Verdict = "Compiling"
	Running   Verdict = "Running"

	Accepted          Verdict = "Accepted"
	WrongAnswer       Verdict = "Wrong Answer"
	TimeLimitExceeded Verdict = "Time Limit Exceeded"
	RuntimeError      Verdict = "Runtime Error"
	CompilationError  Verdict = "Compilation Error"
)

var terminal = map[Verdict]bool{
	Accepted:          true,
	WrongAnswer:       true,
	TimeLimitExceeded: true,
	RuntimeError:      true,
	CompilationError:  true,
}

// IsTerminal reports whether no further transition may follow v.
func (v Verdict) IsTerminal() bool {
	return terminal[v]
}

func (v Verdict) IsValid() bool {
	return v == Pending || v == Compiling || v == Running || terminal[v]
}

// CanAdvance reports whether to is the single legal successor of from.
// Pending -> Compiling -> Running -> any terminal verdict.
func CanAdvance(from, to Verdict) bool {
	switch from {
	case Pending:
		return to == Compiling
	case Compiling:
		return to == Running
	case Running:
		return to.IsTerminal()
	}
	return false
}
