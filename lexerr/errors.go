// Package lexerr defines the typed, position-aware error values produced by
// macro preprocessing and rule compilation. Errors are accumulated rather
// than returned on first failure (see spec.md §7); callers receive the
// full list in one shot.
package lexerr

import "fmt"

// Code identifies an error kind. Values below 100 are reserved for the
// compiler core; patparse and other collaborators use codes starting at
// 100 so the two spaces never collide.
type Code int

const (
	DuplicateMacro Code = iota + 1
	RecursiveMacro
	UndefinedMacro
	UnicodeInAsciiMode
	UnknownUnicodeCategory
	EndOfFileInRegex
	UnsupportedRepetition
	// ShadowedClause is a warning-severity code (see Severity): a clause
	// whose accepting states are always won by a lower-index overlapping
	// clause, so it can never match (spec.md §4.6's tie-break, §9
	// "Overlapping accepts").
	ShadowedClause
)

// Surface-syntax error kinds, reported by package patparse rather than by
// the compiler core. Numbered from 100 so the two code spaces never
// collide (see the package comment).
const (
	UnmatchedParen   Code = iota + 100
	UnmatchedBracket
	UnmatchedBrace
	BareClosure
	BadBackslash
	BadRange
	SyntaxError
)

func (c Code) String() string {
	switch c {
	case DuplicateMacro:
		return "DuplicateMacro"
	case RecursiveMacro:
		return "RecursiveMacro"
	case UndefinedMacro:
		return "UndefinedMacro"
	case UnicodeInAsciiMode:
		return "UnicodeInAsciiMode"
	case UnknownUnicodeCategory:
		return "UnknownUnicodeCategory"
	case EndOfFileInRegex:
		return "EndOfFileInRegex"
	case UnsupportedRepetition:
		return "UnsupportedRepetition"
	case ShadowedClause:
		return "ShadowedClause"
	case UnmatchedParen:
		return "UnmatchedParen"
	case UnmatchedBracket:
		return "UnmatchedBracket"
	case UnmatchedBrace:
		return "UnmatchedBrace"
	case BareClosure:
		return "BareClosure"
	case BadBackslash:
		return "BadBackslash"
	case BadRange:
		return "BadRange"
	case SyntaxError:
		return "SyntaxError"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Pos is the position of the token or pattern fragment an error refers to.
// Zero value means "no position known".
type Pos struct {
	Source string
	Line   int
	Col    int
}

func (p Pos) String() string {
	if p.Source == "" && p.Line == 0 && p.Col == 0 {
		return ""
	}
	name := p.Source
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf(" in %s at line %d col %d", name, p.Line, p.Col)
}

// Severity distinguishes a hard failure (blocks compilation; no output
// artifact is written per spec.md §7) from a warning (diagnostic only;
// compilation still succeeds unless escalated). The zero value is
// SeverityError, so every existing New/NewAt call site — all of which
// report genuine core/collaborator errors — is unaffected.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Error is one diagnostic. It is comparable on Code+Message+Pos+Severity
// so tests can assert on it directly.
type Error struct {
	Code     Code
	Message  string
	Pos      Pos
	Severity Severity
}

func (e *Error) Error() string {
	prefix := ""
	if e.Severity == SeverityWarning {
		prefix = "warning: "
	}
	return prefix + e.Message + e.Pos.String()
}

// New builds an error-severity Error with no position.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewAt builds an error-severity Error carrying a position.
func NewAt(code Code, pos Pos, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// NewWarningAt builds a warning-severity Error carrying a position.
// Warnings never block compilation on their own; callers (package
// compiler) decide whether opts.WarningsAsErrors escalates them.
func NewWarningAt(code Code, pos Pos, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos, Severity: SeverityWarning}
}

// List is the accumulator type callers of the core receive: spec.md §6's
// "Err(errors: string[])" case. A List with no error-severity entry (see
// HasErrors) means success; it may still carry warnings.
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	s := l[0].Error()
	for _, e := range l[1:] {
		s += "\n" + e.Error()
	}
	return s
}

// HasCode reports whether any error in the list carries the given code.
// Used by tests asserting on e2e scenarios (spec.md §8).
func (l List) HasCode(code Code) bool {
	for _, e := range l {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Escalate returns l with every warning-severity entry promoted to
// error severity, for CompilationOptions.WarningsAsErrors.
func (l List) Escalate() List {
	out := make(List, len(l))
	for i, e := range l {
		if e.Severity == SeverityWarning {
			promoted := *e
			promoted.Severity = SeverityError
			out[i] = &promoted
		} else {
			out[i] = e
		}
	}
	return out
}

// HasErrors reports whether l contains any error-severity entry (as
// opposed to warning-severity only).
func (l List) HasErrors() bool {
	for _, e := range l {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
