// Package diag is the compiler's error-reporting core: a Diagnostic type
// carrying phase, position, and severity, plus the typed error wrapper every
// pipeline stage raises through.
package diag

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase identifies which of the compiler's pipeline stages raised a
// Diagnostic.
type Phase int

const (
	PhaseSpec Phase = iota
	PhaseLexical
	PhaseSyntactic
	PhaseSemantic
	PhaseInternal
)

func (p Phase) String() string {
	switch p {
	case PhaseSpec:
		return "spec"
	case PhaseLexical:
		return "lexical"
	case PhaseSyntactic:
		return "syntactic"
	case PhaseSemantic:
		return "semantic"
	case PhaseInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Severity distinguishes a hard compile error from an advisory note.
type Severity int

const (
	SevError Severity = iota
	SevWarning
	SevNote
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevNote:
		return "note"
	default:
		return "unknown"
	}
}

// Position locates a Diagnostic within the source text it was raised against.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a single reported problem: where it happened, which phase
// raised it, how severe it is, and both a human-facing and technical
// description of what went wrong.
type Diagnostic struct {
	Phase    Phase
	Severity Severity
	Pos      Position
	human    string
	technical string
	wrapped  error
}

func (d *Diagnostic) Error() string {
	if d.technical != "" {
		return d.technical
	}
	return d.human
}

// Human is the message meant for an end user (e.g. printed by the CLI).
func (d *Diagnostic) Human() string {
	return d.human
}

func (d *Diagnostic) Unwrap() error {
	return d.wrapped
}

func (d *Diagnostic) String() string {
	pos := d.Pos.String()
	if pos != "" {
		return fmt.Sprintf("%s:%s: %s: %s", d.Phase, pos, d.Severity, d.Human())
	}
	return fmt.Sprintf("%s: %s: %s", d.Phase, d.Severity, d.Human())
}

func new_(phase Phase, sev Severity, pos Position, human, technical string, wrap error) *Diagnostic {
	if technical == "" {
		technical = fmt.Sprintf("%s error: %s", phase, human)
	}
	return &Diagnostic{Phase: phase, Severity: sev, Pos: pos, human: human, technical: technical, wrapped: wrap}
}

// New builds a Diagnostic for phase at pos with the given human-facing
// message.
func New(phase Phase, pos Position, human string) *Diagnostic {
	return new_(phase, SevError, pos, human, "", nil)
}

// Newf is New with fmt.Sprintf-style formatting of the human message.
func Newf(phase Phase, pos Position, format string, a ...interface{}) *Diagnostic {
	return New(phase, pos, fmt.Sprintf(format, a...))
}

// Wrap builds a Diagnostic that carries an underlying error for Unwrap.
func Wrap(phase Phase, pos Position, human string, wrapped error) *Diagnostic {
	return new_(phase, SevError, pos, human, "", wrapped)
}

// Warningf builds a warning-severity Diagnostic.
func Warningf(phase Phase, pos Position, format string, a ...interface{}) *Diagnostic {
	d := Newf(phase, pos, format, a...)
	d.Severity = SevWarning
	return d
}

// Lexical, Syntactic, Semantic, and Internal are phase-tagged convenience
// constructors matching the five-way taxonomy the CLI reports diagnostics
// under.
func Lexical(pos Position, format string, a ...interface{}) *Diagnostic {
	return Newf(PhaseLexical, pos, format, a...)
}

func Syntactic(pos Position, format string, a ...interface{}) *Diagnostic {
	return Newf(PhaseSyntactic, pos, format, a...)
}

func Semantic(pos Position, format string, a ...interface{}) *Diagnostic {
	return Newf(PhaseSemantic, pos, format, a...)
}

func Internal(format string, a ...interface{}) *Diagnostic {
	return Newf(PhaseInternal, Position{}, format, a...)
}

func SpecError(format string, a ...interface{}) *Diagnostic {
	return Newf(PhaseSpec, Position{}, format, a...)
}

// Batch groups every Diagnostic raised by one compilation run under a
// single run ID, so a driving script invoking the CLI concurrently across
// several source files can tell which diagnostics (and which
// compiler-bin/ output directory) belong to which run.
type Batch struct {
	RunID       uuid.UUID
	Diagnostics []*Diagnostic
}

// NewBatch starts an empty batch with a freshly-generated run ID.
func NewBatch() *Batch {
	return &Batch{RunID: uuid.New()}
}

// Add appends diags to the batch, skipping any nil entries.
func (b *Batch) Add(diags ...*Diagnostic) {
	for _, d := range diags {
		if d != nil {
			b.Diagnostics = append(b.Diagnostics, d)
		}
	}
}

// HasErrors reports whether the batch contains any error-severity
// diagnostic.
func (b *Batch) HasErrors() bool {
	for _, d := range b.Diagnostics {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

// OutputDir builds a run-scoped directory name by suffixing base with
// "-<run ID>" (a sibling of base, not a subdirectory of it), so
// concurrent invocations from a driving script don't clobber each other's
// compiler-bin/ artifacts.
func (b *Batch) OutputDir(base string) string {
	return base + "-" + b.RunID.String()
}
