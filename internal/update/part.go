package update

import (
	"fmt"
	"strings"

	"github.com/roach88/constable/internal/cval"
)

// Step is one literal path segment: an object key or an array index.
// Computed segments are resolved by the caller before a Step is built - the
// engine never evaluates expressions.
type Step struct {
	key     cval.Key
	index   int
	isIndex bool
}

// KeyStep makes an object-key step.
func KeyStep(k cval.Key) Step { return Step{key: k} }

// FieldStep makes a string-key step.
func FieldStep(name string) Step { return Step{key: cval.StringKey(name)} }

// IndexStep makes an array-index step.
func IndexStep(i int) Step { return Step{index: i, isIndex: true} }

// IsIndex reports whether the step is an array-index step.
func (s Step) IsIndex() bool { return s.isIndex }

// String renders the step for diagnostics.
func (s Step) String() string {
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}
	return "." + s.key.String()
}

// Path is an ordered sequence of steps from the root. The empty path
// addresses the root itself.
type Path []Step

// String renders the path for diagnostics.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Part is a sealed interface over the two update part shapes.
// Only Assignment and Call implement it.
type Part interface {
	part()
	// Target returns the path the part addresses.
	Target() Path
}

// Assignment assigns a literal value at a path.
type Assignment struct {
	Path  Path
	Value cval.Value
}

func (Assignment) part() {}

// Target returns the path the assignment addresses.
func (a Assignment) Target() Path { return a.Path }

// Call invokes a derived operation on the container at a path; the
// operation's result replaces that container.
type Call struct {
	Path   Path
	Method string
	Args   []cval.Value
}

func (Call) part() {}

// Target returns the path to the container the call operates on.
func (c Call) Target() Path { return c.Path }
