// Package events defines the raw event stream an instrumented program reports
// while it runs.
package events

// Kind names the variant of an Event.
type Kind string

const (
	KindCall   Kind = "call"
	KindReturn Kind = "return"
	KindStdout Kind = "stdout"
	KindTest   Kind = "test"
	KindStep   Kind = "step"
)

// Value is a JSON shaped snapshot: nil, bool, int64, float64, string, []any or
// map[string]any.
type Value = any

// Bindings maps variable names to values.
type Bindings map[string]Value

// Event is one of Call, Return, Stdout, Test or Step.
type Event interface {
	EventKind() Kind
	EventLine() int
	// EventLocals returns the locals update carried by the event, may be nil.
	EventLocals() Bindings
	sealed()
}

// Header holds the fields shared by all variants.
type Header struct {
	Line   int
	Locals Bindings
}

func (h Header) EventLine() int {
	return h.Line
}

func (h Header) EventLocals() Bindings {
	return h.Locals
}

func (Header) sealed() {}

// Call is reported on function entry with the parameter bindings.
type Call struct {
	Header
	Function string
	Args     Bindings
}

func (Call) EventKind() Kind {
	return KindCall
}

// Return is reported when a function returns.
type Return struct {
	Header
	Function string
	Value    Value
}

func (Return) EventKind() Kind {
	return KindReturn
}

// Stdout is reported for every printed line.
type Stdout struct {
	Header
	Output string
}

func (Stdout) EventKind() Kind {
	return KindStdout
}

// Test is reported when the program evaluates check(expr).
type Test struct {
	Header
	Expression string
	Result     Value
}

func (Test) EventKind() Kind {
	return KindTest
}

// Step actions.
const (
	ActionDeclare = "declare"
	ActionAssign  = "assign"
	ActionLoop    = "loop"
	ActionMutate  = "mutate"
)

// Step is a locals update caused by a statement.
type Step struct {
	Header
	Action string
}

func (Step) EventKind() Kind {
	return KindStep
}

var (
	_ Event = Call{}
	_ Event = Return{}
	_ Event = Stdout{}
	_ Event = Test{}
	_ Event = Step{}
)
