package instruments

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/syntax"
)

const (
	CallHook   = "__tutor_call__"
	ReturnHook = "__tutor_return__"
	StepHook   = "__tutor_step__"
	TestHook   = "__tutor_test__"

	// CheckName is the helper programs use to record a tested expression.
	CheckName = "check"

	reservedPrefix = "__tutor_"
)

// FileOptions are the dialect options for traced programs.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

type Stats struct {
	Functions int `json:"functions"`
	Returns   int `json:"returns"`
	Steps     int `json:"steps"`
	Loops     int `json:"loops"`
	Checks    int `json:"checks"`
}

type Result struct {
	Filename string
	Original []byte
	Code     []byte
	LineMap  LineMap
	Stats    Stats
}

// Instrument rewrites a program so that executing it reports calls, returns,
// variable steps and checked expressions through the hook builtins.
func Instrument(filename string, src []byte) (*Result, error) {
	text := normalize(src)

	file, err := FileOptions.Parse(filename, text, 0)
	if err != nil {
		return nil, parseError(err)
	}

	if err := checkReserved(file); err != nil {
		return nil, err
	}

	r := &rewriter{
		src: newSource(text),
	}
	r.stmts(newScope(""), file.Stmts)
	// resolution errors are reported again when the program runs
	_ = resolve.File(file, anyName, noName)
	r.checks(file)

	code, lineMap, err := apply(text, r.edits)
	if err != nil {
		return nil, &Error{
			Message: err.Error(),
		}
	}

	// output must stay valid
	if _, err := FileOptions.Parse(filename, code, 0); err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("instrumented program does not parse: %v", err),
		}
	}

	return &Result{
		Filename: filename,
		Original: text,
		Code:     code,
		LineMap:  lineMap,
		Stats:    r.stats,
	}, nil
}

func parseError(err error) error {
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &Error{
			Line:    int(syntaxErr.Pos.Line),
			Column:  int(syntaxErr.Pos.Col),
			Message: syntaxErr.Msg,
			Syntax:  true,
		}
	}
	return &Error{
		Message: err.Error(),
		Syntax:  true,
	}
}

func checkReserved(file *syntax.File) (err error) {
	syntax.Walk(file, func(node syntax.Node) bool {
		if err != nil {
			return false
		}
		id, ok := node.(*syntax.Ident)
		if !ok {
			return true
		}
		if strings.HasPrefix(id.Name, reservedPrefix) {
			err = &Error{
				Line:    int(id.NamePos.Line),
				Column:  int(id.NamePos.Col),
				Message: fmt.Sprintf("identifier %s uses the reserved prefix %s", id.Name, reservedPrefix),
				Syntax:  true,
			}
			return false
		}
		return true
	})
	return
}

func anyName(string) bool {
	return true
}

func noName(string) bool {
	return false
}

// isBuiltin reports whether a resolved identifier refers to a predeclared name
// and not to a binding of the program.
func isBuiltin(id *syntax.Ident) bool {
	binding, ok := id.Binding.(*resolve.Binding)
	if !ok {
		return false
	}
	return binding.Scope == resolve.Predeclared || binding.Scope == resolve.Universal
}
