package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

func TestModules(t *testing.T) {
	for _, c := range []struct {
		module   any
		expected Mode
		hasT     bool
	}{
		{ForProduction(), ModeProduction, false},
		{ForDevelopment(), ModeDevelopment, false},
		{ForTest(t), ModeDevelopment, true},
	} {
		dscope.New(c.module).Call(func(
			got *testing.T,
			mode Mode,
		) {
			if mode != c.expected {
				t.Fatalf("got %v", mode)
			}
			if (got != nil) != c.hasT {
				t.Fatalf("got %v", got)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeProduction.String() != "production" || ModeDevelopment.String() != "development" {
		t.Fatal()
	}
	if Mode(0).String() != "unknown" {
		t.Fatal()
	}
}
