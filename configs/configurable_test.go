package configs

import "testing"

type testTimeout string

func (testTimeout) ConfigPath() string {
	return "run_timeout"
}

type testMissing string

func (testMissing) ConfigPath() string {
	return "missing"
}

func TestLookup(t *testing.T) {
	loader := NewLoader([]string{"timeout.cue"}, testSchema+"\nrun_timeout?: string\nmissing?: string\n")

	timeout, ok := Lookup[testTimeout](loader)
	if !ok {
		t.Fatal("should found")
	}
	if timeout != "3s" {
		t.Fatalf("got %q", timeout)
	}

	_, ok = Lookup[testMissing](loader)
	if ok {
		t.Fatal("should not found")
	}
}
