package cmds

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
		}).Desc("BAR"),
		"baz": Sub(map[string]*Command{
			"qux": Func(func() {}).Desc("QUX"),
		}).Desc("BAZ"),
	}).Desc("FOO"))
	executor.Define("-secret", Func(func() {}).Hide())

	var buf bytes.Buffer
	executor.writeUsage(&buf, executor.commands, 0)
	out := buf.String()
	for _, expected := range []string{
		"foo\tFOO\n",
		"  bar\tBAR\n",
		"    qux\tQUX\n",
		"-h (help, -help, --help)\tprint this usage\n",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("no %q in\n%s", expected, out)
		}
	}
	if strings.Contains(out, "-secret") {
		t.Fatalf("hidden command listed\n%s", out)
	}
}

func TestUsageHidesResetFlags(t *testing.T) {
	Switch("TestUsageSwitch", "turn it on")
	Var[int]("TestUsageVar", "set", "it")

	var buf bytes.Buffer
	GlobalExecutor.writeUsage(&buf, GlobalExecutor.commands, 0)
	out := buf.String()
	if !strings.Contains(out, "TestUsageSwitch\tturn it on\n") ||
		!strings.Contains(out, "TestUsageVar\tset it\n") {
		t.Fatalf("got\n%s", out)
	}
	if strings.Contains(out, "!TestUsageSwitch") || strings.Contains(out, "TestUsageVar.") {
		t.Fatalf("got\n%s", out)
	}
}
