package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reusee/tutor/runs"
	"github.com/reusee/tutor/traces"
)

func TestPrintOutcomeYAML(t *testing.T) {
	outcome := runs.Outcome{
		Frames: []traces.Frame{
			{Action: "stdout", Line: 3, Locals: map[string]any{"x": 2}, Output: "2"},
		},
	}
	var buf bytes.Buffer
	if err := printOutcome(&buf, outcome, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, expected := range []string{
		"logs:\n",
		"- action: stdout\n",
		"    line: 3\n",
		"      x: 2\n",
		`    output: "2"`,
		"status: ok\n",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("no %q in\n%s", expected, out)
		}
	}
	if strings.Contains(out, "{") {
		t.Fatalf("flow style in\n%s", out)
	}
}

func TestPrintOutcomeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printOutcome(&buf, runs.Outcome{}, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `{"logs":[],"status":"ok"}`+"\n" {
		t.Fatalf("got %s", buf.String())
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.star")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- watch(ctx, path, logger, func() {
			changed <- struct{}{}
		})
	}()

	// let the watcher start
	time.Sleep(time.Millisecond * 100)
	// other files are ignored
	if err := os.WriteFile(filepath.Join(dir, "other"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(time.Second * 5):
		t.Fatal("no change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
