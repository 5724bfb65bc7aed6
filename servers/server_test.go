package servers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reusee/tutor/files"
	"github.com/reusee/tutor/identities"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/nets"
	"github.com/reusee/tutor/runs"
	"github.com/reusee/tutor/sandboxes"
	"github.com/reusee/tutor/storages"
	"github.com/reusee/tutor/tutorconfigs"
	"go.opentelemetry.io/otel/trace/noop"
)

const secret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	newSpan := (logs.Module{}).NewSpan(logger)
	runner := (runs.Module{}).Runner(
		&sandboxes.Sandbox{
			Timeout:   time.Second * 10,
			MaxSteps:  1_000_000,
			MaxEvents: 10_000,
		},
		tracer,
		logger,
		newSpan,
	)
	store, err := files.OpenSQLite(context.Background(), storages.Memory)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	server := (Module{}).Server(
		runner,
		store,
		identities.NewJWTProvider([]byte(secret)),
		tracer,
		logger,
		newSpan,
		(nets.Module{}).Listen((nets.Module{}).IsLocalAddr(), logger),
		"127.0.0.1:0",
		tutorconfigs.AllowedOrigins{"http://localhost:5173"},
		2,
	)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func token(t *testing.T, subject string) string {
	tok, err := identities.NewJWTProvider([]byte(secret)).Issue(subject, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(t *testing.T, method string, url string, tok string, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, bs
}

type payload struct {
	Logs   []map[string]any `json:"logs"`
	Status string           `json:"status"`
	Kind   string           `json:"kind"`
}

func runCode(t *testing.T, ts *httptest.Server, code string) payload {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"code": code,
	})
	if err != nil {
		t.Fatal(err)
	}
	status, bs := do(t, "POST", ts.URL+"/api/code/run", "", string(body))
	if status != http.StatusOK {
		t.Fatalf("got %d %s", status, bs)
	}
	var p payload
	if err := json.Unmarshal(bs, &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunAssignments(t *testing.T) {
	ts := newTestServer(t)
	p := runCode(t, ts, "x = 1\nx = 2\nprint(x)")
	if p.Status != "ok" || len(p.Logs) != 3 {
		t.Fatalf("got %+v", p)
	}
	last := p.Logs[2]
	if last["action"] != "stdout" || last["output"] != "2" {
		t.Fatalf("got %v", last)
	}
	if last["locals"].(map[string]any)["x"] != float64(2) {
		t.Fatalf("got %v", last)
	}
}

func TestRunSyntaxError(t *testing.T) {
	ts := newTestServer(t)
	p := runCode(t, ts, "x = ")
	if p.Status != "error" || p.Kind != "parse" || len(p.Logs) != 1 {
		t.Fatalf("got %+v", p)
	}
	if _, ok := p.Logs[0]["error"].(string); !ok {
		t.Fatalf("got %v", p.Logs[0])
	}
}

func TestRunFunction(t *testing.T) {
	ts := newTestServer(t)
	p := runCode(t, ts, "def f(a):\n    return a + 1\nf(5)")
	var sawCall, sawReturn bool
	for _, frame := range p.Logs {
		switch frame["action"] {
		case "call":
			sawCall = sawCall || frame["locals"].(map[string]any)["a"] == float64(5)
		case "return":
			sawReturn = sawReturn || frame["returnValue"] == float64(6)
		}
	}
	if !sawCall || !sawReturn {
		t.Fatalf("got %+v", p)
	}
}

func TestRunReleasesSlots(t *testing.T) {
	ts := newTestServer(t)
	for _, code := range []string{"x = 1\n", "x = \n", "y = [][1]\n", "x = 2\n", "x = 3\n"} {
		runCode(t, ts, code)
	}
}

func TestRunBadBodies(t *testing.T) {
	ts := newTestServer(t)
	if status, _ := do(t, "POST", ts.URL+"/api/code/run", "", "{"); status != http.StatusBadRequest {
		t.Fatalf("got %d", status)
	}
	if status, _ := do(t, "POST", ts.URL+"/api/code/run", "", "{}"); status != http.StatusBadRequest {
		t.Fatalf("got %d", status)
	}
	big := `{"code":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	if status, _ := do(t, "POST", ts.URL+"/api/code/run", "", big); status != http.StatusRequestEntityTooLarge {
		t.Fatalf("got %d", status)
	}
	if status, _ := do(t, "GET", ts.URL+"/api/code/run", "", ""); status != http.StatusMethodNotAllowed {
		t.Fatalf("got %d", status)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, bs := do(t, "GET", ts.URL+"/health", "", "")
	if status != http.StatusOK || !bytes.Contains(bs, []byte(`"ok":true`)) {
		t.Fatalf("got %d %s", status, bs)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest("OPTIONS", ts.URL+"/api/code/run", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("got %q", got)
	}

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestFiles(t *testing.T) {
	ts := newTestServer(t)
	alice := token(t, "alice")
	bob := token(t, "bob")

	if status, _ := do(t, "GET", ts.URL+"/api/files", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("got %d", status)
	}
	if status, _ := do(t, "GET", ts.URL+"/api/files", "garbage", ""); status != http.StatusUnauthorized {
		t.Fatalf("got %d", status)
	}

	status, bs := do(t, "GET", ts.URL+"/api/users/me", alice, "")
	if status != http.StatusOK || !bytes.Contains(bs, []byte(`"alice"`)) {
		t.Fatalf("got %d %s", status, bs)
	}

	status, bs = do(t, "POST", ts.URL+"/api/files", alice, `{"title":"loop","content":"for i in range(3):\n    print(i)"}`)
	if status != http.StatusCreated {
		t.Fatalf("got %d %s", status, bs)
	}
	var file files.File
	if err := json.Unmarshal(bs, &file); err != nil {
		t.Fatal(err)
	}
	if file.Title != "loop" || file.Language != files.DefaultLanguage {
		t.Fatalf("got %+v", file)
	}

	status, bs = do(t, "GET", ts.URL+"/api/files", alice, "")
	var list []files.File
	if err := json.Unmarshal(bs, &list); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || len(list) != 1 {
		t.Fatalf("got %d %s", status, bs)
	}

	status, bs = do(t, "GET", ts.URL+"/api/files", bob, "")
	if status != http.StatusOK || strings.TrimSpace(string(bs)) != "[]" {
		t.Fatalf("got %d %s", status, bs)
	}
	if status, _ := do(t, "GET", ts.URL+"/api/files/"+file.ID, bob, ""); status != http.StatusNotFound {
		t.Fatalf("got %d", status)
	}

	status, bs = do(t, "PUT", ts.URL+"/api/files/"+file.ID, alice, `{"title":"renamed"}`)
	if status != http.StatusOK || !bytes.Contains(bs, []byte(`"renamed"`)) {
		t.Fatalf("got %d %s", status, bs)
	}

	if status, _ := do(t, "DELETE", ts.URL+"/api/files/"+file.ID, alice, ""); status != http.StatusNoContent {
		t.Fatalf("got %d", status)
	}
	if status, _ := do(t, "GET", ts.URL+"/api/files/"+file.ID, alice, ""); status != http.StatusNotFound {
		t.Fatalf("got %d", status)
	}
}

func TestServe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := &Server{
		logger:   logger,
		newSpan:  (logs.Module{}).NewSpan(logger),
		tracer:   noop.NewTracerProvider().Tracer("test"),
		listen:   (nets.Module{}).Listen((nets.Module{}).IsLocalAddr(), logger),
		addr:     "127.0.0.1:0",
		maxConns: 4,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()
	time.Sleep(time.Millisecond * 50)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("not shut down")
	}
}
