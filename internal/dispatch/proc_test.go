package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/wikirefs/wikirefs/internal/model"
)

// writeWorkerScript creates an executable stand-in for the worker
// binary so spawn behavior can be tested without building one.
func writeWorkerScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("worker scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "worker.sh")
	script := "#!/bin/sh\ncat >/dev/null\n" + body + "\n"
	//nolint:gosec // Test scripts must be executable
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

// TestReadTask tests worker task decoding.
func TestReadTask(t *testing.T) {
	t.Parallel()

	t.Run("decodes a complete task", func(t *testing.T) {
		t.Parallel()

		input := `{"title":"Go (programming language)","output_dir":"wiki_dl","api_url":"https://en.wikipedia.org/w/api.php","timeout_ns":30000000000}`

		task, err := ReadTask(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.Title != "Go (programming language)" {
			t.Errorf("unexpected title %q", task.Title)
		}
		if task.OutputDir != "wiki_dl" {
			t.Errorf("unexpected output dir %q", task.OutputDir)
		}
		if task.Timeout != 30*time.Second {
			t.Errorf("unexpected timeout %v", task.Timeout)
		}
	})

	t.Run("rejects a task without a title", func(t *testing.T) {
		t.Parallel()

		_, err := ReadTask(strings.NewReader(`{"output_dir":"wiki_dl"}`))
		if !errors.Is(err, ErrMissingTitle) {
			t.Errorf("expected ErrMissingTitle, got %v", err)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()

		_, err := ReadTask(strings.NewReader("not json"))
		if err == nil {
			t.Error("expected error for malformed input")
		}
	})
}

// TestWriteOutcome tests outcome encoding for the process boundary.
func TestWriteOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	outcome := model.Success("Title", 3, "wiki_dl/Title.txt", 2*time.Second)

	if err := WriteOutcome(&buf, outcome); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected newline-terminated document")
	}

	var decoded model.Outcome
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != outcome {
		t.Errorf("round trip changed the outcome: %+v vs %+v", decoded, outcome)
	}
}

// TestExecuteTask tests the in-process worker entry point.
func TestExecuteTask(t *testing.T) {
	t.Parallel()

	t.Run("fetches and writes end to end", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"batchcomplete":true,"query":{"pages":[{"pageid":1,"title":"Tested article","extlinks":[{"url":"https://a.example/"},{"url":"https://b.example/"}]}]}}`)
		}))
		defer server.Close()

		task := Task{
			Title:     "Tested article",
			OutputDir: t.TempDir(),
			APIURL:    server.URL,
		}

		outcome := ExecuteTask(context.Background(), task, nil)

		if outcome.Failed() {
			t.Fatalf("unexpected failure: %s", outcome.Message)
		}
		if outcome.RefCount != 2 {
			t.Errorf("expected 2 references, got %d", outcome.RefCount)
		}

		data, err := os.ReadFile(outcome.FilePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "https://a.example/\nhttps://b.example/\n" {
			t.Errorf("unexpected file content %q", string(data))
		}
	})

	t.Run("invalid endpoint folds into the outcome", func(t *testing.T) {
		t.Parallel()

		task := Task{Title: "Any", OutputDir: t.TempDir(), APIURL: ""}

		outcome := ExecuteTask(context.Background(), task, nil)

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if outcome.ErrKind != model.KindUnknown {
			t.Errorf("expected kind %q, got %q", model.KindUnknown, outcome.ErrKind)
		}
		if outcome.Title != "Any" {
			t.Errorf("expected requested title, got %q", outcome.Title)
		}
	})

	t.Run("unwritable output dir is an io failure", func(t *testing.T) {
		t.Parallel()

		blocked := filepath.Join(t.TempDir(), "blocked")
		if err := os.WriteFile(blocked, []byte("file, not dir"), 0600); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"batchcomplete":true,"query":{"pages":[{"pageid":1,"title":"Any"}]}}`)
		}))
		defer server.Close()

		task := Task{Title: "Any", OutputDir: blocked, APIURL: server.URL}

		outcome := ExecuteTask(context.Background(), task, nil)

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if outcome.ErrKind != model.KindIOFailure {
			t.Errorf("expected kind %q, got %q", model.KindIOFailure, outcome.ErrKind)
		}
	})

	t.Run("missing page becomes not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"batchcomplete":true,"query":{"pages":[{"title":"Gone","missing":true}]}}`)
		}))
		defer server.Close()

		task := Task{Title: "Gone", OutputDir: t.TempDir(), APIURL: server.URL}

		outcome := ExecuteTask(context.Background(), task, nil)

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if outcome.ErrKind != model.KindNotFound {
			t.Errorf("expected kind %q, got %q", model.KindNotFound, outcome.ErrKind)
		}
	})
}

// TestNewProcessRunner tests worker pool construction.
func TestNewProcessRunner(t *testing.T) {
	t.Parallel()

	t.Run("locates the running binary", func(t *testing.T) {
		t.Parallel()

		p, err := NewProcessRunner(Task{OutputDir: "wiki_dl"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.executable == "" {
			t.Error("expected a resolved executable path")
		}
	})

	t.Run("explicit executable wins", func(t *testing.T) {
		t.Parallel()

		p, err := NewProcessRunner(Task{}, WithExecutable("/custom/worker"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.executable != "/custom/worker" {
			t.Errorf("expected /custom/worker, got %q", p.executable)
		}
	})
}

// TestProcessRunnerRun tests spawning and outcome collection.
func TestProcessRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("collects the worker outcome", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `echo '{"title":"Scripted","ok":true,"ref_count":3,"file_path":"wiki_dl/Scripted.txt"}'`)

		p, err := NewProcessRunner(Task{OutputDir: "wiki_dl", APIURL: "http://localhost/api"}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Scripted")

		if outcome.Failed() {
			t.Fatalf("unexpected failure: %s", outcome.Message)
		}
		if outcome.Title != "Scripted" {
			t.Errorf("unexpected title %q", outcome.Title)
		}
		if outcome.RefCount != 3 {
			t.Errorf("expected 3 references, got %d", outcome.RefCount)
		}
	})

	t.Run("keeps a classified failure from the worker", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `echo '{"title":"Gone","ok":false,"error_kind":"not_found","error":"page does not exist"}'`)

		p, err := NewProcessRunner(Task{}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Gone")

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if outcome.ErrKind != model.KindNotFound {
			t.Errorf("expected kind %q, got %q", model.KindNotFound, outcome.ErrKind)
		}
	})

	t.Run("normalizes an unrecognized kind", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `echo '{"title":"X","ok":false,"error_kind":"weird_kind","error":"???"}'`)

		p, err := NewProcessRunner(Task{}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "X")

		if outcome.ErrKind != model.KindUnknown {
			t.Errorf("expected kind %q, got %q", model.KindUnknown, outcome.ErrKind)
		}
	})

	t.Run("fills a missing title with the requested one", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `echo '{"ok":true,"ref_count":1,"file_path":"wiki_dl/t.txt"}'`)

		p, err := NewProcessRunner(Task{}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Requested title")

		if outcome.Title != "Requested title" {
			t.Errorf("expected requested title, got %q", outcome.Title)
		}
	})

	t.Run("missing binary folds into the outcome", func(t *testing.T) {
		t.Parallel()

		p, err := NewProcessRunner(Task{}, WithExecutable(filepath.Join(t.TempDir(), "does-not-exist")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Any")

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if outcome.ErrKind != model.KindUnknown {
			t.Errorf("expected kind %q, got %q", model.KindUnknown, outcome.ErrKind)
		}
		if !strings.Contains(outcome.Message, "worker process failed") {
			t.Errorf("expected spawn failure message, got %q", outcome.Message)
		}
	})

	t.Run("worker crash folds into the outcome", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `exit 3`)

		p, err := NewProcessRunner(Task{}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Any")

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if !strings.Contains(outcome.Message, "worker process failed") {
			t.Errorf("expected spawn failure message, got %q", outcome.Message)
		}
	})

	t.Run("unreadable worker output folds into the outcome", func(t *testing.T) {
		t.Parallel()

		script := writeWorkerScript(t, `echo 'not an outcome'`)

		p, err := NewProcessRunner(Task{}, WithExecutable(script))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := p.Run(context.Background(), "Any")

		if !outcome.Failed() {
			t.Fatal("expected a failure outcome")
		}
		if !strings.Contains(outcome.Message, "unreadable outcome") {
			t.Errorf("expected unreadable outcome message, got %q", outcome.Message)
		}
	})
}

// TestDispatchWithProcessRunner tests process mode through the dispatcher.
func TestDispatchWithProcessRunner(t *testing.T) {
	t.Parallel()

	script := writeWorkerScript(t, `echo '{"ok":true,"ref_count":1,"file_path":"wiki_dl/t.txt"}'`)

	p, err := NewProcessRunner(Task{OutputDir: "wiki_dl", APIURL: "http://localhost/api"}, WithExecutable(script))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	titles := []string{"First", "Second", "Third", "Fourth"}
	d := New(nil, WithMode(model.ModeProcesses), WithProcessRunner(p), WithMaxWorkers(2))

	summary, err := d.Dispatch(context.Background(), titles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.SuccessCount != 4 {
		t.Errorf("expected 4 successes, got %d", summary.SuccessCount)
	}
	for i, title := range titles {
		if summary.Outcomes[i].Title != title {
			t.Errorf("outcomes[%d]: got %q, expected %q", i, summary.Outcomes[i].Title, title)
		}
	}
}
