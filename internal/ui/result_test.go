package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/artframe/internal/backend"
)

func TestResultRender_DetailsInOrder(t *testing.T) {
	out := NewSuccessResult("Settings",
		Param{Key: "TV IP", Value: "192.168.1.10"},
		Param{Key: "Folder", Value: "/art"},
	).SetWidth(80).Render()

	ip := strings.Index(out, "192.168.1.10")
	folder := strings.Index(out, "/art")
	if ip < 0 || folder < 0 || ip > folder {
		t.Errorf("details out of order:\n%s", out)
	}
	if !strings.Contains(out, "SUCCESS") {
		t.Errorf("missing SUCCESS title:\n%s", out)
	}
}

func TestResultRender_FailureShowsMessageAndHint(t *testing.T) {
	err := &backend.Error{Type: backend.ErrTypeConnectionRefused, Message: "backend refused the connection"}
	out := NewFailureResult("Generate prompt", err).SetWidth(80).Render()

	if !strings.Contains(out, "Error: backend refused the connection") {
		t.Errorf("missing normalized message:\n%s", out)
	}
	if !strings.Contains(out, "backend server is running") {
		t.Errorf("missing troubleshooting hint:\n%s", out)
	}
}

func TestRunner_Run(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(RunnerConfig{
		Title:   "Push",
		Command: "artframe push",
		Params:  []Param{{Key: "TV IP", Value: ""}},
		Output:  &buf,
	}).SetWidth(80)

	err := runner.Run("Pushed", func() ([]Param, error) {
		return []Param{{Key: "Image", Value: "/images/a.png"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PUSH", "artframe push", "(not set)", "/images/a.png", "Duration"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunner_RunFailure(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(RunnerConfig{Title: "Push", Command: "artframe push", Output: &buf}).SetWidth(80)

	want := errors.New("boom")
	err := runner.Run("Pushed", func() ([]Param, error) { return nil, want })
	if !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	if !strings.Contains(buf.String(), "FAILED") {
		t.Errorf("output missing FAILED:\n%s", buf.String())
	}
}
