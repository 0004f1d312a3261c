package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/ui"
)

func TestResolveAPIURL(t *testing.T) {
	defer func(prev string) { apiURL = prev }(apiURL)

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "default", want: backend.DefaultBaseURL},
		{name: "env", env: "http://env.local:5000", want: "http://env.local:5000"},
		{name: "flag wins", flag: "http://flag.local", env: "http://env.local:5000", want: "http://flag.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(APIURLEnvVar, tt.env)
			apiURL = tt.flag
			if got := resolveAPIURL(); got != tt.want {
				t.Errorf("resolveAPIURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPanelCommand(t *testing.T) {
	root := &cobra.Command{Use: "artframe"}
	panel := &cobra.Command{Use: "panel"}
	prompt := &cobra.Command{Use: "prompt"}
	root.AddCommand(panel, prompt)

	if !isPanelCommand(root) {
		t.Error("root command should launch the panel")
	}
	if !isPanelCommand(panel) {
		t.Error("panel command should launch the panel")
	}
	if isPanelCommand(prompt) {
		t.Error("prompt command should not launch the panel")
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    config.ThemeMode
		wantErr bool
	}{
		{input: "dark", want: config.ThemeDark},
		{input: " Light ", want: config.ThemeLight},
		{input: "solarized", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseTheme(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTheme(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTheme(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConnectivityError(t *testing.T) {
	orig := &backend.Error{Type: backend.ErrTypeBackend, Message: "raw"}

	err := connectivityError(orig, "Could not reach TV")
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *backend.Error, got %T", err)
	}
	if be.Message != "Could not reach TV" {
		t.Errorf("Message = %q", be.Message)
	}
	if be.Type != orig.Type {
		t.Errorf("Type = %v, want %v", be.Type, orig.Type)
	}
	if orig.Message != "raw" {
		t.Error("input error was modified")
	}

	plain := errors.New("boom")
	if got := connectivityError(plain, "ignored"); got != plain {
		t.Errorf("non-backend errors should pass through, got %v", got)
	}
}

func TestReportedError(t *testing.T) {
	err := reportedError{err: errors.New("boom")}
	if !isReported(err) {
		t.Error("reportedError should be reported")
	}
	if isReported(errors.New("boom")) {
		t.Error("plain error should not be reported")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWarn_JSONFormat(t *testing.T) {
	defer func(prev string) { outputFormat = prev }(outputFormat)
	outputFormat = formatJSON

	var out bytes.Buffer
	cmd := &cobra.Command{Use: "list"}
	cmd.SetOut(&out)

	if err := warn(cmd, "No image folder set", ui.Param{Key: "Count", Value: "0"}); err != nil {
		t.Fatalf("warn() error = %v", err)
	}

	var result jsonResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if !result.Success {
		t.Error("a warning is not a failure")
	}
	if result.Details["Warning"] != "No image folder set" || result.Details["Count"] != "0" {
		t.Errorf("Details = %v", result.Details)
	}
}

func TestRunJSON_Failure(t *testing.T) {
	var out bytes.Buffer
	err := runJSON(&out, func() ([]ui.Param, error) {
		return nil, &backend.Error{Type: backend.ErrTypeBackend, Message: "Upload rejected"}
	})
	if !isReported(err) {
		t.Fatalf("error should be marked reported, got %v", err)
	}

	var result jsonResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if result.Success || result.Error != "Upload rejected" {
		t.Errorf("result = %+v", result)
	}
	if strings.Contains(out.String(), "details") {
		t.Errorf("failed result should carry no details:\n%s", out.String())
	}
}
