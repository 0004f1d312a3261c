package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/gallery"
	"github.com/muurk/artframe/internal/ui"
	"github.com/muurk/artframe/internal/workflow"
)

// Output formats
const (
	formatDetailed = "detailed"
	formatJSON     = "json"
)

var outputFormat string

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, json)")
}

func defaultAPIURL() string {
	return backend.DefaultBaseURL
}

// resolveAPIURL picks the backend URL: --api, then ARTFRAME_API_URL, then
// the default.
func resolveAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if env := os.Getenv(APIURLEnvVar); env != "" {
		return env
	}
	return defaultAPIURL()
}

// app holds the components every command is built from
type app struct {
	client  *backend.Client
	store   *config.Store
	ctrl    *workflow.Controller
	gallery *gallery.Gallery
}

func newApp() (*app, error) {
	var store *config.Store
	if configPath != "" {
		store = config.NewStore(configPath)
	} else {
		var err error
		store, err = config.OpenDefault()
		if err != nil {
			return nil, err
		}
	}

	client := backend.NewClient(resolveAPIURL())
	ctrl := workflow.New(client, store)
	gal := gallery.New(client, store, ctrl, gallery.WithFolderPicker(ctrl))

	return &app{client: client, store: store, ctrl: ctrl, gallery: gal}, nil
}

// params returns the header parameters shared by all commands
func (a *app) params(extra ...ui.Param) []ui.Param {
	params := []ui.Param{{Key: "Backend", Value: a.client.BaseURL}}
	if settings, err := a.store.Get(); err == nil {
		params = append(params, ui.Param{Key: "TV IP", Value: settings.DeviceAddress})
	}
	return append(params, extra...)
}

// reportedError marks an error already shown in a failure box, so main
// does not print it again.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// isReported reports whether err was already shown to the user
func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// run executes op and prints the outcome in the selected format
func run(cmd *cobra.Command, rc ui.RunnerConfig, title string, op ui.Operation) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	if outputFormat == formatJSON {
		return runJSON(cmd.OutOrStdout(), op)
	}

	runner := ui.NewRunner(rc)
	if err := runner.Run(title, op); err != nil {
		return reportedError{err: err}
	}
	return nil
}

// jsonResult is the json output of one command
type jsonResult struct {
	Success bool              `json:"success"`
	Details map[string]string `json:"details,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func runJSON(w io.Writer, op ui.Operation) error {
	details, err := op()

	result := jsonResult{Success: err == nil}
	if err != nil {
		result.Error = backend.Message(err)
	} else {
		result.Details = detailsMap(details)
	}

	if werr := writeJSON(w, result); werr != nil {
		return werr
	}
	if err != nil {
		return reportedError{err: err}
	}
	return nil
}

// warn prints a warning that is not a failure, in the selected format
func warn(cmd *cobra.Command, title string, details ...ui.Param) error {
	cmd.SilenceUsage = true
	w := cmd.OutOrStdout()

	if outputFormat == formatJSON {
		all := append([]ui.Param{{Key: "Warning", Value: title}}, details...)
		return writeJSON(w, jsonResult{Success: true, Details: detailsMap(all)})
	}
	ui.PrintWarning(w, title, details...)
	return nil
}

func detailsMap(details []ui.Param) map[string]string {
	if len(details) == 0 {
		return nil
	}
	m := make(map[string]string, len(details))
	for _, d := range details {
		m[d.Key] = d.Value
	}
	return m
}

func writeJSON(w io.Writer, result jsonResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(w, string(data))
	return nil
}
