package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for one command execution
type RunnerConfig struct {
	Title    string    // Command title (e.g., "Generate Image")
	Command  string    // Full command (e.g., "artframe image")
	Params   []Param   // Parameters to display in header
	Wait     string    // Wait line shown while the operation runs
	WaitHint string    // e.g., "up to 60 seconds"
	Output   io.Writer // Output writer (default: os.Stdout)
}

// Runner prints the header, wait line and result box around a command's
// operation.
type Runner struct {
	config RunnerConfig
	output io.Writer
	width  int
}

// NewRunner creates a new runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Runner{
		config: config,
		output: config.Output,
		width:  GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (r *Runner) SetWidth(width int) *Runner {
	r.width = width
	return r
}

// Operation performs the work and returns the details to show on success.
type Operation func() ([]Param, error)

// Run executes op and prints the outcome. The operation's error is
// returned unchanged.
func (r *Runner) Run(title string, op Operation) error {
	header := NewHeader(r.config.Title, r.config.Command, r.config.Params...)
	header.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, header.Render())

	if r.config.Wait != "" {
		r.printWait()
	}

	start := time.Now()
	details, err := op()
	duration := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		result := NewFailureResult(title+" failed", err)
		result.SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
		return err
	}

	result := NewSuccessResult(title, details...)
	result.AddDetail("Duration", duration.String())
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
	return nil
}

func (r *Runner) printWait() {
	line := WaitStyle.Render("⏳ " + r.config.Wait)
	if r.config.WaitHint != "" {
		line += " " + WaitHintStyle.Render("("+r.config.WaitHint+")")
	}
	line += WaitStyle.UnsetPaddingLeft().Render("...")

	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, line)
}

// PrintWarning prints a styled warning result
func PrintWarning(w io.Writer, title string, details ...Param) {
	_, _ = fmt.Fprintln(w, NewWarningResult(title, details...).Render())
}
