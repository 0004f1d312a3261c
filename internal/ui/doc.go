// Package ui provides one-shot terminal output for the artframe CLI.
//
// These components render once and exit: a header naming the command and
// its parameters, a wait line for slow backend calls, and a success or
// failure box. Failure boxes carry the backend troubleshooting hint for
// the error. The interactive panel lives in package tui.
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:    "Generate Image",
//	    Command:  "artframe image",
//	    Params:   []ui.Param{{Key: "Backend", Value: client.BaseURL}},
//	    Wait:     "Generating image",
//	    WaitHint: "up to 60 seconds",
//	})
//
//	err := runner.Run("Image generated", func() ([]ui.Param, error) {
//	    ref, err := ctrl.GenerateImage(ctx)
//	    return []ui.Param{{Key: "Image", Value: ref}}, err
//	})
//
// Logging stays silent unless ARTFRAME_LOG_LEVEL is set, so log lines do
// not interleave with this output.
package ui
