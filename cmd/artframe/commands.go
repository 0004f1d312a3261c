package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/ui"
	"github.com/muurk/artframe/internal/workflow"
)

// Command flags
var (
	autoPrompt bool
	pushAfter  bool
)

func init() {
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(selectFolderCmd)
	rootCmd.AddCommand(checkTVCmd)
	rootCmd.AddCommand(testTVCmd)
}

// promptCmd asks the backend for a new prompt
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Generate an artwork prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:    "Generate Prompt",
			Command:  "artframe prompt",
			Params:   a.params(),
			Wait:     "Generating prompt",
			WaitHint: "up to 60 seconds",
		}
		return run(cmd, rc, "Prompt generated", func() ([]ui.Param, error) {
			prompt, err := a.ctrl.GeneratePrompt(cmd.Context())
			if err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "Prompt", Value: prompt}}, nil
		})
	},
}

// imageCmd renders a prompt into an image
var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Generate an image from a prompt",
	Long: `Generate an image from a prompt.

The prompt is taken from the argument. With --auto-prompt and no argument,
a new prompt is generated first. With --push, the image is sent to the TV
once it is ready.`,
	Example: `  # Generate from your own prompt
  artframe image "a lighthouse in a storm, oil on canvas"

  # Let the backend write the prompt, then push the result
  artframe image --auto-prompt --push`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:    "Generate Image",
			Command:  "artframe image",
			Params:   a.params(),
			Wait:     "Generating image",
			WaitHint: "up to 60 seconds",
		}
		return run(cmd, rc, "Image generated", func() ([]ui.Param, error) {
			ctx := cmd.Context()
			var details []ui.Param

			if len(args) == 1 {
				a.ctrl.SetPrompt(strings.TrimSpace(args[0]))
			} else if autoPrompt {
				prompt, err := a.ctrl.GeneratePrompt(ctx)
				if err != nil {
					return nil, err
				}
				details = append(details, ui.Param{Key: "Prompt", Value: prompt})
			}

			ref, err := a.ctrl.GenerateImage(ctx)
			if err != nil {
				return details, err
			}
			details = append(details,
				ui.Param{Key: "Image", Value: ref},
				ui.Param{Key: "URL", Value: a.client.ResolveURL(ref)},
			)

			if pushAfter {
				if err := a.ctrl.PushToDevice(ctx); err != nil {
					return details, err
				}
				details = append(details, ui.Param{Key: "TV", Value: workflow.StatusPushed})
			}
			return details, nil
		})
	},
}

func init() {
	imageCmd.Flags().BoolVar(&autoPrompt, "auto-prompt", false, "Generate a prompt first when none is given")
	imageCmd.Flags().BoolVar(&pushAfter, "push", false, "Push the image to the TV when done")
}

// pushCmd sends an image reference to the TV
var pushCmd = &cobra.Command{
	Use:   "push <imageUrl>",
	Short: "Push an image to the TV",
	Long: `Push an image to the TV at the saved address.

The image is a reference the backend understands, as printed by
'artframe image' (for example /images/sunset.png).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:    "Push to TV",
			Command:  "artframe push",
			Params:   a.params(ui.Param{Key: "Image", Value: args[0]}),
			Wait:     "Pushing image to TV",
			WaitHint: "up to 60 seconds",
		}
		return run(cmd, rc, "Image pushed", func() ([]ui.Param, error) {
			a.ctrl.SetImage(args[0])
			if err := a.ctrl.PushToDevice(cmd.Context()); err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "Status", Value: workflow.StatusPushed}}, nil
		})
	},
}

// selectFolderCmd opens the backend folder dialog
var selectFolderCmd = &cobra.Command{
	Use:   "select-folder",
	Short: "Choose the image folder with the backend's dialog",
	Long: `Open the folder dialog on the machine running the backend and save the
chosen folder as the gallery folder.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:    "Select Folder",
			Command:  "artframe select-folder",
			Params:   a.params(),
			Wait:     "Waiting for the folder dialog",
			WaitHint: "up to 2 minutes",
		}
		return run(cmd, rc, "Folder selected", func() ([]ui.Param, error) {
			folder, err := a.ctrl.SelectFolder(cmd.Context())
			if err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "Folder", Value: folder}}, nil
		})
	},
}

// checkTVCmd asks the backend whether the TV answers
var checkTVCmd = &cobra.Command{
	Use:   "check-tv [ip]",
	Short: "Check that the TV answers at an address",
	Long: `Check that the TV answers at an address. Without an argument the saved
TV IP is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		address, err := a.address(args)
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:   "Check TV",
			Command: "artframe check-tv",
			Params:  a.params(ui.Param{Key: "Checking", Value: address}),
			Wait:    workflow.StatusCheckingDevice,
		}
		return run(cmd, rc, workflow.StatusDeviceReachable, func() ([]ui.Param, error) {
			if _, err := a.ctrl.CheckDevice(cmd.Context(), address); err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "TV IP", Value: address}}, nil
		})
	},
}

// testTVCmd opens a session with the TV through the backend
var testTVCmd = &cobra.Command{
	Use:   "test-tv [ip]",
	Short: "Test the connection to the TV",
	Long: `Validate the address and test the connection to the TV. Without an
argument the saved TV IP is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		address, err := a.address(args)
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:   "Test TV Connection",
			Command: "artframe test-tv",
			Params:  a.params(ui.Param{Key: "Testing", Value: address}),
			Wait:    "Testing connection",
		}
		return run(cmd, rc, "Connection successful", func() ([]ui.Param, error) {
			if err := a.ctrl.CheckConnection(cmd.Context(), address); err != nil {
				return nil, connectivityError(err, a.ctrl.Snapshot().ConnectivityMessage)
			}
			return []ui.Param{{Key: "TV IP", Value: address}}, nil
		})
	},
}

// address returns the address argument, or the saved TV IP
func (a *app) address(args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	settings, err := a.store.Get()
	if err != nil {
		return "", err
	}
	return settings.DeviceAddress, nil
}

// connectivityError carries the connection test message while keeping the
// error's type for the troubleshooting hint.
func connectivityError(err error, message string) error {
	var be *backend.Error
	if !errors.As(err, &be) || message == "" {
		return err
	}
	out := *be
	out.Message = message
	return &out
}
