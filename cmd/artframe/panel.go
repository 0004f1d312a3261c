package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/tui"
	"github.com/muurk/artframe/internal/ui"
)

func init() {
	rootCmd.AddCommand(panelCmd)
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Launch the interactive control panel",
	Long: `Launch the interactive control panel.

The panel generates prompts and images, pushes them to the TV and browses
the image folder. Logs go to artframe.log in the config directory unless
--log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return errors.New("the panel needs an interactive terminal; use a subcommand instead (see 'artframe --help')")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := a.gallery.Subscribe(ctx, a.ctrl, a.store); err != nil {
		// The panel still works, it just misses edits made elsewhere
		logging.Warn("Settings watcher unavailable", zap.Error(err))
	}

	logging.Info("Starting panel", zap.String("backend", a.client.BaseURL), zap.String("settings", a.store.Path()))

	return tui.Run(&tui.Session{
		Ctx:        ctx,
		Controller: a.ctrl,
		Gallery:    a.gallery,
		Resolve:    a.client.ResolveURL,
		BackendURL: a.client.BaseURL,
	})
}
