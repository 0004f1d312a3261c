// Artframe is a control panel for generating AI artwork and showing it on a
// networked TV.
//
// It talks to the artframe backend over HTTP: the backend generates prompts
// and images, lists the local image folder and pushes images to the TV.
// This tool keeps the TV address and image folder in a settings file and
// never talks to the TV directly.
//
// Usage:
//
//	artframe [command] [flags]
//
// Running without arguments launches the interactive panel.
// See 'artframe --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/version"
)

// APIURLEnvVar sets the backend base URL when --api is not given.
const APIURLEnvVar = "ARTFRAME_API_URL"

func main() {
	loadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !isReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadEnvFiles reads .env style files into the environment. Variables
// already set are kept.
func loadEnvFiles() {
	envFiles := []string{".env", "artframe.env"}
	if dir, err := config.GetConfigDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(dir, "artframe.env"))
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", envFile, err)
		}
	}
}

// Global flags
var (
	apiURL     string
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "artframe",
	Short: "AI art control panel for your TV",
	Long: `Generate AI artwork and display it on a networked TV.

The backend generates prompts and images, lists your local image folder
and pushes images to the TV. Settings (TV IP, image folder, theme) are kept
in a YAML file in your config directory.

If no command is specified, the interactive panel will launch automatically.`,
	Version: version.Version,
	Example: `  # Launch the panel
  artframe

  # Generate a prompt, then an image from it
  artframe image --auto-prompt

  # Push an image from the gallery
  artframe gallery push sunset.png

  # Use a backend on another host
  artframe --api http://studio.local:5000 gallery list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the panel when no subcommand provided
		return runPanel(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// main prints errors, failure boxes already show theirs
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (default $"+APIURLEnvVar+" or "+defaultAPIURL()+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default <config dir>/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+logging.LogLevelEnvVar+", silent if unset)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file (default $"+logging.LogFileEnvVar+")")

	rootCmd.AddCommand(versionCmd)
}

// initLogging starts the logger. The panel owns the terminal, so it always
// logs to a file.
func initLogging(cmd *cobra.Command) error {
	opts := logging.Options{Level: logLevel, File: logFile}

	if isPanelCommand(cmd) && opts.File == "" && os.Getenv(logging.LogFileEnvVar) == "" {
		if dir, err := config.GetConfigDir(); err == nil {
			opts.File = filepath.Join(dir, "artframe.log")
		}
	}

	if err := logging.Initialize(opts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// isPanelCommand reports whether cmd launches the panel: the root command
// or "panel".
func isPanelCommand(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "panel"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("artframe %s (commit: %s)\n", version.Version, version.Commit)
	},
}
