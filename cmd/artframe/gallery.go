package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/ui"
	"github.com/muurk/artframe/internal/workflow"
)

func init() {
	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryPushCmd)
	rootCmd.AddCommand(galleryCmd)
}

// galleryCmd groups the image folder commands
var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List and push images from the image folder",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the images in the image folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		settings, err := a.store.Get()
		if err != nil {
			return err
		}
		if settings.ImageFolderPath == "" {
			return warn(cmd, "No image folder set",
				ui.Param{Key: "Count", Value: "0"},
				ui.Param{Key: "Fix", Value: "artframe select-folder or artframe settings set --image-folder <dir>"})
		}

		rc := ui.RunnerConfig{
			Title:   "Gallery",
			Command: "artframe gallery list",
			Params:  a.params(ui.Param{Key: "Folder", Value: settings.ImageFolderPath}),
			Wait:    "Loading images",
		}
		return run(cmd, rc, "Images", func() ([]ui.Param, error) {
			if err := a.gallery.Refresh(cmd.Context()); err != nil {
				return nil, err
			}
			images := a.gallery.Images()
			details := make([]ui.Param, 0, len(images)+1)
			details = append(details, ui.Param{Key: "Count", Value: fmt.Sprint(len(images))})
			for i, ref := range images {
				details = append(details, ui.Param{Key: fmt.Sprint(i + 1), Value: ref})
			}
			return details, nil
		})
	},
}

var galleryPushCmd = &cobra.Command{
	Use:   "push <filename|ref>",
	Short: "Push an image from the image folder to the TV",
	Long: `Push an image from the image folder to the TV. A bare file name is
looked up under the backend's image path.

The TV sometimes accepts an upload but fails to display it; that still
counts as a successful push.`,
	Example: `  artframe gallery push sunset.png
  artframe gallery push /images/sunset.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ref := args[0]
		if !strings.HasPrefix(ref, "/") && !strings.Contains(ref, "://") {
			ref = a.gallery.Reference(ref)
		}

		rc := ui.RunnerConfig{
			Title:    "Push to TV",
			Command:  "artframe gallery push",
			Params:   a.params(ui.Param{Key: "Image", Value: ref}),
			Wait:     "Uploading image to TV",
			WaitHint: "up to 60 seconds",
		}
		return run(cmd, rc, "Image pushed", func() ([]ui.Param, error) {
			if err := a.gallery.PushSelected(cmd.Context(), ref); err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "Status", Value: workflow.UploadNotification}}, nil
		})
	},
}
