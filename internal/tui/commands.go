package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/artframe/internal/workflow"
)

// Message types for async operations. Every remote call runs in its own
// command and reports back with one of these; the state itself lives in
// the controller and gallery, so the messages only carry the outcome.
type opCompleteMsg struct {
	group workflow.Group
	err   error
}

type folderSelectedMsg struct {
	folder string
	err    error
}

type galleryRefreshedMsg struct {
	err error
}

type galleryPushedMsg struct {
	ref string
	err error
}

type galleryUpdatedMsg struct{}

type settingsSavedMsg struct {
	err error
}

type notificationExpiredMsg struct{}

func generatePromptCmd(ctx context.Context, ctrl *workflow.Controller) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.GeneratePrompt(ctx)
		return opCompleteMsg{group: workflow.GroupPrompt, err: err}
	}
}

func generateImageCmd(ctx context.Context, ctrl *workflow.Controller) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.GenerateImage(ctx)
		return opCompleteMsg{group: workflow.GroupImage, err: err}
	}
}

func pushCmd(ctx context.Context, ctrl *workflow.Controller) tea.Cmd {
	return func() tea.Msg {
		return opCompleteMsg{group: workflow.GroupPush, err: ctrl.PushToDevice(ctx)}
	}
}

// selectFolderCmd runs the folder dialog through pick, which is either the
// controller or the gallery's folder picker.
func selectFolderCmd(ctx context.Context, pick func(context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		folder, err := pick(ctx)
		return folderSelectedMsg{folder: folder, err: err}
	}
}

func checkDeviceCmd(ctx context.Context, ctrl *workflow.Controller, address string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.CheckDevice(ctx, address)
		return opCompleteMsg{group: workflow.GroupDevice, err: err}
	}
}

func checkConnectionCmd(ctx context.Context, ctrl *workflow.Controller, address string) tea.Cmd {
	return func() tea.Msg {
		return opCompleteMsg{group: workflow.GroupConnectivity, err: ctrl.CheckConnection(ctx, address)}
	}
}

func saveSettingsCmd(ctx context.Context, ctrl *workflow.Controller, address, folder string) tea.Cmd {
	return func() tea.Msg {
		return settingsSavedMsg{err: ctrl.SaveSettings(ctx, address, folder)}
	}
}

func refreshGalleryCmd(ctx context.Context, g Gallery) tea.Cmd {
	return func() tea.Msg {
		return galleryRefreshedMsg{err: g.Refresh(ctx)}
	}
}

func pushGalleryCmd(ctx context.Context, g Gallery, ref string) tea.Cmd {
	return func() tea.Msg {
		return galleryPushedMsg{ref: ref, err: g.PushSelected(ctx, ref)}
	}
}

// waitForGallery blocks until the gallery reports a change. The model
// re-arms it after every message so changes made outside the panel (a
// settings file edit) reach the view.
func waitForGallery(updates <-chan struct{}) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		<-updates
		return galleryUpdatedMsg{}
	}
}

// expireNotificationCmd fires once a notification raised now has expired.
func expireNotificationCmd() tea.Cmd {
	return tea.Tick(workflow.NotificationDuration+10*time.Millisecond, func(time.Time) tea.Msg {
		return notificationExpiredMsg{}
	})
}
