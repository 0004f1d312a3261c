package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/workflow"
)

// SoftSuccessMarker marks a push error the backend reports after the image
// was uploaded but could not be selected on the TV. Such a push counts as a
// success.
const SoftSuccessMarker = "Failed to select image on TV"

// ErrNoFolderPicker is returned by PickFolder when the gallery was built
// without the folder-picker capability.
var ErrNoFolderPicker = errors.New("folder picker not available")

// Backend is the subset of the remote client the gallery uses.
type Backend interface {
	ListLocalImages(ctx context.Context) ([]string, error)
	PushToTV(ctx context.Context, imageURL, tvIP string) error
}

// Settings supplies the persisted configuration.
type Settings interface {
	Get() (config.Settings, error)
}

// Notifier shows and clears the upload notification.
type Notifier interface {
	Notify(message string)
	DismissNotification()
}

// FolderPicker opens the backend folder dialog and stores the result.
type FolderPicker interface {
	SelectFolder(ctx context.Context) (string, error)
}

// FolderChangeSource announces folder changes made through the workflow.
type FolderChangeSource interface {
	OnFolderChange(fn workflow.FolderChangeFunc)
}

// Watcher announces settings changes made by any process.
type Watcher interface {
	Watch(ctx context.Context, fn func(config.Settings)) error
}

// State is a copy of the gallery for rendering.
type State struct {
	Folder    string
	Images    []string
	Error     string
	Loading   bool
	Uploading bool
}

// Gallery lists the images in the configured folder and pushes them to the
// TV.
type Gallery struct {
	backend  Backend
	settings Settings
	notifier Notifier
	picker   FolderPicker
	base     string

	mu        sync.Mutex
	folder    string
	images    []string
	err       string
	loading   bool
	uploading bool

	updates chan struct{}
}

// Option configures a Gallery.
type Option func(*Gallery)

// WithFolderPicker enables PickFolder.
func WithFolderPicker(p FolderPicker) Option {
	return func(g *Gallery) {
		g.picker = p
	}
}

// WithBasePath changes the prefix joined to each file name. The default is
// backend.ImagesPath.
func WithBasePath(base string) Option {
	return func(g *Gallery) {
		g.base = strings.TrimRight(base, "/")
	}
}

// New creates a gallery. It starts empty; call Refresh or Subscribe.
func New(b Backend, settings Settings, notifier Notifier, opts ...Option) *Gallery {
	g := &Gallery{
		backend:  b,
		settings: settings,
		notifier: notifier,
		base:     backend.ImagesPath,
		updates:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Updates receives a value after every refresh or push completes. Sends
// never block; rapid changes coalesce.
func (g *Gallery) Updates() <-chan struct{} {
	return g.updates
}

func (g *Gallery) changed() {
	select {
	case g.updates <- struct{}{}:
	default:
	}
}

// Reference returns the image reference for a backend file name.
func (g *Gallery) Reference(filename string) string {
	return g.base + "/" + filename
}

// Refresh rebuilds the image list from the backend. An empty folder yields
// an empty list without a request. On failure the list is emptied and the
// error kept for display.
func (g *Gallery) Refresh(ctx context.Context) error {
	settings, err := g.settings.Get()
	if err != nil {
		g.mu.Lock()
		g.images = nil
		g.err = err.Error()
		g.mu.Unlock()
		g.changed()
		return err
	}

	folder := settings.ImageFolderPath

	g.mu.Lock()
	g.folder = folder
	if folder == "" {
		g.images = nil
		g.err = ""
		g.mu.Unlock()
		g.changed()
		return nil
	}
	g.loading = true
	g.mu.Unlock()

	names, err := g.backend.ListLocalImages(ctx)

	g.mu.Lock()
	g.loading = false
	if err != nil {
		g.images = nil
		g.err = backend.Message(err)
	} else {
		refs := make([]string, len(names))
		for i, name := range names {
			refs[i] = g.Reference(name)
		}
		g.images = refs
		g.err = ""
	}
	count := len(g.images)
	g.mu.Unlock()
	g.changed()

	if err != nil {
		logging.Warn("Failed to list local images", zap.String("folder", folder), zap.Error(err))
		return err
	}
	logging.Debug("Gallery refreshed", zap.String("folder", folder), zap.Int("images", count))
	return nil
}

// Images returns the current references in backend order.
func (g *Gallery) Images() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.images))
	copy(out, g.images)
	return out
}

// State returns a copy of the gallery state.
func (g *Gallery) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	images := make([]string, len(g.images))
	copy(images, g.images)
	return State{
		Folder:    g.folder,
		Images:    images,
		Error:     g.err,
		Loading:   g.loading,
		Uploading: g.uploading,
	}
}

// PushSelected sends ref to the configured TV. A backend error containing
// SoftSuccessMarker is reported as success.
func (g *Gallery) PushSelected(ctx context.Context, ref string) error {
	settings, err := g.settings.Get()
	if err != nil {
		return g.pushFailed(err)
	}
	if settings.DeviceAddress == "" {
		return g.pushFailed(backend.NewValidationError(workflow.MsgAddressRequired))
	}

	g.notifier.DismissNotification()

	g.mu.Lock()
	g.uploading = true
	g.err = ""
	g.mu.Unlock()

	err = g.backend.PushToTV(ctx, ref, settings.DeviceAddress)

	g.mu.Lock()
	g.uploading = false
	g.mu.Unlock()

	if err != nil && !strings.Contains(backend.Message(err), SoftSuccessMarker) {
		return g.pushFailed(err)
	}
	if err != nil {
		logging.Info("Image uploaded but not selected on TV", zap.String("image", ref), zap.String("error", backend.Message(err)))
	}

	g.notifier.Notify(workflow.UploadNotification)
	g.changed()
	return nil
}

func (g *Gallery) pushFailed(err error) error {
	g.mu.Lock()
	g.err = backend.Message(err)
	g.mu.Unlock()
	g.changed()
	return err
}

// CanPickFolder reports whether the gallery offers an inline folder picker.
func (g *Gallery) CanPickFolder() bool {
	return g.picker != nil
}

// PickFolder delegates to the folder picker. The picker's folder-change
// notification triggers the refresh.
func (g *Gallery) PickFolder(ctx context.Context) (string, error) {
	if g.picker == nil {
		return "", ErrNoFolderPicker
	}
	return g.picker.SelectFolder(ctx)
}

// Subscribe refreshes the gallery whenever the folder changes: through
// source on every change, and through watcher when the file on disk names
// a folder other than the one last loaded. Either may be nil. Watching
// stops when ctx is cancelled.
func (g *Gallery) Subscribe(ctx context.Context, source FolderChangeSource, watcher Watcher) error {
	if source != nil {
		source.OnFolderChange(func(string) {
			_ = g.Refresh(ctx)
		})
	}
	if watcher == nil {
		return nil
	}
	return watcher.Watch(ctx, func(s config.Settings) {
		g.mu.Lock()
		same := s.ImageFolderPath == g.folder
		g.mu.Unlock()
		if same {
			return
		}
		_ = g.Refresh(ctx)
	})
}
