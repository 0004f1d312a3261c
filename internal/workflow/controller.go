package workflow

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/logging"
)

// Status line texts.
const (
	StatusReady = "Ready"

	StatusGeneratingPrompt = "Generating prompt..."
	StatusPromptGenerated  = "Prompt generated successfully!"
	StatusGeneratingImage  = "Generating image..."
	StatusImageGenerated   = "Image generated successfully!"
	StatusPushing          = "Pushing image to TV..."
	StatusPushed           = "Image successfully pushed to TV!"
	StatusSelectingFolder  = "Opening folder selection dialog..."
	StatusFolderSelected   = "Folder selected successfully!"
	StatusCheckingDevice   = "Checking TV connection..."
	StatusDeviceReachable  = "TV connection successful!"
	StatusDeviceFailed     = "TV connection failed"
	StatusSettingsSaved    = "Settings saved"

	// UploadNotification is raised after a successful push.
	UploadNotification = "Image successfully uploaded to TV!"
)

// Local precondition messages.
const (
	MsgPromptRequired  = "Please generate a prompt first"
	MsgNoImage         = "No image available to push"
	MsgAddressRequired = "TV IP address is required. Please set it in Settings."
	MsgEnterAddress    = "Please enter TV IP address first"
	MsgInvalidAddress  = "Invalid IP address format. Please enter a valid IP address (e.g., 192.168.1.100)"
	MsgNetworkError    = "Network error: Unable to reach the TV. Please check your network connection and try again."
)

// NotificationDuration is how long a success notification stays visible.
const NotificationDuration = 6000 * time.Millisecond

// addressPattern accepts four dot-separated groups of one to three digits.
// Groups are not bounded to 0-255.
var addressPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// ValidAddress reports whether addr passes the local format check.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Backend is the subset of the remote client the controller drives.
type Backend interface {
	SelectFolder(ctx context.Context) (string, error)
	GeneratePrompt(ctx context.Context) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	PushToTV(ctx context.Context, imageURL, tvIP string) error
	CheckTVIP(ctx context.Context, tvIP string) error
	TestTVConnection(ctx context.Context, tvIP string) error
	SaveSettings(ctx context.Context, tvIP, imageFolder string) error
}

// SettingsStore is the settings contract the controller needs.
type SettingsStore interface {
	Get() (config.Settings, error)
	Set(config.Update) error
}

// FolderChangeFunc is called with the new folder after the controller
// writes imageFolder.
type FolderChangeFunc func(folder string)

// Controller sequences the remote operations and holds the transient state
// they produce. Methods are safe for concurrent use. Overlapping calls are
// neither serialized nor de-duplicated: each runs to completion and the one
// that finishes last determines the state.
type Controller struct {
	backend Backend
	store   SettingsStore
	now     func() time.Time

	mu                  sync.Mutex
	statusLine          string
	prompt              string
	imageRef            string
	statuses            map[Group]Status
	connectivity        Connectivity
	connectivityMessage string
	deviceCheck         *bool
	notification        *Notification
	hooks               []FolderChangeFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller.
func New(b Backend, store SettingsStore, opts ...Option) *Controller {
	c := &Controller{
		backend:    b,
		store:      store,
		now:        time.Now,
		statusLine: StatusReady,
		statuses:   make(map[Group]Status),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnFolderChange registers fn to run whenever the controller changes the
// image folder.
func (c *Controller) OnFolderChange(fn FolderChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Snapshot returns a copy of the current state. An expired notification is
// omitted.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	statuses := make(map[Group]Status, len(c.statuses))
	for g, s := range c.statuses {
		statuses[g] = s
	}

	snap := Snapshot{
		StatusLine:          c.statusLine,
		Prompt:              c.prompt,
		ImageRef:            c.imageRef,
		Statuses:            statuses,
		Connectivity:        c.connectivity,
		ConnectivityMessage: c.connectivityMessage,
	}
	if c.deviceCheck != nil {
		ok := *c.deviceCheck
		snap.DeviceCheck = &ok
	}
	if n := c.activeNotification(); n != nil {
		cp := *n
		snap.Notification = &cp
	}
	return snap
}

// Settings returns the persisted settings.
func (c *Controller) Settings() (config.Settings, error) {
	return c.store.Get()
}

// SetPrompt replaces the prompt with text typed by the user.
func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = prompt
}

// Notify raises a success notification that expires after
// NotificationDuration.
func (c *Controller) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notification = &Notification{Message: message, ExpiresAt: c.now().Add(NotificationDuration)}
}

// DismissNotification hides the current notification, if any.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notification = nil
}

// ResetConnectivity clears the connection test result, as editing the
// address does.
func (c *Controller) ResetConnectivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectivity = ConnectivityNone
	c.connectivityMessage = ""
	c.deviceCheck = nil
}

// must be called with mu held
func (c *Controller) activeNotification() *Notification {
	if c.notification == nil {
		return nil
	}
	if !c.now().Before(c.notification.ExpiresAt) {
		c.notification = nil
		return nil
	}
	return c.notification
}

// transition moves group g to phase with message. A non-empty line also
// replaces the shared status line.
func (c *Controller) transition(g Group, phase Phase, message, line string) {
	c.mu.Lock()
	prev := c.statuses[g].Phase
	c.statuses[g] = Status{Phase: phase, Message: message}
	if line != "" {
		c.statusLine = line
	}
	c.mu.Unlock()

	logging.LogTransition(string(g), prev.String(), phase.String(), message)
}

func (c *Controller) begin(g Group, line string) {
	c.transition(g, Busy, line, line)
}

func (c *Controller) succeed(g Group, line string) {
	c.transition(g, Succeeded, line, line)
}

// fail records err for g and returns it unchanged.
func (c *Controller) fail(g Group, err error) error {
	msg := backend.Message(err)
	c.transition(g, Failed, msg, "Error: "+msg)
	return err
}

// GeneratePrompt asks the backend for a new prompt. The current image is
// kept either way; the prompt is cleared on failure.
func (c *Controller) GeneratePrompt(ctx context.Context) (string, error) {
	c.begin(GroupPrompt, StatusGeneratingPrompt)

	prompt, err := c.backend.GeneratePrompt(ctx)
	if err != nil {
		c.mu.Lock()
		c.prompt = ""
		c.mu.Unlock()
		return "", c.fail(GroupPrompt, err)
	}

	c.mu.Lock()
	c.prompt = prompt
	c.mu.Unlock()
	c.succeed(GroupPrompt, StatusPromptGenerated)
	return prompt, nil
}

// GenerateImage renders the current prompt. An empty prompt fails without
// a request. The image reference is cleared on any failure.
func (c *Controller) GenerateImage(ctx context.Context) (string, error) {
	c.mu.Lock()
	prompt := c.prompt
	c.mu.Unlock()

	clearImage := func() {
		c.mu.Lock()
		c.imageRef = ""
		c.mu.Unlock()
	}

	if prompt == "" {
		clearImage()
		return "", c.fail(GroupImage, backend.NewValidationError(MsgPromptRequired))
	}

	c.begin(GroupImage, StatusGeneratingImage)

	ref, err := c.backend.GenerateImage(ctx, prompt)
	if err != nil {
		clearImage()
		return "", c.fail(GroupImage, err)
	}

	c.mu.Lock()
	c.imageRef = ref
	c.mu.Unlock()
	c.succeed(GroupImage, StatusImageGenerated)
	return ref, nil
}

// SetImage replaces the current image reference, for pushing an image that
// was not generated in this session.
func (c *Controller) SetImage(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageRef = ref
}

// PushToDevice sends the current image to the configured TV. Missing image
// or address fails without a request. Success raises UploadNotification.
func (c *Controller) PushToDevice(ctx context.Context) error {
	c.mu.Lock()
	ref := c.imageRef
	c.mu.Unlock()

	if ref == "" {
		return c.fail(GroupPush, backend.NewValidationError(MsgNoImage))
	}

	settings, err := c.store.Get()
	if err != nil {
		return c.fail(GroupPush, fmt.Errorf("failed to read settings: %w", err))
	}
	if settings.DeviceAddress == "" {
		return c.fail(GroupPush, backend.NewValidationError(MsgAddressRequired))
	}

	c.DismissNotification()
	c.begin(GroupPush, StatusPushing)

	if err := c.backend.PushToTV(ctx, ref, settings.DeviceAddress); err != nil {
		return c.fail(GroupPush, err)
	}

	c.succeed(GroupPush, StatusPushed)
	c.Notify(UploadNotification)
	return nil
}

// SelectFolder has the backend open its folder dialog, stores the result
// as imageFolder and fires the folder-change hooks.
func (c *Controller) SelectFolder(ctx context.Context) (string, error) {
	c.begin(GroupFolder, StatusSelectingFolder)

	folder, err := c.backend.SelectFolder(ctx)
	if err != nil {
		return "", c.fail(GroupFolder, err)
	}

	if err := c.store.Set(config.Update{ImageFolderPath: config.StringPtr(folder)}); err != nil {
		return "", c.fail(GroupFolder, fmt.Errorf("failed to save image folder: %w", err))
	}

	c.succeed(GroupFolder, StatusFolderSelected)
	c.fireFolderChange(folder)
	return folder, nil
}

// CheckConnection validates address locally and then asks the backend to
// open a session with the TV. The outcome is reported through the
// tri-state Connectivity, not the status line.
func (c *Controller) CheckConnection(ctx context.Context, address string) error {
	c.setConnectivity(ConnectivityTesting, "")
	c.transition(GroupConnectivity, Busy, string(ConnectivityTesting), "")

	if !ValidAddress(address) {
		c.setConnectivity(ConnectivityError, MsgInvalidAddress)
		c.transition(GroupConnectivity, Failed, MsgInvalidAddress, "")
		return backend.NewValidationError(MsgInvalidAddress)
	}

	err := c.backend.TestTVConnection(ctx, address)
	if err == nil {
		c.setConnectivity(ConnectivitySuccess, "")
		c.transition(GroupConnectivity, Succeeded, string(ConnectivitySuccess), "")
		return nil
	}

	msg := MsgNetworkError
	if backend.IsBackendError(err) {
		msg = fmt.Sprintf("Connection failed: %s. Please ensure:\n- The TV is powered on\n- The TV is connected to the same network\n- The IP address is correct", backend.Message(err))
	}
	c.setConnectivity(ConnectivityError, msg)
	c.transition(GroupConnectivity, Failed, msg, "")
	return err
}

func (c *Controller) setConnectivity(state Connectivity, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectivity = state
	c.connectivityMessage = message
}

// CheckDevice asks the backend whether the TV at address answers. Any
// failure, transport included, reads as "TV connection failed".
func (c *Controller) CheckDevice(ctx context.Context, address string) (bool, error) {
	if address == "" {
		c.transition(GroupDevice, Failed, MsgEnterAddress, MsgEnterAddress)
		return false, backend.NewValidationError(MsgEnterAddress)
	}

	c.mu.Lock()
	c.deviceCheck = nil
	c.mu.Unlock()
	c.begin(GroupDevice, StatusCheckingDevice)

	err := c.backend.CheckTVIP(ctx, address)
	ok := err == nil

	c.mu.Lock()
	c.deviceCheck = &ok
	c.mu.Unlock()

	if !ok {
		logging.Debug("TV check failed", zap.String("tv_ip", address), zap.Error(err))
		c.transition(GroupDevice, Failed, StatusDeviceFailed, StatusDeviceFailed)
		return false, err
	}
	c.succeed(GroupDevice, StatusDeviceReachable)
	return true, nil
}

// SaveSettings persists address and folder, then mirrors them to the
// backend. The backend call is best-effort: its failure is logged and
// otherwise ignored. Folder-change hooks fire when the folder changed.
func (c *Controller) SaveSettings(ctx context.Context, address, folder string) error {
	prev, err := c.store.Get()
	if err != nil {
		return c.fail(GroupSave, fmt.Errorf("failed to read settings: %w", err))
	}

	c.begin(GroupSave, "")

	err = c.store.Set(config.Update{
		DeviceAddress:   config.StringPtr(address),
		ImageFolderPath: config.StringPtr(folder),
	})
	if err != nil {
		return c.fail(GroupSave, fmt.Errorf("failed to save settings: %w", err))
	}

	if err := c.backend.SaveSettings(ctx, address, folder); err != nil {
		logging.Warn("Backend did not accept settings", zap.String("error", backend.Message(err)))
	}

	c.succeed(GroupSave, StatusSettingsSaved)

	if prev.ImageFolderPath != folder {
		c.fireFolderChange(folder)
	}
	return nil
}

// SetTheme persists the palette choice.
func (c *Controller) SetTheme(mode config.ThemeMode) error {
	return c.store.Set(config.Update{ThemeMode: config.ThemePtr(mode)})
}

func (c *Controller) fireFolderChange(folder string) {
	c.mu.Lock()
	hooks := make([]FolderChangeFunc, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(folder)
	}
}
