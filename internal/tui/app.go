package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/gallery"
	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/workflow"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenSettings Screen = "settings"
)

// Messages for screen transitions
type screenTransitionMsg struct {
	screen Screen
}

type goBackMsg struct{}

// Gallery is the gallery view-model as the panel uses it.
type Gallery interface {
	Refresh(ctx context.Context) error
	PushSelected(ctx context.Context, ref string) error
	State() gallery.State
	Updates() <-chan struct{}
	CanPickFolder() bool
	PickFolder(ctx context.Context) (string, error)
}

// Session is what every screen shares: the controller and gallery the keys
// drive, and how image references are shown.
type Session struct {
	Ctx        context.Context
	Controller *workflow.Controller
	Gallery    Gallery

	// Resolve turns an image reference into the absolute URL shown to the
	// user. Nil shows references as they are.
	Resolve func(ref string) string

	// BackendURL is shown on the settings screen.
	BackendURL string

	Theme config.ThemeMode
}

func (s *Session) resolve(ref string) string {
	if s.Resolve == nil || ref == "" {
		return ref
	}
	return s.Resolve(ref)
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	HomeModel     HomeModel
	SettingsModel SettingsModel

	session *Session

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the panel. The saved theme is applied immediately.
func NewAppModel(session *Session) AppModel {
	if session.Ctx == nil {
		session.Ctx = context.Background()
	}
	if session.Theme == "" {
		if s, err := session.Controller.Settings(); err == nil {
			session.Theme = s.ThemeMode
		} else {
			logging.Warn("Failed to read settings", zap.Error(err))
		}
	}
	ApplyTheme(session.Theme)

	return AppModel{
		CurrentScreen: ScreenHome,
		HomeModel:     NewHomeModel(session),
		SettingsModel: NewSettingsModel(session),
		session:       session,
	}
}

// Init loads the gallery and starts listening for its changes
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.HomeModel.Init(),
		m.SettingsModel.Init(),
		waitForGallery(m.session.Gallery.Updates()),
	)
}

// Update handles all messages. Keys go to the current screen only; every
// other message reaches both screens, since an operation started on one
// may finish while the other is showing.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var rearm tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateCurrentScreen(msg)

	case screenTransitionMsg:
		return m.transitionTo(msg.screen)

	case goBackMsg:
		return m.goBack()

	case galleryUpdatedMsg:
		rearm = waitForGallery(m.session.Gallery.Updates())
	}

	home, homeCmd := m.HomeModel.Update(msg)
	m.HomeModel = home.(HomeModel)
	settings, settingsCmd := m.SettingsModel.Update(msg)
	m.SettingsModel = settings.(SettingsModel)

	return m, tea.Batch(homeCmd, settingsCmd, rearm)
}

// updateCurrentScreen routes key presses to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenHome:
		updated, c := m.HomeModel.Update(msg)
		m.HomeModel = updated.(HomeModel)
		cmd = c

	case ScreenSettings:
		updated, c := m.SettingsModel.Update(msg)
		m.SettingsModel = updated.(SettingsModel)
		cmd = c
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenSettings:
		// The form starts from what is saved, with no stale test result
		m.session.Controller.ResetConnectivity()
		m.SettingsModel = NewSettingsModel(m.session)
		m.SettingsModel.Width = m.Width
		m.SettingsModel.Height = m.Height
		cmd = m.SettingsModel.Init()

	case ScreenHome:
		m.HomeModel.Width = m.Width
		m.HomeModel.Height = m.Height
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenSettings:
		return m.transitionTo(ScreenHome)
	default:
		return m, tea.Quit
	}
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenHome:
		return m.HomeModel.View()
	case ScreenSettings:
		return m.SettingsModel.View()
	default:
		return "Unknown screen"
	}
}

// Run starts the panel on the terminal and blocks until the user quits.
func Run(session *Session) error {
	model := NewAppModel(session)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(session.Ctx))
	_, err := p.Run()
	return err
}
