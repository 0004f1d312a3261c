package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/workflow"
)

// SettingsField identifies the focused input
type SettingsField int

const (
	FieldAddress SettingsField = iota
	FieldFolder
)

// settingsKeyMap defines key bindings for the settings screen. Letters go
// to the focused input, so actions use control keys.
type settingsKeyMap struct {
	Next           key.Binding
	Prev           key.Binding
	CheckDevice    key.Binding
	TestConnection key.Binding
	Browse         key.Binding
	Save           key.Binding
	Back           key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.CheckDevice, k.TestConnection, k.Browse, k.Save, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.CheckDevice, k.TestConnection, k.Browse},
		{k.Save, k.Back},
	}
}

// SettingsModel edits the TV address and the image folder.
type SettingsModel struct {
	session *Session

	AddressInput textinput.Model
	FolderInput  textinput.Model
	Focus        SettingsField
	Spinner      spinner.Model

	// Save outcome since the last edit
	Saved     bool
	SaveError error

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys settingsKeyMap
}

// NewSettingsModel creates the settings form filled from the saved settings
func NewSettingsModel(session *Session) SettingsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	addressInput := textinput.New()
	addressInput.Placeholder = "e.g. 192.168.1.100"
	addressInput.CharLimit = 15 // Max length for IPv4 address
	addressInput.Width = 30

	folderInput := textinput.New()
	folderInput.Placeholder = "/path/to/images"
	folderInput.CharLimit = 4096
	folderInput.Width = 50

	if settings, err := session.Controller.Settings(); err == nil {
		addressInput.SetValue(settings.DeviceAddress)
		folderInput.SetValue(settings.ImageFolderPath)
	} else {
		logging.Warn("Failed to read settings", zap.Error(err))
	}
	addressInput.Focus()

	keys := settingsKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		CheckDevice: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "check IP"),
		),
		TestConnection: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "test connection"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse folder"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}

	return SettingsModel{
		session:      session,
		AddressInput: addressInput,
		FolderInput:  folderInput,
		Focus:        FieldAddress,
		Spinner:      s,
		Help:         help.New(),
		Keys:         keys,
	}
}

// Init starts the cursor blink and spinner
func (m SettingsModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case folderSelectedMsg:
		if msg.err == nil {
			m.FolderInput.SetValue(msg.folder)
		}

	case settingsSavedMsg:
		m.Saved = msg.err == nil
		m.SaveError = msg.err
	}

	// Cursor blink for the focused input
	var cmd tea.Cmd
	if m.Focus == FieldAddress {
		m.AddressInput, cmd = m.AddressInput.Update(msg)
	} else {
		m.FolderInput, cmd = m.FolderInput.Update(msg)
	}
	return m, cmd
}

// updateKeys handles key presses
func (m SettingsModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.session.Controller
	snap := ctrl.Snapshot()

	switch {
	case key.Matches(msg, m.Keys.Back):
		return m, func() tea.Msg { return goBackMsg{} }

	case key.Matches(msg, m.Keys.Next, m.Keys.Prev):
		cmd := m.toggleFocus()
		return m, cmd

	case key.Matches(msg, m.Keys.CheckDevice):
		if !snap.Busy(workflow.GroupDevice) {
			return m, checkDeviceCmd(m.session.Ctx, ctrl, strings.TrimSpace(m.AddressInput.Value()))
		}
		return m, nil

	case key.Matches(msg, m.Keys.TestConnection):
		if !snap.Busy(workflow.GroupConnectivity) {
			return m, checkConnectionCmd(m.session.Ctx, ctrl, strings.TrimSpace(m.AddressInput.Value()))
		}
		return m, nil

	case key.Matches(msg, m.Keys.Browse):
		if !snap.Busy(workflow.GroupFolder) {
			return m, selectFolderCmd(m.session.Ctx, ctrl.SelectFolder)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Save):
		if !snap.Busy(workflow.GroupSave) {
			m.Saved = false
			m.SaveError = nil
			return m, saveSettingsCmd(m.session.Ctx, ctrl,
				strings.TrimSpace(m.AddressInput.Value()),
				strings.TrimSpace(m.FolderInput.Value()))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.Focus == FieldAddress {
		before := m.AddressInput.Value()
		m.AddressInput, cmd = m.AddressInput.Update(msg)
		if m.AddressInput.Value() != before {
			// A new address invalidates the last test
			ctrl.ResetConnectivity()
			m.Saved = false
		}
		return m, cmd
	}

	before := m.FolderInput.Value()
	m.FolderInput, cmd = m.FolderInput.Update(msg)
	if m.FolderInput.Value() != before {
		m.Saved = false
	}
	return m, cmd
}

// toggleFocus moves focus to the other input
func (m *SettingsModel) toggleFocus() tea.Cmd {
	if m.Focus == FieldAddress {
		m.Focus = FieldFolder
		m.AddressInput.Blur()
		return m.FolderInput.Focus()
	}
	m.Focus = FieldAddress
	m.FolderInput.Blur()
	return m.AddressInput.Focus()
}

// View renders the settings screen
func (m SettingsModel) View() string {
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

// buildContent builds the settings screen content
func (m SettingsModel) buildContent() string {
	snap := m.session.Controller.Snapshot()

	sections := []string{
		RenderTitle("Settings"),
		m.renderInput("TV IP", m.AddressInput, m.Focus == FieldAddress),
	}
	if s := m.renderDeviceCheck(snap); s != "" {
		sections = append(sections, s)
	}
	if s := m.renderConnectivity(snap); s != "" {
		sections = append(sections, s)
	}

	sections = append(sections, "", m.renderInput("Folder", m.FolderInput, m.Focus == FieldFolder))
	if st := snap.Statuses[workflow.GroupFolder]; st.Phase == workflow.Busy {
		sections = append(sections, m.Spinner.View()+" "+st.Message)
	} else if st.Phase == workflow.Failed {
		sections = append(sections, ErrorBoxStyle.Render("✗ "+st.Message))
	}

	sections = append(sections, "")
	switch {
	case snap.Busy(workflow.GroupSave):
		sections = append(sections, m.Spinner.View()+" Saving...")
	case m.SaveError != nil:
		sections = append(sections, ErrorBoxStyle.Render("✗ "+snap.Statuses[workflow.GroupSave].Message))
	case m.Saved:
		sections = append(sections, SuccessBoxStyle.Render("✓ "+workflow.StatusSettingsSaved))
	}

	sections = append(sections,
		"",
		RenderField("Backend", m.session.BackendURL),
		RenderField("Theme", string(m.session.Theme)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderInput renders one labelled input
func (m SettingsModel) renderInput(label string, input textinput.Model, focused bool) string {
	style := BlurredInputStyle
	if focused {
		style = FocusedInputStyle
	}
	return LabelStyle.Render(label) + style.Render(input.View())
}

// renderDeviceCheck renders the "check IP" outcome
func (m SettingsModel) renderDeviceCheck(snap workflow.Snapshot) string {
	st := snap.Statuses[workflow.GroupDevice]
	switch {
	case st.Phase == workflow.Busy:
		return m.Spinner.View() + " " + workflow.StatusCheckingDevice
	case snap.DeviceCheck != nil && *snap.DeviceCheck:
		return SuccessBoxStyle.Render("✓ " + workflow.StatusDeviceReachable)
	case snap.DeviceCheck != nil:
		return ErrorBoxStyle.Render("✗ " + workflow.StatusDeviceFailed)
	case st.Phase == workflow.Failed && st.Message == workflow.MsgEnterAddress && m.AddressInput.Value() == "":
		// Local check, nothing was sent
		return WarningBoxStyle.Render("⚠ " + st.Message)
	}
	return ""
}

// renderConnectivity renders the connection test outcome
func (m SettingsModel) renderConnectivity(snap workflow.Snapshot) string {
	switch snap.Connectivity {
	case workflow.ConnectivityTesting:
		return m.Spinner.View() + " Testing connection..."
	case workflow.ConnectivitySuccess:
		return SuccessBoxStyle.Render("✓ Connection successful")
	case workflow.ConnectivityError:
		return ErrorBoxStyle.Render("✗ " + snap.ConnectivityMessage)
	}
	return ""
}
