package tui

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/artframe/internal/logging"
	"github.com/muurk/artframe/internal/workflow"
)

// homeKeyMap defines key bindings for the home screen
type homeKeyMap struct {
	Prompt     key.Binding
	EditPrompt key.Binding
	Image      key.Binding
	Push       key.Binding
	Folder     key.Binding
	Up         key.Binding
	Down       key.Binding
	PushImage  key.Binding
	Refresh    key.Binding
	Dismiss    key.Binding
	Settings   key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k homeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prompt, k.Image, k.Push, k.PushImage, k.Settings, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k homeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prompt, k.EditPrompt, k.Image, k.Push},
		{k.Up, k.Down, k.PushImage, k.Refresh, k.Folder},
		{k.Dismiss, k.Settings, k.Theme, k.Help, k.Quit},
	}
}

// promptKeyMap defines key bindings while the prompt is being edited
type promptKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k promptKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k promptKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// imageItem wraps a gallery reference for use with bubbles/list
type imageItem struct {
	ref string
	url string
}

// FilterValue implements list.Item
func (i imageItem) FilterValue() string { return i.ref }

// imageDelegate renders one gallery entry per line
type imageDelegate struct{}

func (d imageDelegate) Height() int { return 1 }

func (d imageDelegate) Spacing() int { return 0 }

func (d imageDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d imageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	img, ok := item.(imageItem)
	if !ok {
		return
	}

	name := path.Base(img.ref)
	url := SubtitleStyle.Render(img.url)
	if index == m.Index() {
		_, _ = fmt.Fprint(w, SelectedListItemStyle.Render("→ "+name)+"  "+url)
		return
	}
	_, _ = fmt.Fprint(w, ListItemStyle.Render(name)+"  "+url)
}

// HomeModel is the main screen: the generate/push workflow on top and the
// local gallery below.
type HomeModel struct {
	session *Session

	Images        list.Model
	PromptInput   textinput.Model
	EditingPrompt bool
	Spinner       spinner.Model

	// UI state
	Width  int
	Height int

	// Help
	Help       help.Model
	Keys       homeKeyMap
	PromptKeys promptKeyMap
}

// NewHomeModel creates the home screen
func NewHomeModel(session *Session) HomeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	promptInput := textinput.New()
	promptInput.Placeholder = "Describe the artwork"
	promptInput.CharLimit = 1000
	promptInput.Width = 60

	images := list.New([]list.Item{}, imageDelegate{}, 0, MinGalleryHeight)
	images.SetShowTitle(false)
	images.SetShowStatusBar(false)
	images.SetShowHelp(false)
	images.SetFilteringEnabled(false)
	images.DisableQuitKeybindings()

	keys := homeKeyMap{
		Prompt: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "new prompt"),
		),
		EditPrompt: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit prompt"),
		),
		Image: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "generate image"),
		),
		Push: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "push to TV"),
		),
		Folder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "choose folder"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PushImage: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "push selected"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload gallery"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Theme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "light/dark"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	// Only offer the folder key when the gallery can open the picker
	keys.Folder.SetEnabled(session.Gallery.CanPickFolder())

	promptKeys := promptKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use prompt"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return HomeModel{
		session:     session,
		Images:      images,
		PromptInput: promptInput,
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
		PromptKeys:  promptKeys,
	}
}

// Init loads the gallery
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(
		refreshGalleryCmd(m.session.Ctx, m.session.Gallery),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Images.SetSize(msg.Width-8, m.galleryHeight())
		return m, nil

	case tea.KeyMsg:
		if m.EditingPrompt {
			return m.updatePromptEditor(msg)
		}
		return m.updateNormalMode(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case opCompleteMsg:
		if msg.group == workflow.GroupPush && msg.err == nil {
			return m, expireNotificationCmd()
		}

	case galleryPushedMsg:
		if msg.err == nil {
			return m, expireNotificationCmd()
		}
		logging.Debug("Gallery push failed", zap.String("image", msg.ref), zap.Error(msg.err))
		cmd := m.syncImages()
		return m, cmd

	case galleryRefreshedMsg, galleryUpdatedMsg:
		cmd := m.syncImages()
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keys while no field is being edited
func (m HomeModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.session.Controller
	snap := ctrl.Snapshot()
	busy := snap.Busy()
	gal := m.session.Gallery.State()

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll

	case key.Matches(msg, m.Keys.Settings):
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenSettings} }

	case key.Matches(msg, m.Keys.Theme):
		m.toggleTheme()

	case key.Matches(msg, m.Keys.Dismiss):
		ctrl.DismissNotification()

	case key.Matches(msg, m.Keys.Prompt):
		if !busy {
			return m, generatePromptCmd(m.session.Ctx, ctrl)
		}

	case key.Matches(msg, m.Keys.EditPrompt):
		if !busy {
			m.EditingPrompt = true
			m.PromptInput.SetValue(snap.Prompt)
			m.PromptInput.CursorEnd()
			return m, m.PromptInput.Focus()
		}

	case key.Matches(msg, m.Keys.Image):
		if !busy {
			return m, generateImageCmd(m.session.Ctx, ctrl)
		}

	case key.Matches(msg, m.Keys.Push):
		if !busy {
			return m, pushCmd(m.session.Ctx, ctrl)
		}

	case key.Matches(msg, m.Keys.Folder):
		if !busy {
			return m, selectFolderCmd(m.session.Ctx, m.session.Gallery.PickFolder)
		}

	case key.Matches(msg, m.Keys.Refresh):
		if !gal.Loading {
			return m, refreshGalleryCmd(m.session.Ctx, m.session.Gallery)
		}

	case key.Matches(msg, m.Keys.PushImage):
		item, ok := m.Images.SelectedItem().(imageItem)
		if ok && !gal.Uploading && gal.Error == "" {
			return m, pushGalleryCmd(m.session.Ctx, m.session.Gallery, item.ref)
		}

	case key.Matches(msg, m.Keys.Up, m.Keys.Down):
		var cmd tea.Cmd
		m.Images, cmd = m.Images.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updatePromptEditor handles keys while the prompt field has focus
func (m HomeModel) updatePromptEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.PromptKeys.Cancel):
		m.EditingPrompt = false
		m.PromptInput.Blur()
		return m, nil

	case key.Matches(msg, m.PromptKeys.Confirm):
		m.session.Controller.SetPrompt(strings.TrimSpace(m.PromptInput.Value()))
		m.EditingPrompt = false
		m.PromptInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.PromptInput, cmd = m.PromptInput.Update(msg)
	return m, cmd
}

// toggleTheme switches the palette and saves the choice
func (m *HomeModel) toggleTheme() {
	mode := m.session.Theme.Toggle()
	m.session.Theme = mode
	ApplyTheme(mode)
	m.Spinner.Style = SpinnerStyle

	if err := m.session.Controller.SetTheme(mode); err != nil {
		logging.Warn("Failed to save theme", zap.String("theme", string(mode)), zap.Error(err))
	}
}

// syncImages copies the gallery's current references into the list
func (m *HomeModel) syncImages() tea.Cmd {
	refs := m.session.Gallery.State().Images
	items := make([]list.Item, len(refs))
	for i, ref := range refs {
		items[i] = imageItem{ref: ref, url: m.session.resolve(ref)}
	}
	return m.Images.SetItems(items)
}

// galleryHeight is the number of list rows that fit under the workflow
// section
func (m HomeModel) galleryHeight() int {
	h := m.Height - 24
	if h < MinGalleryHeight {
		return MinGalleryHeight
	}
	return h
}

// View renders the home screen
func (m HomeModel) View() string {
	content := m.buildContent()

	var helpText string
	if m.EditingPrompt {
		helpText = m.Help.View(m.PromptKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// buildContent builds the home screen content
func (m HomeModel) buildContent() string {
	snap := m.session.Controller.Snapshot()

	sections := []string{
		m.renderWorkflow(snap),
		m.renderStatus(snap),
	}
	if snap.Notification != nil {
		sections = append(sections, NotificationStyle.Render("✓ "+snap.Notification.Message))
	}
	sections = append(sections, m.renderGallery())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWorkflow renders the prompt and the current image
func (m HomeModel) renderWorkflow(snap workflow.Snapshot) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Create"))
	b.WriteString("\n")

	if m.EditingPrompt {
		b.WriteString(RenderField("Prompt", "") + FocusedInputStyle.Render(m.PromptInput.View()))
	} else {
		prompt := snap.Prompt
		if prompt == "" {
			prompt = SubtitleStyle.Render("(none yet, press p)")
		}
		b.WriteString(RenderField("Prompt", prompt))
	}
	b.WriteString("\n")

	image := SubtitleStyle.Render("(none)")
	if snap.ImageRef != "" {
		image = m.session.resolve(snap.ImageRef)
	}
	b.WriteString(RenderField("Image", image))

	style := SectionStyle
	if m.EditingPrompt {
		style = FocusedSectionStyle
	}
	width := m.Width - 8
	if width < MinTerminalWidth-8 {
		width = MinTerminalWidth - 8
	}
	return style.Width(width).Render(b.String())
}

// renderStatus renders the shared status line
func (m HomeModel) renderStatus(snap workflow.Snapshot) string {
	line := snap.StatusLine
	switch {
	case snap.Busy():
		line = m.Spinner.View() + " " + line
	case strings.HasPrefix(line, "Error: "):
		return ErrorBoxStyle.Render("✗ " + line)
	}
	return StatusBarStyle.Render(line)
}

// renderGallery renders the folder and its images. An error replaces the
// list until the next reload.
func (m HomeModel) renderGallery() string {
	gal := m.session.Gallery.State()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderTitle("Gallery"))
	b.WriteString("\n")

	folder := gal.Folder
	if folder == "" {
		folder = SubtitleStyle.Render("(not set)")
	}
	b.WriteString(RenderField("Folder", folder))
	b.WriteString("\n\n")

	switch {
	case gal.Error != "":
		b.WriteString(ErrorBoxStyle.Render("✗ " + gal.Error))
	case gal.Loading:
		b.WriteString(m.Spinner.View() + " Loading images...")
	case gal.Folder == "":
		b.WriteString(SubtitleStyle.Render("Choose an image folder in Settings (s)"))
	case len(m.Images.Items()) == 0:
		b.WriteString(SubtitleStyle.Render("No images in this folder"))
	default:
		if gal.Uploading {
			b.WriteString(m.Spinner.View() + " Uploading to TV...\n")
		}
		b.WriteString(m.Images.View())
	}

	return b.String()
}
