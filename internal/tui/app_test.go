package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/artframe/internal/backend"
	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/gallery"
	"github.com/muurk/artframe/internal/workflow"
)

type fakeBackend struct {
	mu      sync.Mutex
	prompt  string
	image   string
	folder  string
	images  []string
	pushErr error
	release chan struct{} // when set, GeneratePrompt waits on it
	pushes  []string
}

func (f *fakeBackend) SelectFolder(ctx context.Context) (string, error) { return f.folder, nil }

func (f *fakeBackend) GeneratePrompt(ctx context.Context) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.prompt, nil
}

func (f *fakeBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return f.image, nil
}

func (f *fakeBackend) PushToTV(ctx context.Context, imageURL, tvIP string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, imageURL+"@"+tvIP)
	return f.pushErr
}

func (f *fakeBackend) CheckTVIP(ctx context.Context, tvIP string) error        { return nil }
func (f *fakeBackend) TestTVConnection(ctx context.Context, tvIP string) error { return nil }
func (f *fakeBackend) SaveSettings(ctx context.Context, tvIP, folder string) error {
	return nil
}

func (f *fakeBackend) ListLocalImages(ctx context.Context) ([]string, error) {
	return f.images, nil
}

type testPanel struct {
	app     AppModel
	store   *config.Store
	backend *fakeBackend
	ctrl    *workflow.Controller
	gallery *gallery.Gallery
}

func newTestPanel(t *testing.T, fb *fakeBackend) *testPanel {
	t.Helper()
	t.Cleanup(func() { ApplyTheme(config.ThemeDark) })

	store := config.NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	ctrl := workflow.New(fb, store)
	gal := gallery.New(fb, store, ctrl, gallery.WithFolderPicker(ctrl))

	app := NewAppModel(&Session{
		Ctx:        context.Background(),
		Controller: ctrl,
		Gallery:    gal,
		Resolve:    backend.NewClient("http://art.local:5000").ResolveURL,
		BackendURL: "http://art.local:5000",
	})
	p := &testPanel{app: app, store: store, backend: fb, ctrl: ctrl, gallery: gal}
	p.send(tea.WindowSizeMsg{Width: 160, Height: 50})
	return p
}

// send feeds msg to the app and returns the resulting command
func (p *testPanel) send(msg tea.Msg) tea.Cmd {
	model, cmd := p.app.Update(msg)
	p.app = model.(AppModel)
	return cmd
}

// run executes cmd and feeds its message back, once
func (p *testPanel) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	p.send(msg)
	return msg
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHome_GenerateFlow(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{prompt: "a misty harbour at dawn", image: "/images/harbour.png"})

	p.run(t, p.send(runes("p")))
	p.run(t, p.send(runes("i")))

	view := p.app.View()
	for _, want := range []string{
		"a misty harbour at dawn",
		"http://art.local:5000/images/harbour.png",
		workflow.StatusImageGenerated,
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHome_PushWithoutAddressShowsError(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{prompt: "x", image: "/images/x.png"})

	p.run(t, p.send(runes("p")))
	p.run(t, p.send(runes("i")))
	msg := p.run(t, p.send(runes("t")))

	done, ok := msg.(opCompleteMsg)
	if !ok || done.err == nil {
		t.Fatalf("push message = %#v, want failure", msg)
	}
	if got := p.ctrl.Snapshot().StatusLine; got != "Error: "+workflow.MsgAddressRequired {
		t.Errorf("status line = %q", got)
	}
	if len(p.backend.pushes) != 0 {
		t.Errorf("push reached backend: %v", p.backend.pushes)
	}
}

func TestHome_PushSuccessSchedulesExpiry(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{prompt: "x", image: "/images/x.png"})
	if err := p.store.Set(config.Update{DeviceAddress: config.StringPtr("192.168.1.20")}); err != nil {
		t.Fatal(err)
	}

	p.run(t, p.send(runes("p")))
	p.run(t, p.send(runes("i")))

	cmd := p.send(runes("t"))
	expire := p.send(cmd())
	if expire == nil {
		t.Error("expected notification expiry to be scheduled")
	}
	if !strings.Contains(p.app.View(), workflow.UploadNotification) {
		t.Error("notification not shown")
	}
}

func TestHome_EditPrompt(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})

	p.send(runes("e"))
	if !p.app.HomeModel.EditingPrompt {
		t.Fatal("prompt editor not open")
	}
	p.send(runes("a lighthouse"))
	p.send(tea.KeyMsg{Type: tea.KeyEnter})

	if got := p.ctrl.Snapshot().Prompt; got != "a lighthouse" {
		t.Errorf("prompt = %q, want %q", got, "a lighthouse")
	}
	if p.app.HomeModel.EditingPrompt {
		t.Error("editor still open")
	}
}

func TestHome_BusyIgnoresWorkflowKeys(t *testing.T) {
	fb := &fakeBackend{prompt: "slow", release: make(chan struct{})}
	p := newTestPanel(t, fb)

	done := make(chan tea.Msg)
	cmd := p.send(runes("p"))
	go func() { done <- cmd() }()

	deadline := time.Now().Add(2 * time.Second)
	for !p.ctrl.Snapshot().Busy() {
		if time.Now().After(deadline) {
			t.Fatal("prompt generation never became busy")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if cmd := p.send(runes("i")); cmd != nil {
		t.Error("generate image accepted while busy")
	}

	close(fb.release)
	p.send(<-done)
	if p.ctrl.Snapshot().Busy() {
		t.Error("still busy after completion")
	}
}

func TestHome_GalleryPush(t *testing.T) {
	fb := &fakeBackend{images: []string{"a.png", "b.png"}}
	p := newTestPanel(t, fb)
	err := p.store.Set(config.Update{
		DeviceAddress:   config.StringPtr("10.0.0.5"),
		ImageFolderPath: config.StringPtr("/art"),
	})
	if err != nil {
		t.Fatal(err)
	}

	p.run(t, refreshGalleryCmd(context.Background(), p.gallery))

	items := p.app.HomeModel.Images.Items()
	if len(items) != 2 || items[0].(imageItem).ref != "/images/a.png" {
		t.Fatalf("items = %#v", items)
	}

	p.send(tea.KeyMsg{Type: tea.KeyDown})
	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyEnter}))

	if len(fb.pushes) != 1 || fb.pushes[0] != "/images/b.png@10.0.0.5" {
		t.Errorf("pushes = %v", fb.pushes)
	}
	if n := p.ctrl.Snapshot().Notification; n == nil || n.Message != workflow.UploadNotification {
		t.Errorf("notification = %#v", n)
	}
}

func TestHome_GalleryErrorReplacesList(t *testing.T) {
	fb := &fakeBackend{
		images:  []string{"a.png"},
		pushErr: &backend.Error{Type: backend.ErrTypeBackend, Message: "TV rejected the upload"},
	}
	p := newTestPanel(t, fb)
	err := p.store.Set(config.Update{
		DeviceAddress:   config.StringPtr("10.0.0.5"),
		ImageFolderPath: config.StringPtr("/art"),
	})
	if err != nil {
		t.Fatal(err)
	}
	p.run(t, refreshGalleryCmd(context.Background(), p.gallery))
	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyEnter}))

	view := p.app.View()
	if !strings.Contains(view, "TV rejected the upload") {
		t.Error("gallery error not shown")
	}
	if strings.Contains(view, "a.png") {
		t.Error("list still shown next to the error")
	}
}

func TestApp_SettingsRoundTrip(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})

	p.run(t, p.send(runes("s")))
	if p.app.CurrentScreen != ScreenSettings {
		t.Fatalf("screen = %s, want settings", p.app.CurrentScreen)
	}

	p.send(runes("10.0.0.7"))
	p.send(tea.KeyMsg{Type: tea.KeyTab})
	p.send(runes("/srv/art"))
	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyCtrlS}))

	got, err := p.store.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.DeviceAddress != "10.0.0.7" || got.ImageFolderPath != "/srv/art" {
		t.Errorf("saved = %+v", got)
	}
	if !strings.Contains(p.app.View(), workflow.StatusSettingsSaved) {
		t.Error("save confirmation not shown")
	}

	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyEsc}))
	if p.app.CurrentScreen != ScreenHome {
		t.Errorf("screen = %s, want home", p.app.CurrentScreen)
	}
}

func TestSettings_ConnectionTest(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})
	p.run(t, p.send(runes("s")))

	p.send(runes("999.1"))
	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyCtrlT}))

	snap := p.ctrl.Snapshot()
	if snap.Connectivity != workflow.ConnectivityError || snap.ConnectivityMessage != workflow.MsgInvalidAddress {
		t.Fatalf("connectivity = %q %q", snap.Connectivity, snap.ConnectivityMessage)
	}
	if !strings.Contains(p.app.View(), "Invalid IP address format") {
		t.Error("validation message not shown")
	}

	// Editing the address clears the result
	p.send(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := p.ctrl.Snapshot().Connectivity; got != workflow.ConnectivityNone {
		t.Errorf("connectivity after edit = %q, want none", got)
	}
}

func TestSettings_CheckDevice(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})
	p.run(t, p.send(runes("s")))

	p.send(runes("192.168.1.40"))
	p.run(t, p.send(tea.KeyMsg{Type: tea.KeyCtrlR}))

	if !strings.Contains(p.app.View(), workflow.StatusDeviceReachable) {
		t.Error("device check result not shown")
	}
}

func TestHome_ThemeToggle(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})

	p.send(runes("m"))

	if Colors != LightPalette {
		t.Error("light palette not applied")
	}
	got, err := p.store.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.ThemeMode != config.ThemeLight {
		t.Errorf("saved theme = %q, want light", got.ThemeMode)
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	p := newTestPanel(t, &fakeBackend{})
	cmd := p.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}
