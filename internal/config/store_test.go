package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "artframe", "settings.yaml"))
}

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "artframe") {
		t.Errorf("GetConfigDir() = %v, should contain 'artframe'", configDir)
	}

	switch runtime.GOOS {
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != "/tmp/xdg-test/artframe" {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg-test/artframe", configDir)
	}
}

func TestGetSettingsPath(t *testing.T) {
	path, err := GetSettingsPath()
	if err != nil {
		t.Fatalf("GetSettingsPath() error = %v", err)
	}
	if filepath.Base(path) != "settings.yaml" {
		t.Errorf("GetSettingsPath() should end with 'settings.yaml', got: %v", path)
	}
}

func TestStoreGet_MissingFile(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if settings.DeviceAddress != "" {
		t.Errorf("DeviceAddress = %q, want empty", settings.DeviceAddress)
	}
	if settings.ImageFolderPath != "" {
		t.Errorf("ImageFolderPath = %q, want empty", settings.ImageFolderPath)
	}
	if settings.ThemeMode != ThemeDark {
		t.Errorf("ThemeMode = %q, want dark", settings.ThemeMode)
	}
}

func TestStoreSet_PartialUpdate(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(Update{DeviceAddress: StringPtr("192.168.1.10")}); err != nil {
		t.Fatalf("Set(tvIp) error = %v", err)
	}
	if err := store.Set(Update{ImageFolderPath: StringPtr("/x")}); err != nil {
		t.Fatalf("Set(imageFolder) error = %v", err)
	}

	settings, err := store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if settings.ImageFolderPath != "/x" {
		t.Errorf("ImageFolderPath = %q, want /x", settings.ImageFolderPath)
	}
	if settings.DeviceAddress != "192.168.1.10" {
		t.Errorf("DeviceAddress = %q, want unchanged 192.168.1.10", settings.DeviceAddress)
	}
}

func TestStoreSet_ClearField(t *testing.T) {
	store := newTestStore(t)

	_ = store.Set(Update{ImageFolderPath: StringPtr("/photos")})
	if err := store.Set(Update{ImageFolderPath: StringPtr("")}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	settings, _ := store.Get()
	if settings.ImageFolderPath != "" {
		t.Errorf("ImageFolderPath = %q, want empty after clearing", settings.ImageFolderPath)
	}
}

func TestStoreSet_EmptyUpdateDoesNotCreateFile(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(Update{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("empty update should not create %s", store.Path())
	}
}

func TestStore_FileUsesBackendKeys(t *testing.T) {
	store := newTestStore(t)

	_ = store.Set(Update{
		DeviceAddress:   StringPtr("10.0.0.7"),
		ImageFolderPath: StringPtr("/art"),
		ThemeMode:       ThemePtr(ThemeLight),
	})

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, key := range []string{"tvIp: 10.0.0.7", "imageFolder: /art", "themeMode: light", "version: 1"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("settings file missing %q:\n%s", key, data)
		}
	}
}

func TestStoreGet_HandWrittenFile(t *testing.T) {
	store := newTestStore(t)
	_ = os.MkdirAll(filepath.Dir(store.Path()), 0700)
	_ = os.WriteFile(store.Path(), []byte("tvIp: 192.168.0.20\n"), 0600)

	settings, err := store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if settings.DeviceAddress != "192.168.0.20" {
		t.Errorf("DeviceAddress = %q, want 192.168.0.20", settings.DeviceAddress)
	}
}

func TestStoreGet_UnsupportedVersion(t *testing.T) {
	store := newTestStore(t)
	_ = os.MkdirAll(filepath.Dir(store.Path()), 0700)
	_ = os.WriteFile(store.Path(), []byte("version: 9\n"), 0600)

	if _, err := store.Get(); err == nil {
		t.Error("Get() should reject unknown versions")
	}
}

func TestThemeToggle(t *testing.T) {
	if ThemeDark.Toggle() != ThemeLight {
		t.Error("dark should toggle to light")
	}
	if ThemeLight.Toggle() != ThemeDark {
		t.Error("light should toggle to dark")
	}
}

func TestStoreWatch_ExternalWrite(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Settings, 8)
	if err := store.Watch(ctx, func(s Settings) { changes <- s }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Another process (or a text editor) updates the file
	other := NewStore(store.Path())
	if err := other.Set(Update{ImageFolderPath: StringPtr("/new/folder")}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-changes:
			if s.ImageFolderPath == "/new/folder" {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not report the settings change")
		}
	}
}
