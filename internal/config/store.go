package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/artframe/internal/logging"
)

const (
	appName      = "artframe"
	settingsFile = "settings.yaml"
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/artframe or $HOME/.config/artframe
//   - macOS: $HOME/.config/artframe (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\artframe
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetSettingsPath returns the full path to the default settings file.
func GetSettingsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, settingsFile), nil
}

// Store owns the durable settings file. It is the only component that
// reads or writes it; everything else receives a *Store (or an interface
// over it) explicitly.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the file at path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// OpenDefault creates a store at the platform default location.
func OpenDefault() (*Store, error) {
	path, err := GetSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings path: %w", err)
	}
	return NewStore(path), nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Get reads the settings. Missing file or keys yield empty strings; the
// theme defaults to dark.
func (s *Store) Get() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	return withDefaults(doc.Settings), nil
}

// Set writes the provided fields, leaving the others as they are on disk.
func (s *Store) Set(u Update) error {
	if u.IsEmpty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	u.apply(&doc.Settings)

	if err := s.write(doc); err != nil {
		return err
	}

	logging.Info("Settings saved",
		zap.String("path", s.path),
		zap.String("tv_ip", doc.DeviceAddress),
		zap.String("image_folder", doc.ImageFolderPath),
	)
	return nil
}

func (s *Store) read() (document, error) {
	doc := document{Version: documentVersion}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse settings file: %w", err)
	}

	// Files written by hand may omit the version
	if doc.Version == 0 {
		doc.Version = documentVersion
	}
	if doc.Version != documentVersion {
		return doc, fmt.Errorf("unsupported settings version: %d (expected %d)", doc.Version, documentVersion)
	}

	return doc, nil
}

// write performs an atomic write (temp file + rename).
func (s *Store) write(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	header := []byte("# artframe settings\n# Edited by the panel; changes made here are picked up while it runs.\n\n")
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save settings file: %w", err)
	}

	return nil
}

func withDefaults(s Settings) Settings {
	if s.ThemeMode == "" {
		s.ThemeMode = ThemeDark
	}
	return s
}

// Watch calls fn with the fresh settings every time the settings file is
// written or replaced, by this process or any other. It returns once the
// watcher is running; the watcher stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, fn func(Settings)) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}

	// Watch the directory: atomic renames replace the file's inode
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	name := filepath.Base(s.path)

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				settings, err := s.Get()
				if err != nil {
					logging.Warn("Ignoring unreadable settings change", zap.Error(err))
					continue
				}
				logging.Debug("Settings file changed", zap.String("op", event.Op.String()))
				fn(settings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("Settings watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
