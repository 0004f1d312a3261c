package config

// ThemeMode selects the terminal palette.
type ThemeMode string

const (
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

// Toggle returns the other theme.
func (t ThemeMode) Toggle() ThemeMode {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Settings holds the persisted panel configuration.
// Keys match the names the backend and the web panel use.
type Settings struct {
	DeviceAddress   string    `yaml:"tvIp,omitempty" json:"tvIp"`               // TV IPv4 address
	ImageFolderPath string    `yaml:"imageFolder,omitempty" json:"imageFolder"` // Local gallery folder
	ThemeMode       ThemeMode `yaml:"themeMode,omitempty" json:"themeMode"`
}

// Update is a partial settings write. Nil fields are left untouched.
type Update struct {
	DeviceAddress   *string
	ImageFolderPath *string
	ThemeMode       *ThemeMode
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.DeviceAddress == nil && u.ImageFolderPath == nil && u.ThemeMode == nil
}

// apply writes the provided fields onto s.
func (u Update) apply(s *Settings) {
	if u.DeviceAddress != nil {
		s.DeviceAddress = *u.DeviceAddress
	}
	if u.ImageFolderPath != nil {
		s.ImageFolderPath = *u.ImageFolderPath
	}
	if u.ThemeMode != nil {
		s.ThemeMode = *u.ThemeMode
	}
}

// StringPtr is a convenience for building Updates.
func StringPtr(s string) *string {
	return &s
}

// ThemePtr is a convenience for building Updates.
func ThemePtr(t ThemeMode) *ThemeMode {
	return &t
}

// document is the on-disk layout of the settings file.
type document struct {
	Version  int `yaml:"version"`
	Settings `yaml:",inline"`
}

const documentVersion = 1
