// Package config is the settings store for artframe.
//
// It owns a small YAML file holding the values that must survive restarts:
// the TV address, the local image folder and the theme. Transient state
// (prompts, generated images, gallery contents) is never written here.
//
// # File Location
//
//   - Linux: $XDG_CONFIG_HOME/artframe/settings.yaml or $HOME/.config/artframe/settings.yaml
//   - macOS: $HOME/.config/artframe/settings.yaml
//   - Windows: %LOCALAPPDATA%\artframe\settings.yaml
//
// The --config flag overrides this.
//
// # Usage Example
//
//	store, err := config.OpenDefault()
//	if err != nil {
//	    return err
//	}
//
//	// Partial update: the TV address is left as it was
//	err = store.Set(config.Update{ImageFolderPath: config.StringPtr("/srv/art")})
//
//	settings, err := store.Get()
//
// # Validation
//
// None. IP format and folder existence are the caller's concern.
//
// # Thread Safety
//
// Store methods are safe for concurrent use. Writes are atomic (temp file and
// rename), and Watch reports changes made by other processes as well.
package config
