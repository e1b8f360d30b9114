// Where: internal/infra/config/settings.go
// What: Tool-level settings read from RECONCILER_* environment variables.
// Why: Let users relocate the config file, runtime binary and project root without flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/meta"
	"github.com/spf13/viper"
)

// DefaultEditor opens env files when neither RECONCILER_EDITOR nor EDITOR is set.
const DefaultEditor = "nano"

// Settings holds tool configuration. It never carries domain data.
type Settings struct {
	ConfigFile  string `mapstructure:"config_file"`
	Runtime     string `mapstructure:"runtime"`
	ProjectRoot string `mapstructure:"project_root"`
	Editor      string `mapstructure:"editor"`
}

// LoadSettings resolves settings from defaults and the process environment.
func LoadSettings() (Settings, error) {
	v := viper.New()

	v.SetDefault("config_file", meta.ConfigFile)
	v.SetDefault("runtime", meta.RuntimeBinary)
	v.SetDefault("project_root", "")
	v.SetDefault("editor", DefaultEditor)

	v.SetEnvPrefix(meta.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The generic EDITOR variable is honoured after the prefixed one.
	if err := v.BindEnv("editor", meta.EnvPrefix+"_EDITOR", "EDITOR"); err != nil {
		return Settings{}, fmt.Errorf("bind editor env: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	settings.ConfigFile = strings.TrimSpace(settings.ConfigFile)
	settings.Runtime = strings.TrimSpace(settings.Runtime)
	settings.ProjectRoot = strings.TrimSpace(settings.ProjectRoot)
	settings.Editor = strings.TrimSpace(settings.Editor)
	if settings.ConfigFile == "" {
		settings.ConfigFile = meta.ConfigFile
	}
	if settings.Runtime == "" {
		settings.Runtime = meta.RuntimeBinary
	}
	if settings.Editor == "" {
		settings.Editor = DefaultEditor
	}
	return settings, nil
}

// ConfigPath places a relative config file under the project root.
func (s Settings) ConfigPath(projectRoot string) string {
	if filepath.IsAbs(s.ConfigFile) {
		return s.ConfigFile
	}
	return filepath.Join(projectRoot, s.ConfigFile)
}
