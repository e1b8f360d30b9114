// Where: internal/infra/compose/definition.go
// What: Merged compose definition loading for one environment.
// Why: Compare the services compose actually declares with the registry whitelists.
package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
	"github.com/anibalxyz/reconciler/cli/internal/meta"
	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Definition is the merged view of compose.yaml and its environment overlay.
type Definition struct {
	Project  string
	Files    []string
	Services []string
}

// HasService reports whether the definition declares name.
func (d Definition) HasService(name string) bool {
	for _, svc := range d.Services {
		if svc == name {
			return true
		}
	}
	return false
}

// LoadDefinition loads the compose files of env the way the runtime would:
// the overlay is optional, variables are interpolated from the env files,
// the process environment and APP_ENV (later sources win).
func (c Composer) LoadDefinition(ctx context.Context, env environment.Environment) (Definition, error) {
	if err := c.check(); err != nil {
		return Definition{}, err
	}
	project, err := c.Registry.ProjectName(env)
	if err != nil {
		return Definition{}, err
	}

	var (
		configFiles []types.ConfigFile
		used        []string
	)
	for i, name := range ComposeFiles(env) {
		path := filepath.Join(c.Root, name)
		content, err := afero.ReadFile(c.fs(), path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && i > 0 {
				continue
			}
			if errors.Is(err, os.ErrNotExist) {
				return Definition{}, fmt.Errorf("%w: %s", errComposeFileAbsent, path)
			}
			return Definition{}, fmt.Errorf("read %s: %w", path, err)
		}
		var dict map[string]any
		if err := yaml.Unmarshal(content, &dict); err != nil {
			return Definition{}, fmt.Errorf("parse %s: %w", path, err)
		}
		configFiles = append(configFiles, types.ConfigFile{Filename: path, Content: content, Config: dict})
		used = append(used, name)
	}

	vars, err := c.interpolationEnv(env)
	if err != nil {
		return Definition{}, err
	}

	loaded, err := loader.LoadWithContext(ctx, types.ConfigDetails{
		WorkingDir:  c.Root,
		ConfigFiles: configFiles,
		Environment: vars,
	}, func(opts *loader.Options) {
		opts.SetProjectName(project, true)
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		return Definition{}, fmt.Errorf("load compose definition: %w", err)
	}

	services := make([]string, 0, len(loaded.Services))
	for name := range loaded.Services {
		services = append(services, name)
	}
	sort.Strings(services)
	return Definition{Project: project, Files: used, Services: services}, nil
}

func (c Composer) interpolationEnv(env environment.Environment) (types.Mapping, error) {
	vars := types.Mapping{}
	for _, rel := range c.Registry.EnvFiles(env) {
		values, err := readEnvFile(c.fs(), filepath.Join(c.Root, rel))
		if err != nil {
			return nil, err
		}
		for key, value := range values {
			vars[key] = value
		}
	}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			vars[key] = value
		}
	}
	vars[meta.EnvVarAppEnv] = env.String()
	return vars, nil
}

// readEnvFile parses a dotenv file; a missing file yields no values.
func readEnvFile(fs afero.Fs, path string) (map[string]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	return values, nil
}
