// Where: internal/domain/registry/naming.go
// What: Image tag and compose project naming.
// Why: Keep tag and project schemes declarative so every environment stays namespaced.
package registry

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/anibalxyz/reconciler/cli/internal/domain/environment"
)

type namingData struct {
	Namespace string
	Prefix    string
	Env       string
	Service   string
}

func parseNamingTemplate(name, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("naming.%s: %w", name, errMissingTemplate)
	}
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("naming.%s: %w", name, err)
	}
	return tmpl, nil
}

// ImageTag renders the image reference for svc built for env,
// e.g. anibalxyz/reconciler-production-api.
func (r *Registry) ImageTag(env environment.Environment, svc Service) (string, error) {
	return r.render(r.imageTmpl, namingData{
		Namespace: r.namespace,
		Prefix:    r.prefix,
		Env:       env.String(),
		Service:   svc.Name(),
	})
}

// ProjectName renders the compose project name for env. Each environment gets
// its own project so stacks can run side by side.
func (r *Registry) ProjectName(env environment.Environment) (string, error) {
	return r.render(r.projTmpl, namingData{
		Namespace: r.namespace,
		Prefix:    r.prefix,
		Env:       env.String(),
	})
}

func (r *Registry) render(tmpl *template.Template, data namingData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s name: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
