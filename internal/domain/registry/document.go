// Where: internal/domain/registry/document.go
// What: Registry document decoding and schema validation.
// Why: Reject malformed service tables before any command is composed.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anibalxyz/reconciler/cli/assets"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

const schemaURL = "mem://reconciler/registry.schema.json"

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

type document struct {
	Version       int                 `yaml:"version"`
	Namespace     string              `yaml:"namespace"`
	ProjectPrefix string              `yaml:"project_prefix"`
	Naming        namingSpec          `yaml:"naming"`
	EnvDirs       []string            `yaml:"env_dirs"`
	Services      serviceTable        `yaml:"services"`
	Lifecycle     map[string][]string `yaml:"lifecycle"`
	Buildable     map[string][]string `yaml:"buildable"`
	Registry      []string            `yaml:"registry"`
	TestRun       testRunSpec         `yaml:"test_run"`
}

type namingSpec struct {
	Image   string `yaml:"image"`
	Project string `yaml:"project"`
}

type testRunSpec struct {
	Dependencies []string `yaml:"dependencies"`
	Target       string   `yaml:"target"`
}

// serviceTable keeps the declaration order of the services mapping.
type serviceTable []Service

func (t *serviceTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("services: expected a mapping, got %s", node.ShortTag())
	}
	table := make(serviceTable, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, path string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("services: %w", err)
		}
		if err := node.Content[i+1].Decode(&path); err != nil {
			return fmt.Errorf("services.%s: %w", key, err)
		}
		table = append(table, Service{Key: key, Path: path})
	}
	*t = table
	return nil
}

func decodeDocument(content []byte) (document, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return document{}, errEmptyDocument
	}
	if err := validateDocument(content); err != nil {
		return document{}, fmt.Errorf("registry schema: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return document{}, fmt.Errorf("decode registry: %w", err)
	}
	return doc, nil
}

func validateDocument(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var value any
	if err := json.Unmarshal(jsonData, &value); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(value)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, string(assets.RegistrySchemaJSON))
	})
	return compiledSchema, schemaErr
}
