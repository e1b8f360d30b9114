// Where: internal/meta/meta.go
// What: CLI-local identity and layout constants.
// Why: Keep project naming in one place for every layer.
package meta

const (
	// Project Identity
	AppName   = "reconciler"
	EnvPrefix = "RECONCILER"

	// Runtime contract
	RuntimeBinary = "docker"
	EnvVarAppEnv  = "APP_ENV"

	// Project Layout
	ConfigFile      = "cli.cfg"
	ComposeBaseFile = "compose.yaml"
	RootSearchDepth = 20

	// Compose labels
	ComposeProjectLabel = "com.docker.compose.project"
	ComposeServiceLabel = "com.docker.compose.service"
)
