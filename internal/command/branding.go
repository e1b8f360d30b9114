// Where: internal/command/branding.go
// What: Brand-aware CLI naming.
// Why: Keep user-facing command names consistent when the binary is wrapped or renamed.
package command

import (
	"os"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/meta"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv("CLI_CMD"))
	if name == "" {
		name = meta.AppName
	}
	return name
}
