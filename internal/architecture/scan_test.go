// Where: internal/architecture/scan_test.go
// What: Shared source scanner for the architecture guards.
// Why: Every guard walks the same non-test sources under internal/.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/anibalxyz/reconciler/cli/internal/"

type sourceFile struct {
	// rel is the slash-separated path relative to internal/.
	rel  string
	pkg  string
	fset *token.FileSet
	ast  *ast.File
}

func (f sourceFile) imports() []string {
	paths := make([]string, 0, len(f.ast.Imports))
	for _, imp := range f.ast.Imports {
		paths = append(paths, strings.Trim(imp.Path.Value, "\""))
	}
	return paths
}

// scanSources parses every non-test Go file under internal/ and hands it to visit.
func scanSources(t *testing.T, mode parser.Mode, visit func(sourceFile)) {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		visit(sourceFile{rel: rel, pkg: filepath.ToSlash(filepath.Dir(rel)), fset: fset, ast: file})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, ".."))
}
