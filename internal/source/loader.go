// Package source loads and type-checks Go packages from the target
// application's source tree. It is the single substrate for the static
// checker and the load-check runner.
package source

import (
	"fmt"

	"golang.org/x/tools/go/packages"
)

// LoadMode requests syntax trees and full type information: the strict lint
// pass needs type errors, the probe needs package scopes.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Load loads the given patterns relative to dir. With no patterns it loads
// the whole tree ("./..."). The source tree is read-only to the harness.
func Load(dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v in %s", patterns, dir)
	}
	return pkgs, nil
}
