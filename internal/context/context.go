// Package context detects the project a command runs in: its root, the
// source layout, the import alias and the package manager.
package context

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/example/sksn/internal/config"
)

// ProjectContext is what sksn can learn about a project from disk.
type ProjectContext struct {
	Root           string
	HasConfig      bool
	HasSrc         bool
	Alias          string
	Framework      string
	PackageManager string
}

// FindRoot walks up from dir to the nearest directory holding a sksn
// config record or a package.json. Returns dir itself when neither is found.
func FindRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for current := abs; ; {
		if config.Exists(current) || fileExists(filepath.Join(current, "package.json")) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return abs
		}
		current = parent
	}
}

// Detect inspects root and reports what it finds.
func Detect(root string) *ProjectContext {
	return &ProjectContext{
		Root:           root,
		HasConfig:      config.Exists(root),
		HasSrc:         DetectSrc(root),
		Alias:          DetectAlias(root),
		Framework:      DetectFramework(root),
		PackageManager: DetectPackageManager(root),
	}
}

// DetectSrc reports whether the project keeps its code under src/.
func DetectSrc(root string) bool {
	info, err := os.Stat(filepath.Join(root, "src"))
	return err == nil && info.IsDir()
}

// trailing commas and comments are legal in tsconfig.json
var (
	jsonComment = regexp.MustCompile(`(?m)^\s*//.*$`)
	jsonTrailer = regexp.MustCompile(`,(\s*[}\]])`)
)

// DetectAlias reads the import alias from the first compilerOptions.paths
// entry of tsconfig.json ("@/*" yields "@"). Defaults to "@".
func DetectAlias(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "tsconfig.json"))
	if err != nil {
		return "@"
	}
	data = jsonComment.ReplaceAll(data, nil)
	data = jsonTrailer.ReplaceAll(data, []byte("$1"))

	var ts struct {
		CompilerOptions struct {
			Paths map[string][]string `json:"paths"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(data, &ts); err != nil {
		return "@"
	}
	for key := range ts.CompilerOptions.Paths {
		if alias := strings.TrimSuffix(key, "/*"); alias != "" && alias != key {
			return alias
		}
	}
	return "@"
}

// DetectFramework reports "next" when next is a dependency, "express" when
// express is, and "" otherwise.
func DetectFramework(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	has := func(name string) bool {
		_, a := pkg.Dependencies[name]
		_, b := pkg.DevDependencies[name]
		return a || b
	}
	switch {
	case has("next"):
		return config.FrameworkNext
	case has("express"):
		return config.FrameworkExpress
	}
	return ""
}

var lockfiles = []struct {
	file    string
	manager string
}{
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"package-lock.json", "npm"},
}

// DetectPackageManager picks the package manager from the lockfile in
// root. Defaults to npm.
func DetectPackageManager(root string) string {
	for _, l := range lockfiles {
		if fileExists(filepath.Join(root, l.file)) {
			return l.manager
		}
	}
	return "npm"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
