// Package scaffold provides templates for code generation.
//
// Templates are keyed by artifact kind and technology:
//
//	drizzle/model.ts.tmpl   kind "model.ts", technology "drizzle"
//	shared/actions.ts.tmpl  used for every technology without its own file
//
// Templates use [[ ]] delimiters so JSX and TypeScript braces stay literal.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed drizzle/*.tmpl prisma/*.tmpl shared/*.tmpl views/*.tmpl project/*.tmpl
var scaffoldTemplates embed.FS

// Delimiters used by every scaffold template.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

// Shared is the fallback technology key.
const Shared = "shared"

// Lookup returns the template for kind under tech, falling back to shared.
func Lookup(kind, tech string) (string, error) {
	for _, dir := range []string{tech, Shared} {
		content, err := scaffoldTemplates.ReadFile(dir + "/" + kind + ".tmpl")
		if err == nil {
			return string(content), nil
		}
	}
	return "", fmt.Errorf("no template %q for %q", kind, tech)
}

// View returns a UI template (page, list, form, optimistic hook, helpers).
func View(kind string) (string, error) {
	content, err := scaffoldTemplates.ReadFile("views/" + kind + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("no view template %q: %w", kind, err)
	}
	return string(content), nil
}

// Project returns a project setup template (ORM, auth, tRPC, init files).
func Project(name string) (string, error) {
	content, err := scaffoldTemplates.ReadFile("project/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("no project template %q: %w", name, err)
	}
	return string(content), nil
}

// Names lists every embedded template path, for tests.
func Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(scaffoldTemplates, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}

// Parse parses a template with the shared delimiters and function map.
func Parse(name, content string, funcs template.FuncMap) (*template.Template, error) {
	return template.New(name).Delims(LeftDelim, RightDelim).Funcs(funcs).Parse(content)
}

// TemplateFuncs returns the template function map for scaffold templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"toUpper": strings.ToUpper,
		"title":   capitalize,
		"join":    strings.Join,
		"repeat":  strings.Repeat,
		"quote":   func(s string) string { return `"` + s + `"` },
		"add":     func(a, b int) int { return a + b },
		"last":    func(i, n int) bool { return i == n-1 },
	}
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
