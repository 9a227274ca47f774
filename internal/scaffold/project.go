package scaffold

import (
	"fmt"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
)

// Package tags recorded in the configuration record.
const (
	PackageDrizzle = "drizzle"
	PackagePrisma  = "prisma"
	PackageTRPC    = "trpc"
	PackageShadcn  = "shadcn-ui"
)

// ProjectView is the data project setup templates render against.
type ProjectView struct {
	importer
	Name   string
	Alias  string
	HasSrc bool
	IsNext bool

	Driver            string
	Provider          string
	DrizzleAdapter    string // drizzle-orm/postgres-js
	DrizzleKitDialect string // postgresql, mysql, sqlite, turso
	PrismaProvider    string // postgresql, mysql, sqlite
	AuthToken         bool   // the database needs DATABASE_AUTH_TOKEN
	HasAuth           bool
}

// NewProjectView builds the template data for a configured project.
func NewProjectView(cfg *config.Config) ProjectView {
	paths := NewPaths(cfg)
	return ProjectView{
		importer: importer{paths: paths},
		Alias:    paths.alias,
		HasSrc:   cfg.HasSrc,
		IsNext:   cfg.IsNext(),
		Driver:   cfg.Driver,
		Provider: cfg.Provider,
		HasAuth:  cfg.Auth != "",
	}
}

// Root returns the on-disk path of a project-relative location.
func (v ProjectView) Root(rel string) string { return v.paths.Root(rel) }

// Env returns the expression reading an environment variable: the
// validated env module for Next.js, process.env otherwise.
func (v ProjectView) Env(key string) string {
	if v.IsNext {
		return "env." + key
	}
	return "process.env." + key + "!"
}

// RunScript renders the command running a package.json script.
func RunScript(manager, script string) string {
	switch manager {
	case "yarn":
		return "yarn " + script
	case "pnpm", "bun":
		return manager + " run " + script
	default:
		return "npm run " + script
	}
}

// InitOptions are the answers collected by `sksn init`.
type InitOptions struct {
	Name           string
	Framework      string
	HasSrc         bool
	Alias          string
	PackageManager string
}

// InitProject creates the base project files (kept when they already exist)
// and the configuration record.
func (g *Generator) InitProject(opts InitOptions) (*GeneratorResult, error) {
	if opts.Framework != config.FrameworkNext && opts.Framework != config.FrameworkExpress {
		return nil, fmt.Errorf("unknown framework %q", opts.Framework)
	}
	if opts.Alias == "" {
		opts.Alias = "@"
	}
	cfg := &config.Config{
		HasSrc:         opts.HasSrc,
		Framework:      opts.Framework,
		Alias:          opts.Alias,
		PackageManager: opts.PackageManager,
	}
	pv := NewProjectView(cfg)
	pv.Name = opts.Name

	result := &GeneratorResult{}
	for _, f := range []struct{ tmpl, path string }{
		{"package.json", PackageJSON},
		{"tsconfig.json", "tsconfig.json"},
	} {
		content, err := g.RenderProject(f.tmpl, pv)
		if err != nil {
			return nil, err
		}
		result.add(effects.FileEffect{Operation: effects.FileEnsure, Path: f.path, Content: content})
	}

	if cfg.IsNext() {
		result.add(effects.InstallEffect{
			Regular: []string{"next", "react", "react-dom"},
			Dev:     []string{"typescript", "@types/node", "@types/react", "@types/react-dom"},
		})
	} else {
		content, err := g.RenderProject("express_index.ts", pv)
		if err != nil {
			return nil, err
		}
		result.add(effects.FileEffect{Operation: effects.FileEnsure, Path: pv.Root("index.ts"), Content: content})
		result.add(effects.InstallEffect{
			Regular: []string{"express", "dotenv"},
			Dev:     []string{"typescript", "tsx", "@types/node", "@types/express"},
		})
	}

	result.add(effects.ConfigEffect{
		Patch: config.Patch{
			HasSrc:         config.Bool(opts.HasSrc),
			Framework:      config.String(opts.Framework),
			Alias:          config.String(opts.Alias),
			PackageManager: config.String(opts.PackageManager),
		},
		Create: true,
	})
	result.NextSteps = append(result.NextSteps, "Run 'sksn add' to set up an ORM, auth or tRPC")
	return result, nil
}
