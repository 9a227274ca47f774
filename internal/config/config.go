package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ErrNotFound is returned when the project has no configuration record yet.
var ErrNotFound = errors.New("no sksn config found")

// Dir is the project-local directory holding the config and the journal.
const Dir = ".sksn"

// ORM values
const (
	ORMDrizzle = "drizzle"
	ORMPrisma  = "prisma"
	ORMNone    = "none"
)

// Driver values
const (
	DriverPG     = "pg"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Framework values
const (
	FrameworkNext    = "next"
	FrameworkExpress = "express"
)

// Auth values
const (
	AuthClerk = "clerk"
	AuthKinde = "kinde"
)

// Config is the persisted project configuration record.
type Config struct {
	HasSrc         bool     `json:"hasSrc"`
	Framework      string   `json:"framework"`
	Alias          string   `json:"alias"`
	PackageManager string   `json:"preferredPackageManager"`
	ORM            string   `json:"orm,omitempty"`      // "" means not chosen yet
	Driver         string   `json:"driver,omitempty"`   // pg, mysql, sqlite
	Provider       string   `json:"provider,omitempty"` // postgresjs, mysql-2, ...
	Auth           string   `json:"auth,omitempty"`
	Packages       []string `json:"packages"`
	ComponentLib   string   `json:"componentLib,omitempty"`
}

// HasORM reports whether a persistence technology has been configured.
func (c *Config) HasORM() bool {
	return c.ORM != "" && c.ORM != ORMNone
}

// IsNext reports whether the project uses the Next.js App Router. Records
// written before the framework key existed are treated as Next.js.
func (c *Config) IsNext() bool {
	return c.Framework == "" || c.Framework == FrameworkNext
}

// HasPackage reports whether the named add-on package is recorded.
func (c *Config) HasPackage(name string) bool {
	return slices.Contains(c.Packages, name)
}

// Patch is a partial configuration record. Nil fields are left untouched.
type Patch struct {
	HasSrc         *bool
	Framework      *string
	Alias          *string
	PackageManager *string
	ORM            *string
	Driver         *string
	Provider       *string
	Auth           *string
	ComponentLib   *string
	AddPackages    []string
}

// Apply merges the patch into cfg. Later patches win per key; packages are
// appended without duplicates.
func (p Patch) Apply(cfg *Config) {
	if p.HasSrc != nil {
		cfg.HasSrc = *p.HasSrc
	}
	setString(&cfg.Framework, p.Framework)
	setString(&cfg.Alias, p.Alias)
	setString(&cfg.PackageManager, p.PackageManager)
	setString(&cfg.ORM, p.ORM)
	setString(&cfg.Driver, p.Driver)
	setString(&cfg.Provider, p.Provider)
	setString(&cfg.Auth, p.Auth)
	setString(&cfg.ComponentLib, p.ComponentLib)
	for _, pkg := range p.AddPackages {
		if !slices.Contains(cfg.Packages, pkg) {
			cfg.Packages = append(cfg.Packages, pkg)
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

// Path returns the config file path for a project root.
func Path(dir string) string {
	return filepath.Join(dir, Dir, "config.json")
}

// Exists reports whether dir holds a configuration record.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// LoadConfig reads .sksn/config.json from the specified directory.
// Returns ErrNotFound (wrapped) when the file is absent.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Alias == "" {
		cfg.Alias = "@"
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Update merges patch into the persisted record and returns the result.
func Update(dir string, patch Patch) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	patch.Apply(cfg)
	if err := SaveConfig(dir, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
