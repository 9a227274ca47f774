// Package scaffold derives TypeScript web-app artifacts from entity schemas.
package scaffold

import (
	"slices"

	"github.com/example/sksn/internal/core/effects"
)

// FieldType is an abstract column type, rendered per ORM and driver by the
// type mapping table.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldFloat      FieldType = "float"
	FieldBoolean    FieldType = "boolean"
	FieldDate       FieldType = "date"
	FieldTimestamp  FieldType = "timestamp"
	FieldJSON       FieldType = "json"
	FieldReferences FieldType = "references"
)

// Field represents a column of an entity.
type Field struct {
	Name       string    `yaml:"name"`                 // snake_case: "author_id"
	Type       FieldType `yaml:"type"`                 // abstract type
	References string    `yaml:"references,omitempty"` // referenced table, only for references
	NotNull    bool      `yaml:"notNull,omitempty"`
	Cascade    bool      `yaml:"cascade,omitempty"`
}

// IsReference reports whether the field points at another entity.
func (f Field) IsReference() bool { return f.Type == FieldReferences }

// IsDate reports whether the field holds a date or a timestamp.
func (f Field) IsDate() bool { return f.Type == FieldDate || f.Type == FieldTimestamp }

// EntitySchema is one node of the schema tree built by the user.
type EntitySchema struct {
	TableName         string         `yaml:"tableName"`
	Fields            []Field        `yaml:"fields"`
	Index             string         `yaml:"index,omitempty"`
	BelongsToUser     bool           `yaml:"belongsToUser,omitempty"`
	IncludeTimestamps bool           `yaml:"includeTimestamps"`
	Children          []EntitySchema `yaml:"children,omitempty"`
}

// ExtendedSchema is a flattened entity: its own fields plus the injected
// parent reference, and the chain of ancestor table names (root first).
type ExtendedSchema struct {
	TableName         string
	Fields            []Field
	Index             string
	BelongsToUser     bool
	IncludeTimestamps bool
	Parents           []string
}

// Resource selects which artifact families are generated for an entity.
type Resource string

const (
	ResourceModel         Resource = "model"
	ResourceAPIRoute      Resource = "api_route"
	ResourceTRPCRoute     Resource = "trpc_route"
	ResourceServerActions Resource = "server_actions"
	ResourceViews         Resource = "views"
	ResourceTRPCViews     Resource = "views_trpc"
)

// AllResources lists the default resources in generation order.
var AllResources = []Resource{
	ResourceModel,
	ResourceAPIRoute,
	ResourceTRPCRoute,
	ResourceServerActions,
	ResourceViews,
}

// resourceOrder is the generation order of every resource. Views backed by
// tRPC replace the server action views, so they are never a default.
var resourceOrder = append(slices.Clone(AllResources), ResourceTRPCViews)

// GeneratorResult contains the result of a scaffold operation.
type GeneratorResult struct {
	Effects   []effects.Effect
	NextSteps []string
}

// Files returns the file effects in the result, in order.
func (r *GeneratorResult) Files() []effects.FileEffect {
	var files []effects.FileEffect
	for _, e := range r.Effects {
		if f, ok := e.(effects.FileEffect); ok {
			files = append(files, f)
		}
	}
	return files
}

func (r *GeneratorResult) add(effs ...effects.Effect) {
	r.Effects = append(r.Effects, effs...)
}

func (r *GeneratorResult) merge(other *GeneratorResult) {
	if other == nil {
		return
	}
	r.Effects = append(r.Effects, other.Effects...)
	r.NextSteps = append(r.NextSteps, other.NextSteps...)
}
