package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFields parses the --fields DSL into a slice of Field.
//
// Format: "title:string,price:float?,authors:references!"
//
// A trailing "?" makes the column nullable. For references the name part is
// the referenced table, the column is named after its singular ("author_id"),
// and a trailing "!" enables cascading deletes.
func ParseFields(fieldsStr string) ([]Field, error) {
	if fieldsStr == "" {
		return nil, nil
	}

	var fields []Field
	for _, part := range strings.Split(fieldsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, err := parseField(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	return fields, nil
}

// parseField parses a single field specification.
func parseField(spec string) (Field, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return Field{}, fmt.Errorf("invalid field spec %q: expected 'name:type'", spec)
	}

	name := strings.TrimSpace(parts[0])
	typeSpec := strings.TrimSpace(parts[1])

	if name == "" {
		return Field{}, fmt.Errorf("invalid field spec %q: empty field name", spec)
	}

	cascade := strings.HasSuffix(typeSpec, "!")
	typeSpec = strings.TrimSuffix(typeSpec, "!")
	nullable := strings.HasSuffix(typeSpec, "?")
	typeSpec = strings.TrimSuffix(typeSpec, "?")

	if !IsFieldType(typeSpec) {
		return Field{}, fmt.Errorf("invalid field spec %q: unknown type %q", spec, typeSpec)
	}

	field := Field{
		Name:    ToSnakeCase(name),
		Type:    FieldType(typeSpec),
		NotNull: !nullable,
	}
	if field.IsReference() {
		field.References = ToSnakeCase(name)
		field.Name = ReferenceFieldName(name)
		field.Cascade = cascade
	} else if cascade {
		return Field{}, fmt.Errorf("invalid field spec %q: '!' only applies to references", spec)
	}

	return field, nil
}

// BuildEntitySchema builds a single-node schema from command-line inputs.
func BuildEntitySchema(tableName, fieldsStr, index string, belongsToUser bool) (*EntitySchema, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if err := ValidateTableName(tableName); err != nil {
		return nil, err
	}

	fields, err := ParseFields(fieldsStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	return &EntitySchema{
		TableName:         tableName,
		Fields:            fields,
		Index:             index,
		BelongsToUser:     belongsToUser,
		IncludeTimestamps: true,
	}, nil
}

// schemaFile mirrors EntitySchema with optional keys, so omitted values get
// the same defaults the interactive builder uses.
type schemaFile struct {
	TableName         string       `yaml:"tableName"`
	Fields            []fieldFile  `yaml:"fields"`
	Index             string       `yaml:"index"`
	BelongsToUser     bool         `yaml:"belongsToUser"`
	IncludeTimestamps *bool        `yaml:"includeTimestamps"`
	Children          []schemaFile `yaml:"children"`
}

type fieldFile struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	References string `yaml:"references"`
	NotNull    *bool  `yaml:"notNull"`
	Cascade    bool   `yaml:"cascade"`
}

// LoadSchemaFile reads a YAML schema tree.
//
//	tableName: authors
//	fields:
//	  - { name: name, type: string }
//	children:
//	  - tableName: books
//	    fields:
//	      - { name: title, type: string }
//	      - { type: references, references: publishers, cascade: true }
func LoadSchemaFile(path string) (*EntitySchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema tree. Unknown keys are rejected.
func ParseSchema(data []byte) (*EntitySchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw schemaFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	schema := raw.toSchema()
	return &schema, nil
}

func (s schemaFile) toSchema() EntitySchema {
	out := EntitySchema{
		TableName:         s.TableName,
		Index:             s.Index,
		BelongsToUser:     s.BelongsToUser,
		IncludeTimestamps: s.IncludeTimestamps == nil || *s.IncludeTimestamps,
	}
	for _, f := range s.Fields {
		field := Field{
			Name:       f.Name,
			Type:       FieldType(f.Type),
			References: f.References,
			NotNull:    f.NotNull == nil || *f.NotNull,
			Cascade:    f.Cascade,
		}
		if field.IsReference() && field.Name == "" && field.References != "" {
			field.Name = ReferenceFieldName(field.References)
		}
		out.Fields = append(out.Fields, field)
	}
	for _, c := range s.Children {
		out.Children = append(out.Children, c.toSchema())
	}
	return out
}
