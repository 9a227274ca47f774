package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/prompt"
	"github.com/example/sksn/internal/scaffold"
)

// schemaBuilder asks for a schema tree one table at a time. The whole tree
// is finished before anything is generated.
type schemaBuilder struct {
	prompt  *prompt.Prompter
	cfg     *config.Config
	known   []string // tables that already exist in the project
	defined []string // tables added during this session
}

func newSchemaBuilder(p *prompt.Prompter, cfg *config.Config, known []string) *schemaBuilder {
	return &schemaBuilder{prompt: p, cfg: cfg, known: known}
}

// Build asks for the root table and, recursively, its children.
func (b *schemaBuilder) Build() (*scaffold.EntitySchema, error) {
	root, err := b.table("")
	if err != nil {
		return nil, err
	}
	return &root, nil
}

func (b *schemaBuilder) table(parent string) (scaffold.EntitySchema, error) {
	question := "Table name (plural, snake_case)"
	if parent != "" {
		question = fmt.Sprintf("Child table name of %s", parent)
	}
	name, err := b.prompt.Input(question, "", func(s string) error {
		if err := scaffold.ValidateTableName(s); err != nil {
			return err
		}
		if slices.Contains(b.defined, s) {
			return fmt.Errorf("table %q is already part of this schema", s)
		}
		return nil
	})
	if err != nil {
		return scaffold.EntitySchema{}, err
	}
	b.defined = append(b.defined, name)

	schema := scaffold.EntitySchema{TableName: name}
	if schema.Fields, err = b.fields(name, parent); err != nil {
		return schema, err
	}
	if schema.Index, err = b.index(schema.Fields); err != nil {
		return schema, err
	}

	if b.cfg.Auth != "" {
		if schema.BelongsToUser, err = b.prompt.Confirm(fmt.Sprintf("Do %s belong to a user?", name)); err != nil {
			return schema, err
		}
	}
	skip, err := b.prompt.Confirm("Skip createdAt/updatedAt timestamps?")
	if err != nil {
		return schema, err
	}
	schema.IncludeTimestamps = !skip

	for {
		more, err := b.prompt.Confirm(fmt.Sprintf("Add a child table to %s?", name))
		if err != nil {
			return schema, err
		}
		if !more {
			break
		}
		child, err := b.table(name)
		if err != nil {
			return schema, err
		}
		schema.Children = append(schema.Children, child)
	}
	return schema, nil
}

func (b *schemaBuilder) fields(table, parent string) ([]scaffold.Field, error) {
	types := scaffold.FieldTypes(b.cfg.ORM, b.cfg.Driver)
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	reserved := []string{"id", "user_id", "created_at", "updated_at"}
	if parent != "" {
		reserved = append(reserved, scaffold.ReferenceFieldName(parent))
	}

	var fields []scaffold.Field
	referenced := map[string]bool{}
	for {
		name, err := b.prompt.Input("Field name (empty to finish)", "", func(s string) error {
			if s == "" {
				if len(fields) == 0 {
					return errors.New("add at least one field")
				}
				return nil
			}
			if err := scaffold.ValidateTableName(s); err != nil {
				return fmt.Errorf("invalid field name %q: use snake_case", s)
			}
			if slices.Contains(reserved, s) {
				return fmt.Errorf("field %q is generated automatically", s)
			}
			for _, f := range fields {
				if f.Name == s {
					return fmt.Errorf("field %q already exists", s)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if name == "" {
			return fields, nil
		}

		choice, err := b.prompt.Select(fmt.Sprintf("Type of %s.%s", table, name), typeNames)
		if err != nil {
			return nil, err
		}
		field := scaffold.Field{Name: name, Type: scaffold.FieldType(choice)}

		if field.IsReference() {
			targets := b.referenceTargets(table, parent, referenced)
			if len(targets) == 0 {
				return nil, fmt.Errorf("no table available for %s.%s to reference", table, name)
			}
			if field.References, err = b.prompt.Select("Referenced table", targets); err != nil {
				return nil, err
			}
			referenced[field.References] = true
			field.Name = scaffold.ReferenceFieldName(field.References)
			if field.Cascade, err = b.prompt.Confirm("Delete rows when the referenced row is deleted?"); err != nil {
				return nil, err
			}
		}

		nullable, err := b.prompt.Confirm(fmt.Sprintf("Can %s be empty?", field.Name))
		if err != nil {
			return nil, err
		}
		field.NotNull = !nullable
		fields = append(fields, field)
	}
}

// referenceTargets lists the tables a field may point at: existing and
// already defined tables, except the table itself, its parent (linked
// automatically) and tables it already references.
func (b *schemaBuilder) referenceTargets(table, parent string, referenced map[string]bool) []string {
	var out []string
	for _, t := range append(slices.Clone(b.known), b.defined...) {
		if t == table || t == parent || referenced[t] || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (b *schemaBuilder) index(fields []scaffold.Field) (string, error) {
	options := []string{"(none)"}
	for _, f := range fields {
		if !f.IsReference() {
			options = append(options, f.Name)
		}
	}
	if len(options) == 1 {
		return "", nil
	}
	choice, err := b.prompt.Select("Index a field?", options)
	if err != nil || choice == "(none)" {
		return "", err
	}
	return choice, nil
}
