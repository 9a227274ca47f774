package scaffold

import (
	"fmt"
	"regexp"
	"slices"
)

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)

// ValidateTableName checks that name is lowercase snake_case starting with a letter.
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: use lowercase snake_case starting with a letter", name)
	}
	return nil
}

// Flatten walks the schema tree in pre-order and returns one ExtendedSchema
// per node. Every non-root node gets an injected not-null, cascading
// reference to its direct parent, appended after its own fields. The input
// tree is not modified and the result shares no slices with it.
func Flatten(root EntitySchema) []ExtendedSchema {
	var out []ExtendedSchema
	flatten(root, nil, &out)
	return out
}

func flatten(node EntitySchema, parents []string, out *[]ExtendedSchema) {
	fields := slices.Clone(node.Fields)
	if len(parents) > 0 {
		parent := parents[len(parents)-1]
		fields = append(fields, Field{
			Name:       ReferenceFieldName(parent),
			Type:       FieldReferences,
			References: parent,
			NotNull:    true,
			Cascade:    true,
		})
	}

	*out = append(*out, ExtendedSchema{
		TableName:         node.TableName,
		Fields:            fields,
		Index:             node.Index,
		BelongsToUser:     node.BelongsToUser,
		IncludeTimestamps: node.IncludeTimestamps,
		Parents:           slices.Clone(parents),
	})

	childParents := append(slices.Clone(parents), node.TableName)
	for _, child := range node.Children {
		flatten(child, childParents, out)
	}
}

// Validate checks a schema tree loaded from a file: table names, field
// names, the references invariant, and that every reference points at
// another table that is known or defined in the tree.
func Validate(root EntitySchema, known []string) error {
	defined := slices.Clone(known)
	var collect func(EntitySchema)
	collect = func(n EntitySchema) {
		defined = append(defined, n.TableName)
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(root)

	var check func(n EntitySchema, parent string) error
	check = func(n EntitySchema, parent string) error {
		if err := ValidateTableName(n.TableName); err != nil {
			return err
		}
		seen := map[string]bool{}
		targets := map[string]bool{}
		for _, f := range n.Fields {
			if err := validateField(f); err != nil {
				return fmt.Errorf("%s: %w", n.TableName, err)
			}
			if seen[f.Name] {
				return fmt.Errorf("%s: duplicate field %q", n.TableName, f.Name)
			}
			seen[f.Name] = true
			if f.IsReference() && !slices.Contains(defined, f.References) {
				return fmt.Errorf("%s: field %q references unknown table %q", n.TableName, f.Name, f.References)
			}
			if f.IsReference() {
				if f.References == n.TableName {
					return fmt.Errorf("%s: field %q references its own table", n.TableName, f.Name)
				}
				if f.References == parent {
					return fmt.Errorf("%s: field %q duplicates the link to parent %q", n.TableName, f.Name, parent)
				}
				if targets[f.References] {
					return fmt.Errorf("%s: more than one field references %q", n.TableName, f.References)
				}
				targets[f.References] = true
			}
		}
		if parent != "" && seen[ReferenceFieldName(parent)] {
			return fmt.Errorf("%s: field %q is reserved for the parent link", n.TableName, ReferenceFieldName(parent))
		}
		if n.Index != "" && !seen[n.Index] {
			return fmt.Errorf("%s: index field %q is not a field of the table", n.TableName, n.Index)
		}
		for _, c := range n.Children {
			if err := check(c, n.TableName); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root, "")
}

func validateField(f Field) error {
	if err := ValidateTableName(f.Name); err != nil {
		return fmt.Errorf("invalid field name %q", f.Name)
	}
	if !IsFieldType(string(f.Type)) {
		return fmt.Errorf("field %q has unknown type %q", f.Name, f.Type)
	}
	if f.IsReference() != (f.References != "") {
		return fmt.Errorf("field %q: references must be set exactly when type is references", f.Name)
	}
	if f.Cascade && !f.IsReference() {
		return fmt.Errorf("field %q: cascade only applies to references", f.Name)
	}
	return nil
}
