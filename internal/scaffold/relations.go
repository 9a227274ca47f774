package scaffold

import (
	"fmt"
	"strings"
)

// Relation is the bundle of rendered snippets a generator needs to wire one
// references field into an artifact.
type Relation struct {
	Field      Field
	FieldCamel string // authorId
	Key        string // author, the property holding the joined entity
	Target     Names  // names of the referenced table

	ImportQueries            string // import { getAuthors } from "@/lib/api/authors/queries";
	ImportSchemaType         string // import { type Author } from "@/lib/db/schema/authors";
	ImportCompleteSchemaType string // import { type Author, type AuthorId } from "@/lib/db/schema/authors";
	Invocation               string // const { authors } = await getAuthors();
	Props                    string // authors={authors}
	PropsWithID              string // authors={authors} authorId={authorId}
	ComponentProp            string // authors: Author[]
	ComponentPropWithID      string // authors: Author[]; authorId?: AuthorId
	Destructure              string // authors, authorId
	OptimisticFind           string
	OptimisticEntityRelation string // author: optimisticAuthor,
}

// ResolveRelations builds one Relation per references field, in field order.
func ResolveRelations(fields []Field, paths Paths) []Relation {
	var out []Relation
	for _, f := range fields {
		if !f.IsReference() {
			continue
		}
		out = append(out, resolveRelation(f, paths))
	}
	return out
}

func resolveRelation(f Field, paths Paths) Relation {
	t := DeriveNames(f.References)
	fieldCamel := ToCamelCase(f.Name)
	key := ToCamelCase(strings.TrimSuffix(f.Name, "_id"))
	schemaImport := paths.Import(SchemaDir + "/" + t.Camel)
	queriesImport := paths.Import(ServicesDir + "/" + t.Camel + "/queries.ts")
	optimisticVar := "optimistic" + capitalize(key)

	return Relation{
		Field:      f,
		FieldCamel: fieldCamel,
		Key:        key,
		Target:     t,

		ImportQueries:            fmt.Sprintf(`import { get%s } from "%s";`, t.Pascal, queriesImport),
		ImportSchemaType:         fmt.Sprintf(`import { type %s } from "%s";`, t.SingularPascal, schemaImport),
		ImportCompleteSchemaType: fmt.Sprintf(`import { type %s, type %sId } from "%s";`, t.SingularPascal, t.SingularPascal, schemaImport),
		Invocation:               fmt.Sprintf(`const { %s } = await get%s();`, t.Camel, t.Pascal),
		Props:                    fmt.Sprintf(`%s={%s}`, t.Camel, t.Camel),
		PropsWithID:              fmt.Sprintf(`%s={%s} %s={%s}`, t.Camel, t.Camel, fieldCamel, fieldCamel),
		ComponentProp:            fmt.Sprintf(`%s: %s[]`, t.Camel, t.SingularPascal),
		ComponentPropWithID:      fmt.Sprintf(`%s: %s[]; %s?: %sId`, t.Camel, t.SingularPascal, fieldCamel, t.SingularPascal),
		Destructure:              fmt.Sprintf(`%s, %s`, t.Camel, fieldCamel),
		OptimisticFind: fmt.Sprintf(
			`const %s = %s.find((%s) => %s.id === data.%s)!;`,
			optimisticVar, t.Camel, t.SingularCamel, t.SingularCamel, fieldCamel,
		),
		OptimisticEntityRelation: fmt.Sprintf(`%s: %s,`, key, optimisticVar),
	}
}
