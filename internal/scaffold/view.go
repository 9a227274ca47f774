package scaffold

import (
	"fmt"
	"slices"
	"strings"

	"github.com/example/sksn/internal/config"
)

// importer gives templates an .Import method resolving project-relative
// paths to aliased module specifiers.
type importer struct {
	paths Paths
}

// Import returns the aliased module specifier for a project-relative path.
func (i importer) Import(rel string) string { return i.paths.Import(rel) }

// fieldView is one field as the templates see it.
type fieldView struct {
	Field
	Camel       string
	Pascal      string
	Human       string
	Mapping     TypeMapping
	Column      string   // drizzle column expression
	PrismaLines []string // prisma model lines
	InputKind   string   // text, number, checkbox, date, select
	DefaultExpr string   // form default value expression
	Relation    *Relation
}

// entityView is the data every entity template renders against.
type entityView struct {
	importer
	Names             Names
	Files             EntityFiles
	Fields            []fieldView
	Relations         []Relation
	BelongsToUser     bool
	IncludeTimestamps bool
	Index             *fieldView

	// drizzle
	Dialect         Dialect
	Builders        []string
	UserIDColumn    string
	CreatedAtColumn string
	UpdatedAtColumn string
	Coerced         []fieldView
	Selection       string
	WhereByID       string
	StampNow        string

	// prisma
	Includes    string
	PrismaWhere string
	PrismaIndex string

	// mutations and routes
	ReturnsEntity bool
	ResultKey     string
	Procedure     string

	// views
	DisplayExpr string
	DateFields  []fieldView
	HasDates    bool
	HasBooleans bool
}

// buildEntityView resolves names, relations and per-ORM snippets for one
// flattened schema.
func buildEntityView(schema ExtendedSchema, cfg *config.Config) (*entityView, error) {
	paths := NewPaths(cfg)
	names := DeriveNames(schema.TableName)
	relations := ResolveRelations(schema.Fields, paths)

	v := &entityView{
		importer:          importer{paths: paths},
		Names:             names,
		Files:             FilesFor(names),
		Relations:         relations,
		BelongsToUser:     schema.BelongsToUser,
		IncludeTimestamps: schema.IncludeTimestamps,
		ReturnsEntity:     MutationReturnsEntity(cfg),
	}
	v.ResultKey = names.SingularCamel
	if !v.ReturnsEntity {
		v.ResultKey = "success"
	}
	v.Procedure = "publicProcedure"
	if schema.BelongsToUser && cfg.Auth != "" {
		v.Procedure = "protectedProcedure"
	}

	if cfg.ORM == config.ORMDrizzle {
		d, err := DrizzleDialect(cfg.Driver)
		if err != nil {
			return nil, err
		}
		v.Dialect = d
	}

	relByField := map[string]*Relation{}
	for i := range relations {
		relByField[relations[i].Field.Name] = &relations[i]
	}

	for _, f := range schema.Fields {
		m, err := LookupType(cfg.ORM, cfg.Driver, f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", schema.TableName, f.Name, err)
		}
		fv := fieldView{
			Field:    f,
			Camel:    ToCamelCase(f.Name),
			Pascal:   ToPascalCase(f.Name),
			Human:    ToHuman(strings.TrimSuffix(f.Name, "_id")),
			Mapping:  m,
			Relation: relByField[f.Name],
		}
		fv.InputKind = inputKind(f, m)
		fv.DefaultExpr = defaultExpr(names.SingularCamel, fv)
		if cfg.ORM == config.ORMDrizzle {
			fv.Column = drizzleColumn(fv)
		} else {
			fv.PrismaLines = prismaLines(fv)
		}
		v.Fields = append(v.Fields, fv)
		if m.Coerce != "" {
			v.Coerced = append(v.Coerced, fv)
		}
		if fv.InputKind == "date" {
			v.DateFields = append(v.DateFields, fv)
		}
		if fv.InputKind == "checkbox" {
			v.HasBooleans = true
		}
	}
	v.HasDates = len(v.DateFields) > 0

	if schema.Index != "" {
		for i := range v.Fields {
			if v.Fields[i].Name == schema.Index {
				v.Index = &v.Fields[i]
			}
		}
		if v.Index == nil {
			return nil, fmt.Errorf("%s: index field %q not found", schema.TableName, schema.Index)
		}
		v.PrismaIndex = "[" + v.Index.Camel + "]"
	}

	v.DisplayExpr = displayExpr(names.SingularCamel, v.Fields)
	v.buildDrizzle(cfg)
	v.buildPrisma()
	return v, nil
}

func (v *entityView) buildDrizzle(cfg *config.Config) {
	if cfg.ORM != config.ORMDrizzle {
		return
	}
	d := v.Dialect

	builders := []string{d.IDBuilder}
	for _, f := range v.Fields {
		builders = append(builders, f.Mapping.Builder)
	}
	userBuilder, userColumn := "varchar", `varchar("user_id", { length: 256 }).notNull()`
	if cfg.Driver == config.DriverSQLite {
		userBuilder, userColumn = "text", `text("user_id").notNull()`
	}
	if v.BelongsToUser {
		builders = append(builders, userBuilder)
		v.UserIDColumn = userColumn
	}
	if v.IncludeTimestamps {
		builders = append(builders, d.StampBuilder)
		v.CreatedAtColumn = fmt.Sprintf(d.StampColumn, "created_at")
		v.UpdatedAtColumn = fmt.Sprintf(d.StampColumn, "updated_at")
	}
	if v.Index != nil {
		builders = append(builders, "uniqueIndex")
	}
	v.Builders = dedup(builders)

	table := v.Names.Camel
	if len(v.Relations) > 0 {
		parts := []string{fmt.Sprintf("%s: %s", v.Names.SingularCamel, table)}
		for _, r := range v.Relations {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Key, r.Target.Camel))
		}
		v.Selection = "{ " + strings.Join(parts, ", ") + " }"
	}

	idMatch := fmt.Sprintf("eq(%s.id, %sId)", table, v.Names.SingularCamel)
	v.WhereByID = idMatch
	if v.BelongsToUser {
		v.WhereByID = fmt.Sprintf("and(%s, eq(%s.userId, session?.user.id!))", idMatch, table)
	}

	v.StampNow = "new Date()"
	if cfg.Driver == config.DriverSQLite {
		v.StampNow = "new Date().toISOString()"
	}
}

func (v *entityView) buildPrisma() {
	if len(v.Relations) > 0 {
		parts := make([]string, 0, len(v.Relations))
		for _, r := range v.Relations {
			parts = append(parts, r.Key+": true")
		}
		v.Includes = "{ " + strings.Join(parts, ", ") + " }"
	}
	v.PrismaWhere = fmt.Sprintf("{ id: %sId }", v.Names.SingularCamel)
	if v.BelongsToUser {
		v.PrismaWhere = fmt.Sprintf("{ id: %sId, userId: session?.user.id! }", v.Names.SingularCamel)
	}
}

func drizzleColumn(f fieldView) string {
	col := fmt.Sprintf(f.Mapping.Column, f.Name)
	if f.IsReference() {
		target := ToCamelCase(f.References)
		col += fmt.Sprintf(".references(() => %s.id", target)
		if f.Cascade {
			col += `, { onDelete: "cascade" }`
		}
		col += ")"
	}
	if f.NotNull {
		col += ".notNull()"
	}
	return col
}

func prismaLines(f fieldView) []string {
	optional := ""
	if !f.NotNull {
		optional = "?"
	}
	line := fmt.Sprintf("%s %s%s", f.Camel, f.Mapping.Prisma, optional)
	if f.Mapping.PrismaDB != "" {
		line += " " + f.Mapping.PrismaDB
	}
	if f.Camel != f.Name {
		line += fmt.Sprintf(" @map(%q)", f.Name)
	}
	if !f.IsReference() || f.Relation == nil {
		return []string{line}
	}

	rel := fmt.Sprintf("%s %s%s @relation(fields: [%s], references: [id]",
		f.Relation.Key, f.Relation.Target.SingularPascal, optional, f.Camel)
	if f.Cascade {
		rel += ", onDelete: Cascade"
	}
	rel += ")"
	return []string{line, rel}
}

func inputKind(f Field, m TypeMapping) string {
	switch {
	case f.IsReference():
		return "select"
	case f.Type == FieldBoolean:
		return "checkbox"
	case f.IsDate():
		return "date"
	case m.TS == "number":
		return "number"
	default:
		return "text"
	}
}

func defaultExpr(entity string, f fieldView) string {
	if f.Type == FieldJSON {
		return fmt.Sprintf("JSON.stringify(%s?.%s ?? {})", entity, f.Camel)
	}
	return fmt.Sprintf("%s?.%s ?? %s", entity, f.Camel, f.Mapping.Default)
}

// displayExpr renders the list row label from the first field.
func displayExpr(entity string, fields []fieldView) string {
	if len(fields) == 0 {
		return entity + ".id"
	}
	f := fields[0]
	access := entity + "." + f.Camel
	switch {
	case f.Mapping.TS == "Date":
		return access + "?.toUTCString()"
	case f.Type == FieldJSON:
		return "JSON.stringify(" + access + ")"
	case f.Type == FieldBoolean:
		return "String(" + access + ")"
	default:
		return access
	}
}

func dedup(items []string) []string {
	var out []string
	for _, s := range items {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
