package scaffold

import (
	"fmt"

	"github.com/example/sksn/internal/config"
)

// TypeMapping describes how an abstract field type renders for one ORM and
// driver.
type TypeMapping struct {
	Builder  string // drizzle column builder imported from the core package, e.g. "varchar"
	Column   string // drizzle column expression, %s is the column name
	Prisma   string // prisma scalar type
	PrismaDB string // optional prisma native type attribute
	Zod      string // zod type for hand-written schemas
	Coerce   string // zod override for form input, empty when the inferred type is fine
	TS       string // TypeScript type
	Default  string // form default value
}

// Dialect carries the per-driver pieces of a drizzle model file.
type Dialect struct {
	CoreImport     string // "drizzle-orm/pg-core"
	TableFunc      string // "pgTable"
	IDBuilder      string
	IDColumn       string
	StampBuilder   string
	StampColumn    string // %s is the column name
	SupportsReturn bool   // insert/update/delete ... returning()
}

var dialects = map[string]Dialect{
	config.DriverPG: {
		CoreImport:     "drizzle-orm/pg-core",
		TableFunc:      "pgTable",
		IDBuilder:      "varchar",
		IDColumn:       `varchar("id", { length: 191 }).primaryKey().$defaultFn(() => nanoid())`,
		StampBuilder:   "timestamp",
		StampColumn:    "timestamp(\"%s\").notNull().default(sql`now()`)",
		SupportsReturn: true,
	},
	config.DriverMySQL: {
		CoreImport:     "drizzle-orm/mysql-core",
		TableFunc:      "mysqlTable",
		IDBuilder:      "varchar",
		IDColumn:       `varchar("id", { length: 191 }).primaryKey().$defaultFn(() => nanoid())`,
		StampBuilder:   "timestamp",
		StampColumn:    "timestamp(\"%s\").notNull().default(sql`now()`)",
		SupportsReturn: false,
	},
	config.DriverSQLite: {
		CoreImport:     "drizzle-orm/sqlite-core",
		TableFunc:      "sqliteTable",
		IDBuilder:      "text",
		IDColumn:       `text("id").primaryKey().$defaultFn(() => nanoid())`,
		StampBuilder:   "text",
		StampColumn:    "text(\"%s\").notNull().default(sql`CURRENT_TIMESTAMP`)",
		SupportsReturn: true,
	},
}

var (
	zodString = "z.string()"
	zodNumber = "z.coerce.number()"
	zodBool   = "z.coerce.boolean()"
	zodDate   = "z.coerce.date()"
	zodRef    = "z.coerce.string().min(1)"
)

// date columns in string mode receive a Date from the calendar input
var zodDateString = "z.coerce.date().transform((d) => d.toISOString().slice(0, 10))"

// drizzleTypes is the drizzle half of the type mapping table.
var drizzleTypes = map[string]map[FieldType]TypeMapping{
	config.DriverPG: {
		FieldString:     {Builder: "varchar", Column: `varchar("%s", { length: 256 })`, Zod: zodString, TS: "string", Default: `""`},
		FieldText:       {Builder: "text", Column: `text("%s")`, Zod: zodString, TS: "string", Default: `""`},
		FieldNumber:     {Builder: "integer", Column: `integer("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0"},
		FieldFloat:      {Builder: "real", Column: `real("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0.0"},
		FieldBoolean:    {Builder: "boolean", Column: `boolean("%s")`, Zod: zodBool, Coerce: zodBool, TS: "boolean", Default: "false"},
		FieldDate:       {Builder: "date", Column: `date("%s")`, Zod: zodString, Coerce: zodDateString, TS: "string", Default: `""`},
		FieldTimestamp:  {Builder: "timestamp", Column: `timestamp("%s")`, Zod: zodDate, Coerce: zodDate, TS: "Date", Default: "new Date()"},
		FieldJSON:       {Builder: "json", Column: `json("%s")`, Zod: "z.any()", TS: "unknown", Default: "{}"},
		FieldReferences: {Builder: "varchar", Column: `varchar("%s", { length: 256 })`, Zod: zodString, Coerce: zodRef, TS: "string", Default: `""`},
	},
	config.DriverMySQL: {
		FieldString:     {Builder: "varchar", Column: `varchar("%s", { length: 256 })`, Zod: zodString, TS: "string", Default: `""`},
		FieldText:       {Builder: "text", Column: `text("%s")`, Zod: zodString, TS: "string", Default: `""`},
		FieldNumber:     {Builder: "int", Column: `int("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0"},
		FieldFloat:      {Builder: "real", Column: `real("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0.0"},
		FieldBoolean:    {Builder: "boolean", Column: `boolean("%s")`, Zod: zodBool, Coerce: zodBool, TS: "boolean", Default: "false"},
		FieldDate:       {Builder: "date", Column: `date("%s")`, Zod: zodDate, Coerce: zodDate, TS: "Date", Default: "new Date()"},
		FieldTimestamp:  {Builder: "timestamp", Column: `timestamp("%s")`, Zod: zodDate, Coerce: zodDate, TS: "Date", Default: "new Date()"},
		FieldJSON:       {Builder: "json", Column: `json("%s")`, Zod: "z.any()", TS: "unknown", Default: "{}"},
		FieldReferences: {Builder: "varchar", Column: `varchar("%s", { length: 256 })`, Zod: zodString, Coerce: zodRef, TS: "string", Default: `""`},
	},
	config.DriverSQLite: {
		FieldString:     {Builder: "text", Column: `text("%s")`, Zod: zodString, TS: "string", Default: `""`},
		FieldText:       {Builder: "text", Column: `text("%s")`, Zod: zodString, TS: "string", Default: `""`},
		FieldNumber:     {Builder: "integer", Column: `integer("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0"},
		FieldFloat:      {Builder: "real", Column: `real("%s")`, Zod: zodNumber, Coerce: zodNumber, TS: "number", Default: "0.0"},
		FieldBoolean:    {Builder: "integer", Column: `integer("%s", { mode: "boolean" })`, Zod: zodBool, Coerce: zodBool, TS: "boolean", Default: "false"},
		FieldDate:       {Builder: "text", Column: `text("%s")`, Zod: zodString, Coerce: zodDateString, TS: "string", Default: `""`},
		FieldTimestamp:  {Builder: "integer", Column: `integer("%s", { mode: "timestamp" })`, Zod: zodDate, Coerce: zodDate, TS: "Date", Default: "new Date()"},
		FieldJSON:       {Builder: "text", Column: `text("%s", { mode: "json" })`, Zod: "z.any()", TS: "unknown", Default: "{}"},
		FieldReferences: {Builder: "text", Column: `text("%s")`, Zod: zodString, Coerce: zodRef, TS: "string", Default: `""`},
	},
}

// prismaTypes is the prisma half of the type mapping table. JSON columns are
// unsupported on sqlite and fall back to String.
var prismaTypes = map[string]map[FieldType]TypeMapping{
	config.DriverPG:     prismaTable(true, "@db.Date"),
	config.DriverMySQL:  prismaTable(true, "@db.Date"),
	config.DriverSQLite: prismaTable(false, ""),
}

func prismaTable(jsonSupported bool, dateAttr string) map[FieldType]TypeMapping {
	jsonType := TypeMapping{Prisma: "Json", Zod: "z.any()", TS: "unknown", Default: "{}"}
	if !jsonSupported {
		jsonType = TypeMapping{Prisma: "String", Zod: zodString, TS: "string", Default: `""`}
	}
	return map[FieldType]TypeMapping{
		FieldString:     {Prisma: "String", Zod: zodString, TS: "string", Default: `""`},
		FieldText:       {Prisma: "String", Zod: zodString, TS: "string", Default: `""`},
		FieldNumber:     {Prisma: "Int", Zod: "z.coerce.number().int()", TS: "number", Default: "0"},
		FieldFloat:      {Prisma: "Float", Zod: zodNumber, TS: "number", Default: "0.0"},
		FieldBoolean:    {Prisma: "Boolean", Zod: zodBool, TS: "boolean", Default: "false"},
		FieldDate:       {Prisma: "DateTime", PrismaDB: dateAttr, Zod: zodDate, TS: "Date", Default: "new Date()"},
		FieldTimestamp:  {Prisma: "DateTime", Zod: zodDate, TS: "Date", Default: "new Date()"},
		FieldJSON:       jsonType,
		FieldReferences: {Prisma: "String", Zod: zodRef, TS: "string", Default: `""`},
	}
}

// fieldTypeOrder is the order types are offered in prompts.
var fieldTypeOrder = []FieldType{
	FieldString, FieldText, FieldNumber, FieldFloat, FieldBoolean,
	FieldDate, FieldTimestamp, FieldJSON, FieldReferences,
}

func table(orm, driver string) (map[FieldType]TypeMapping, error) {
	var byDriver map[string]map[FieldType]TypeMapping
	switch orm {
	case config.ORMDrizzle:
		byDriver = drizzleTypes
	case config.ORMPrisma:
		byDriver = prismaTypes
	default:
		return nil, fmt.Errorf("no type mapping for orm %q", orm)
	}
	types, ok := byDriver[driver]
	if !ok {
		return nil, fmt.Errorf("no type mapping for %s driver %q", orm, driver)
	}
	return types, nil
}

// LookupType returns the mapping for one field type.
func LookupType(orm, driver string, t FieldType) (TypeMapping, error) {
	types, err := table(orm, driver)
	if err != nil {
		return TypeMapping{}, err
	}
	m, ok := types[t]
	if !ok {
		return TypeMapping{}, fmt.Errorf("unknown field type %q", t)
	}
	return m, nil
}

// FieldTypes lists the selectable field types for an ORM and driver. The
// implicit id column is never offered.
func FieldTypes(orm, driver string) []FieldType {
	types, err := table(orm, driver)
	if err != nil {
		return nil
	}
	out := make([]FieldType, 0, len(fieldTypeOrder))
	for _, t := range fieldTypeOrder {
		if _, ok := types[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// IsFieldType reports whether s names an abstract field type.
func IsFieldType(s string) bool {
	for _, t := range fieldTypeOrder {
		if string(t) == s {
			return true
		}
	}
	return false
}

// DrizzleDialect returns the drizzle model pieces for a driver.
func DrizzleDialect(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported drizzle driver %q", driver)
	}
	return d, nil
}

// MutationReturnsEntity reports whether generated mutations return the
// affected row. Drizzle on mysql has no RETURNING and reports success instead.
func MutationReturnsEntity(cfg *config.Config) bool {
	return !(cfg.ORM == config.ORMDrizzle && cfg.Driver == config.DriverMySQL)
}
