package scaffold

import (
	"strings"
	"testing"

	"github.com/example/sksn/internal/config"
)

func TestLookupType(t *testing.T) {
	tests := []struct {
		orm, driver string
		field       FieldType
		check       func(TypeMapping) bool
	}{
		{config.ORMDrizzle, config.DriverPG, FieldString, func(m TypeMapping) bool { return m.Builder == "varchar" }},
		{config.ORMDrizzle, config.DriverMySQL, FieldNumber, func(m TypeMapping) bool { return m.Builder == "int" }},
		{config.ORMDrizzle, config.DriverSQLite, FieldBoolean, func(m TypeMapping) bool { return strings.Contains(m.Column, `mode: "boolean"`) }},
		{config.ORMPrisma, config.DriverPG, FieldJSON, func(m TypeMapping) bool { return m.Prisma == "Json" }},
		{config.ORMPrisma, config.DriverSQLite, FieldJSON, func(m TypeMapping) bool { return m.Prisma == "String" }},
		{config.ORMPrisma, config.DriverMySQL, FieldFloat, func(m TypeMapping) bool { return m.Prisma == "Float" }},
	}
	for _, tt := range tests {
		m, err := LookupType(tt.orm, tt.driver, tt.field)
		if err != nil {
			t.Errorf("LookupType(%s, %s, %s) error = %v", tt.orm, tt.driver, tt.field, err)
			continue
		}
		if !tt.check(m) {
			t.Errorf("LookupType(%s, %s, %s) = %+v", tt.orm, tt.driver, tt.field, m)
		}
	}

	if _, err := LookupType(config.ORMDrizzle, "oracle", FieldString); err == nil {
		t.Error("LookupType(oracle) error = nil, want error")
	}
	if _, err := LookupType("typeorm", config.DriverPG, FieldString); err == nil {
		t.Error("LookupType(typeorm) error = nil, want error")
	}
	if _, err := LookupType(config.ORMDrizzle, config.DriverPG, "uuid"); err == nil {
		t.Error("LookupType(uuid) error = nil, want error")
	}
}

func TestFieldTypes(t *testing.T) {
	for _, orm := range []string{config.ORMDrizzle, config.ORMPrisma} {
		for _, driver := range Drivers {
			types := FieldTypes(orm, driver)
			if len(types) != len(fieldTypeOrder) {
				t.Errorf("FieldTypes(%s, %s) = %v", orm, driver, types)
			}
			if types[0] != FieldString || types[len(types)-1] != FieldReferences {
				t.Errorf("FieldTypes(%s, %s) order = %v", orm, driver, types)
			}
		}
	}
	if FieldTypes("", "") != nil {
		t.Error("FieldTypes without an orm should be empty")
	}
}

func TestMutationReturnsEntity(t *testing.T) {
	tests := []struct {
		orm, driver string
		want        bool
	}{
		{config.ORMDrizzle, config.DriverPG, true},
		{config.ORMDrizzle, config.DriverSQLite, true},
		{config.ORMDrizzle, config.DriverMySQL, false},
		{config.ORMPrisma, config.DriverMySQL, true},
	}
	for _, tt := range tests {
		if got := MutationReturnsEntity(&config.Config{ORM: tt.orm, Driver: tt.driver}); got != tt.want {
			t.Errorf("MutationReturnsEntity(%s, %s) = %v, want %v", tt.orm, tt.driver, got, tt.want)
		}
	}
}

func TestMySQLMutationsReportSuccess(t *testing.T) {
	cfg := drizzlePG()
	cfg.Driver = config.DriverMySQL
	cfg.Provider = "mysql-2"

	result := mustGenerate(t, books(), cfg)
	mutations := fileByPath(t, result, "lib/api/books/mutations.ts")
	if !strings.Contains(mutations.Content, "success") {
		t.Errorf("mysql mutations should report success:\n%s", mutations.Content)
	}
	if !strings.Contains(fileByPath(t, result, "lib/db/schema/books.ts").Content, "mysqlTable") {
		t.Error("mysql model should use mysqlTable")
	}
}

func TestResolveRelations(t *testing.T) {
	fields := []Field{
		{Name: "title", Type: FieldString},
		{Name: "author_id", Type: FieldReferences, References: "authors", NotNull: true},
	}
	rels := ResolveRelations(fields, NewPaths(&config.Config{Alias: "~", HasSrc: true}))
	if len(rels) != 1 {
		t.Fatalf("len(ResolveRelations()) = %d, want 1", len(rels))
	}

	r := rels[0]
	if r.FieldCamel != "authorId" || r.Key != "author" || r.Target.Pascal != "Authors" {
		t.Errorf("relation = %+v", r)
	}
	if r.ImportQueries != `import { getAuthors } from "~/lib/api/authors/queries";` {
		t.Errorf("ImportQueries = %s", r.ImportQueries)
	}
	if r.OptimisticFind != "const optimisticAuthor = authors.find((author) => author.id === data.authorId)!;" {
		t.Errorf("OptimisticFind = %s", r.OptimisticFind)
	}
}

func TestPaths(t *testing.T) {
	p := NewPaths(&config.Config{HasSrc: true})
	if got := p.Root("lib/db/index.ts"); got != "src/lib/db/index.ts" {
		t.Errorf("Root() = %q", got)
	}
	if got := p.Import("lib/db/index.ts"); got != "@/lib/db/index" {
		t.Errorf("Import() = %q", got)
	}

	files := FilesFor(DeriveNames("book_authors"))
	if files.Page != "app/(app)/book-authors/page.tsx" || files.Form != "components/bookAuthors/BookAuthorForm.tsx" {
		t.Errorf("FilesFor() = %+v", files)
	}
}
