package scaffold

import (
	"strings"
	"testing"
)

func TestAddSchemaExport(t *testing.T) {
	names := DeriveNames("book_authors")

	got := AddSchemaExport(`export * from "./books";`, names)
	want := "export * from \"./books\";\nexport * from \"./bookAuthors\";\n"
	if got != want {
		t.Errorf("AddSchemaExport() = %q, want %q", got, want)
	}
	if again := AddSchemaExport(got, names); again != got {
		t.Errorf("AddSchemaExport() not idempotent: %q", again)
	}
	if got := AddSchemaExport("", names); got != "export * from \"./bookAuthors\";\n" {
		t.Errorf("AddSchemaExport(empty) = %q", got)
	}
}

const rootRouter = `import { router } from "@/lib/server/trpc";
import { booksRouter } from "./books";

export const appRouter = router({
  books: booksRouter,
});

export type AppRouter = typeof appRouter;
`

func TestAddRouterToRoot(t *testing.T) {
	got, err := AddRouterToRoot(rootRouter, DeriveNames("authors"))
	if err != nil {
		t.Fatalf("AddRouterToRoot() error = %v", err)
	}
	want := `import { router } from "@/lib/server/trpc";
import { booksRouter } from "./books";
import { authorsRouter } from "./authors";

export const appRouter = router({
  authors: authorsRouter,
  books: booksRouter,
});

export type AppRouter = typeof appRouter;
`
	if got != want {
		t.Errorf("AddRouterToRoot() =\n%s\nwant\n%s", got, want)
	}

	again, err := AddRouterToRoot(got, DeriveNames("authors"))
	if err != nil || again != got {
		t.Errorf("AddRouterToRoot() not idempotent: %v\n%s", err, again)
	}
}

func TestAddRouterToRoot_NoRouterCall(t *testing.T) {
	if _, err := AddRouterToRoot("export const x = 1;\n", DeriveNames("books")); err == nil {
		t.Error("AddRouterToRoot() error = nil, want error")
	}
}

func TestAppendOptimisticTypes(t *testing.T) {
	snippet := "export type OptimisticAction<T> = { action: Action; data: T };\n"

	got := AppendOptimisticTypes("export function cn() {}\n\n", snippet)
	if got != "export function cn() {}\n"+snippet {
		t.Errorf("AppendOptimisticTypes() = %q", got)
	}
	if again := AppendOptimisticTypes(got, snippet); again != got {
		t.Error("AppendOptimisticTypes() appended twice")
	}
}

const prismaSchema = `generator client {
  provider = "prisma-client-js"
}

model Author {
  id String @id @default(cuid())
  name String
}
`

func TestMergePrismaModel(t *testing.T) {
	block := "model Book {\n  id String @id @default(cuid())\n  authorId String\n}\n"
	back := []BackRelation{
		{Model: "Author", Field: "books", Type: "Book"},
		{Model: "Publisher", Field: "books", Type: "Book"},
	}

	got := MergePrismaModel(prismaSchema, "Book", block, back)
	if !strings.Contains(got, "model Book {\n  id String @id @default(cuid())\n  authorId String\n}") {
		t.Errorf("model not appended:\n%s", got)
	}
	if !strings.Contains(got, "  name String\n  books Book[]\n}") {
		t.Errorf("back relation not added to Author:\n%s", got)
	}
	if strings.Contains(got, "Publisher") {
		t.Errorf("back relation added to a missing model:\n%s", got)
	}

	// regenerating replaces the block and keeps a single back relation
	replaced := MergePrismaModel(got, "Book", "model Book {\n  id String @id\n}\n", back)
	if strings.Count(replaced, "model Book {") != 1 || strings.Contains(replaced, "authorId") {
		t.Errorf("model not replaced:\n%s", replaced)
	}
	if strings.Count(replaced, "books Book[]") != 1 {
		t.Errorf("back relation duplicated:\n%s", replaced)
	}
}

func TestParseDotEnv(t *testing.T) {
	got := ParseDotEnv(`# comment
DATABASE_URL="postgresql://localhost:5432/app"
export CLERK_SECRET_KEY='sk_test'
EMPTY=
PORT=5432 # local database
`)
	want := map[string]string{
		"DATABASE_URL":     "postgresql://localhost:5432/app",
		"CLERK_SECRET_KEY": "sk_test",
		"EMPTY":            "",
		"PORT":             "5432",
	}
	if len(got) != len(want) {
		t.Fatalf("ParseDotEnv() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ParseDotEnv()[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestAppendDotEnv(t *testing.T) {
	existing := "# db\nDATABASE_URL=file:./dev.db"
	got := AppendDotEnv(existing, []EnvVar{
		{Key: "DATABASE_URL", Value: "ignored"},
		{Key: "KINDE_CLIENT_ID", Value: ""},
		{Key: "KINDE_CLIENT_ID", Value: "twice"},
	})
	want := "# db\nDATABASE_URL=file:./dev.db\nKINDE_CLIENT_ID=\n"
	if got != want {
		t.Errorf("AppendDotEnv() = %q, want %q", got, want)
	}
}

const envModule = `export const env = createEnv({
  server: {
    NODE_ENV: z.enum(["development", "test", "production"]).default("development"),
  },
  client: {
  },
  experimental__runtimeEnv: {
  },
});
`

func TestPatchEnvSchema(t *testing.T) {
	got, err := PatchEnvSchema(envModule, []EnvVar{
		{Key: "DATABASE_URL", Schema: "z.string().url()"},
		{Key: "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY", Public: true},
		{Key: "NODE_ENV"},
	})
	if err != nil {
		t.Fatalf("PatchEnvSchema() error = %v", err)
	}
	want := `export const env = createEnv({
  server: {
    NODE_ENV: z.enum(["development", "test", "production"]).default("development"),
    DATABASE_URL: z.string().url(),
  },
  client: {
    NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY: z.string().min(1),
  },
  experimental__runtimeEnv: {
    NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY: process.env.NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY,
  },
});
`
	if got != want {
		t.Errorf("PatchEnvSchema() =\n%s\nwant\n%s", got, want)
	}

	if _, err := PatchEnvSchema("export const env = {};\n", []EnvVar{{Key: "X"}}); err == nil {
		t.Error("PatchEnvSchema() without server group: error = nil, want error")
	}
}

func TestPatchEnvSchema_KeyIsSuffixOfDeclared(t *testing.T) {
	existing := strings.Replace(envModule, "  server: {\n", "  server: {\n    DIRECT_DATABASE_URL: z.string().url(),\n", 1)
	got, err := PatchEnvSchema(existing, []EnvVar{{Key: "DATABASE_URL", Schema: "z.string().url()"}})
	if err != nil {
		t.Fatalf("PatchEnvSchema() error = %v", err)
	}
	if !strings.Contains(got, "\n    DATABASE_URL: z.string().url(),\n") {
		t.Errorf("DATABASE_URL not declared next to DIRECT_DATABASE_URL:\n%s", got)
	}
	again, err := PatchEnvSchema(got, []EnvVar{{Key: "DATABASE_URL"}})
	if err != nil || again != got {
		t.Errorf("second patch changed the module or failed: %v\n%s", err, again)
	}
}

func TestMergeScripts(t *testing.T) {
	existing := `{"name": "shelf", "scripts": {"dev": "next dev", "lint": "next lint"}, "private": true}`
	got, err := MergeScripts(existing, []Script{
		{Name: "dev", Command: "next dev --turbo"},
		{Name: "db:migrate", Command: "tsx lib/db/migrate.ts && echo done"},
	})
	if err != nil {
		t.Fatalf("MergeScripts() error = %v", err)
	}
	want := `{
  "name": "shelf",
  "scripts": {
    "dev": "next dev --turbo",
    "lint": "next lint",
    "db:migrate": "tsx lib/db/migrate.ts && echo done"
  },
  "private": true
}
`
	if got != want {
		t.Errorf("MergeScripts() =\n%s\nwant\n%s", got, want)
	}

	fresh, err := MergeScripts("", []Script{{Name: "build", Command: "tsc"}})
	if err != nil {
		t.Fatalf("MergeScripts(empty) error = %v", err)
	}
	if fresh != "{\n  \"scripts\": {\n    \"build\": \"tsc\"\n  }\n}\n" {
		t.Errorf("MergeScripts(empty) = %q", fresh)
	}

	if _, err := MergeScripts("[1, 2]", nil); err == nil {
		t.Error("MergeScripts(array) error = nil, want error")
	}
}
