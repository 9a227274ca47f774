package scaffold

import (
	"fmt"
	"strings"
)

// AddSchemaExport adds `export * from "./<table>";` to the drizzle schema
// index unless it is already there.
func AddSchemaExport(existing string, names Names) string {
	line := fmt.Sprintf(`export * from "./%s";`, names.Camel)
	if strings.Contains(existing, line) {
		return existing
	}
	return appendLine(existing, line)
}

// AddRouterToRoot registers an entity router in the tRPC root router: an
// import after the last import line and an entry right after `router({`.
func AddRouterToRoot(existing string, names Names) (string, error) {
	importLine := fmt.Sprintf(`import { %sRouter } from "./%s";`, names.Camel, names.Camel)
	if strings.Contains(existing, importLine) {
		return existing, nil
	}
	entry := fmt.Sprintf("  %s: %sRouter,", names.Camel, names.Camel)

	lines := strings.Split(existing, "\n")
	lastImport, routerOpen := -1, -1
	for i, l := range lines {
		if strings.HasPrefix(l, "import ") {
			lastImport = i
		}
		if routerOpen < 0 && strings.Contains(l, "router({") {
			routerOpen = i
		}
	}
	if routerOpen < 0 {
		return "", fmt.Errorf("root router has no router({ ... }) call")
	}

	var out []string
	for i, l := range lines {
		if i == routerOpen && lastImport < 0 {
			out = append(out, importLine, "")
		}
		out = append(out, l)
		if i == lastImport {
			out = append(out, importLine)
		}
		if i == routerOpen {
			out = append(out, entry)
		}
	}
	return strings.Join(out, "\n"), nil
}

// AppendOptimisticTypes appends the Action and OptimisticAction types to
// lib/utils.ts when they are missing.
func AppendOptimisticTypes(existing, snippet string) string {
	if strings.Contains(existing, "OptimisticAction") {
		return existing
	}
	return strings.TrimRight(existing, "\n") + "\n" + snippet
}

// BackRelation is a list field added to a referenced prisma model.
type BackRelation struct {
	Model string // referenced model, e.g. "Author"
	Field string // list field on it, e.g. "books"
	Type  string // element type, e.g. "Book"
}

// MergePrismaModel replaces the model block with the same name in a prisma
// schema, or appends it, then adds any missing back-relation fields.
// Back relations to models not present in the schema are skipped.
func MergePrismaModel(existing, model, block string, back []BackRelation) string {
	block = strings.TrimSpace(block)
	if start, end, ok := findPrismaModel(existing, model); ok {
		existing = existing[:start] + block + existing[end:]
	} else {
		existing = strings.TrimRight(existing, "\n") + "\n\n" + block + "\n"
	}

	for _, b := range back {
		start, end, ok := findPrismaModel(existing, b.Model)
		if !ok {
			continue
		}
		body := existing[start:end]
		if hasPrismaField(body, b.Field) {
			continue
		}
		closing := strings.LastIndex(body, "}")
		line := fmt.Sprintf("  %s %s[]\n", b.Field, b.Type)
		body = body[:closing] + line + body[closing:]
		existing = existing[:start] + body + existing[end:]
	}
	return existing
}

// findPrismaModel returns the byte range of `model <name> { ... }`,
// including the closing brace.
func findPrismaModel(schema, name string) (int, int, bool) {
	header := "model " + name + " {"
	start := -1
	for off := 0; ; {
		i := strings.Index(schema[off:], header)
		if i < 0 {
			break
		}
		i += off
		if i == 0 || schema[i-1] == '\n' {
			start = i
			break
		}
		off = i + len(header)
	}
	if start < 0 {
		return 0, 0, false
	}
	end := strings.Index(schema[start:], "\n}")
	if end < 0 {
		return 0, 0, false
	}
	return start, start + end + 2, true
}

func hasPrismaField(body, field string) bool {
	for _, l := range strings.Split(body, "\n") {
		parts := strings.Fields(l)
		if len(parts) > 0 && parts[0] == field {
			return true
		}
	}
	return false
}

func appendLine(existing, line string) string {
	if existing == "" {
		return line + "\n"
	}
	return strings.TrimRight(existing, "\n") + "\n" + line + "\n"
}
