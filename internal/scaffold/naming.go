package scaffold

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names holds every identifier form derived from a table name.
//
// For "book_authors":
//
//	Plural             book_authors
//	Singular           book_author
//	Camel              bookAuthors
//	SingularCamel      bookAuthor
//	Pascal             BookAuthors
//	SingularPascal     BookAuthor
//	Kebab              book-authors
//	SingularKebab      book-author
//	FormID             book-author-form
//	Human              Book Authors
//	HumanSingular      Book Author
//	HumanLower         book authors
//	HumanSingularLower book author
type Names struct {
	Plural             string
	Singular           string
	Camel              string
	SingularCamel      string
	Pascal             string
	SingularPascal     string
	Kebab              string
	SingularKebab      string
	FormID             string
	Human              string
	HumanSingular      string
	HumanLower         string
	HumanSingularLower string
}

// DeriveNames derives all name forms for a snake_case table name.
// It is pure and deterministic.
func DeriveNames(tableName string) Names {
	plural := ToSnakeCase(tableName)
	singular := Singularize(plural)

	return Names{
		Plural:             plural,
		Singular:           singular,
		Camel:              ToCamelCase(plural),
		SingularCamel:      ToCamelCase(singular),
		Pascal:             ToPascalCase(plural),
		SingularPascal:     ToPascalCase(singular),
		Kebab:              ToKebabCase(plural),
		SingularKebab:      ToKebabCase(singular),
		FormID:             ToKebabCase(singular) + "-form",
		Human:              ToHuman(plural),
		HumanSingular:      ToHuman(singular),
		HumanLower:         strings.ToLower(ToHuman(plural)),
		HumanSingularLower: strings.ToLower(ToHuman(singular)),
	}
}

// Singularize returns the singular of a snake_case word.
func Singularize(s string) string {
	if s == "" {
		return s
	}
	return inflect.Singularize(s)
}

// Pluralize returns the plural of a snake_case word.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return inflect.Pluralize(s)
}

// ReferenceFieldName returns the column name used to point at table:
// "authors" -> "author_id".
func ReferenceFieldName(table string) string {
	return Singularize(ToSnakeCase(table)) + "_id"
}

// ToHuman converts an identifier to title-cased English words.
func ToHuman(s string) string {
	return cases.Title(language.English).String(strings.Join(words(s), " "))
}

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	ws := words(s)
	for i := range ws {
		ws[i] = capitalize(ws[i])
	}
	return strings.Join(ws, "")
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	ws := words(s)
	for i := 1; i < len(ws); i++ {
		ws[i] = capitalize(ws[i])
	}
	return strings.Join(ws, "")
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	return strings.Join(words(s), "_")
}

// ToKebabCase converts a string to kebab-case.
func ToKebabCase(s string) string {
	return strings.Join(words(s), "-")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// words breaks an identifier into lowercase words. Underscores, hyphens and
// spaces separate words, and so does an upper-case letter that follows a
// lower-case letter or digit.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0 && !unicode.IsUpper(cur[len(cur)-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
