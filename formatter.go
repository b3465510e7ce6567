package configmapper

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// FieldNameFormatter turns a Go struct field name into the identifier
// segment used for that field when the tag does not override it.
type FieldNameFormatter func(fieldName string) string

var (
	// LowerUnderscore is the default: DefaultField becomes default_field,
	// HTTPServer becomes http_server and Val1 stays val1.
	LowerUnderscore FieldNameFormatter = func(s string) string { return delimited(s, '_') }
	// LowerHyphen: DefaultField becomes default-field
	LowerHyphen FieldNameFormatter = func(s string) string { return delimited(s, '-') }
	// LowerCamel: DefaultField becomes defaultField
	LowerCamel FieldNameFormatter = strcase.ToLowerCamel
	// Identity leaves field names alone
	Identity FieldNameFormatter = func(s string) string { return s }
)

// delimited splits on word boundaries but, unlike strcase.ToSnake, keeps
// digits attached to the word they follow.
func delimited(s string, sep rune) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if b.Len() > 0 && i+1 < len(runes) {
				b.WriteRune(sep)
			}
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(sep)
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
