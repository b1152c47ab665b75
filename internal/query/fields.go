package query

import "strings"

// Filter fields a condition may test. The vocabulary is closed: a
// field:value word with any other field name is dropped by the lexer
// rather than surfaced as an error.
const (
	FieldLabel    = "label"
	FieldAuthor   = "author"
	FieldState    = "state"
	FieldIs       = "is"
	FieldAssignee = "assignee"
)

var fieldVocabulary = map[string]bool{
	FieldLabel:    true,
	FieldAuthor:   true,
	FieldState:    true,
	FieldIs:       true,
	FieldAssignee: true,
}

// fieldDisplayNames maps fields to the label shown in the query builder.
var fieldDisplayNames = map[string]string{
	FieldLabel:    "Label",
	FieldAuthor:   "Author",
	FieldState:    "State",
	FieldIs:       "Status",
	FieldAssignee: "Assignee",
}

// KnownField reports whether name belongs to the filter vocabulary.
// Matching is case-insensitive; the lexer stores fields lowercased.
func KnownField(name string) bool {
	return fieldVocabulary[strings.ToLower(name)]
}

// FieldDisplayName returns the builder-facing label for a field, or the
// field itself when no display name is registered.
func FieldDisplayName(field string) string {
	if name, ok := fieldDisplayNames[strings.ToLower(field)]; ok {
		return name
	}
	return field
}

// Fields returns the filter vocabulary in a stable order.
func Fields() []string {
	return []string{FieldLabel, FieldAuthor, FieldState, FieldIs, FieldAssignee}
}
