package repositories

import "strings"

// likeEscape is the ESCAPE character used with containsPattern. A backslash
// would need doubling under MySQL, so a plain '!' is used instead.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching s anywhere. The
// LIKE wildcards in s match literally when the query carries ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
