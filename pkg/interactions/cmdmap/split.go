package cmdmap

import "strings"

// SplitWords splits a slash-command path on whitespace, matching how
// spec.md §3 describes SlashMap's key: "whitespace-delimited path for
// slash commands".
func SplitWords(path string) []string {
	return strings.Fields(path)
}

// SplitCustomID splits a component/modal custom id on the configured
// delimiter set. An empty delimiter set (the default) yields the whole id
// as a single segment, per spec.md §4.2's InteractionMap description.
func SplitCustomID(customID string, delimiters string) []string {
	if delimiters == "" {
		return []string{customID}
	}
	return strings.FieldsFunc(customID, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
}
