package util

import (
	"sort"
	"strings"
)

// OrderedKeys returns the keys of m sorted lexically, for deterministic
// iteration over a map whose natural range order is not.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArticleFor returns "a" or "an", matched to whether word begins with a
// vowel sound (approximated by its first letter), optionally capitalized.
func ArticleFor(word string, capitalize bool) string {
	article := "a"
	if len(word) > 0 && strings.ContainsRune("aeiouAEIOU", rune(word[0])) {
		article = "an"
	}
	if capitalize {
		article = strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}
