package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// OthersTopic is the catch-all label. It is never stored in a pool; MergeTopics
// synthesizes it and always places it last.
const OthersTopic = "Others"

// MergeTopics returns the union of the public and user pools without
// duplicates, sorted for display, with OthersTopic appended as the last entry.
// Equality is exact and case-sensitive. Blank labels are ignored.
func MergeTopics(public, user []string) []string {
	seen := make(map[string]struct{}, len(public)+len(user))
	merged := make([]string, 0, len(public)+len(user)+1)
	for _, pool := range [][]string{public, user} {
		for _, label := range pool {
			if label == OthersTopic || strings.TrimSpace(label) == "" {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			merged = append(merged, label)
		}
	}

	// A Collator keeps scratch buffers, so each call gets its own.
	col := collate.New(language.English)
	sort.SliceStable(merged, func(i, j int) bool {
		if c := col.CompareString(merged[i], merged[j]); c != 0 {
			return c < 0
		}
		return merged[i] < merged[j]
	})
	return append(merged, OthersTopic)
}

// IsRegistrableTopic reports whether label may be written to a topic pool.
func IsRegistrableTopic(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && label != OthersTopic && Slugify(label) != ""
}

// FindTopic returns the pool entry that shares label's slug.
func FindTopic(pool []string, label string) (string, bool) {
	slug := Slugify(label)
	if slug == "" {
		return "", false
	}
	for _, existing := range pool {
		if Slugify(existing) == slug {
			return existing, true
		}
	}
	return "", false
}
