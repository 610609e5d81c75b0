package domain

import (
	"sort"
	"strings"
)

var codeTemplates = map[Language]string{
	LanguagePython: "class Solution:\n    def solve(self):\n        pass\n",
	LanguageC:      "#include <stdio.h>\n\nint main(void) {\n    return 0;\n}\n",
	LanguageCPP:    "#include <bits/stdc++.h>\nusing namespace std;\n\nclass Solution {\npublic:\n    void solve() {\n    }\n};\n",
	LanguageJava:   "class Solution {\n    public void solve() {\n    }\n}\n",
}

// DefaultStarterCode is the skeleton offered for lang before anything is written.
// Unknown languages have no template.
func DefaultStarterCode(lang Language) string {
	return codeTemplates[lang]
}

// FillStarterCode returns a copy of code with every language of the fixed set
// present and non-blank, taking defaults where needed. Keys outside the set
// are kept.
func FillStarterCode(code map[Language]string) map[Language]string {
	filled := make(map[Language]string, len(Languages)+len(code))
	for lang, src := range code {
		filled[lang] = src
	}
	for _, lang := range Languages {
		if strings.TrimSpace(filled[lang]) == "" {
			filled[lang] = DefaultStarterCode(lang)
		}
	}
	return filled
}

// PlaceholderSolution is the record a new solution starts from.
func PlaceholderSolution(lang Language) Solution {
	return Solution{Language: lang, Code: DefaultStarterCode(lang)}
}

// SolutionStatus classifies a solution before it is persisted.
type SolutionStatus int

const (
	// SolutionComplete has a title, code and time complexity.
	SolutionComplete SolutionStatus = iota
	// SolutionIncomplete was started but misses one of title, code or time complexity.
	SolutionIncomplete
	// SolutionScaffold is an untouched placeholder that can be dropped silently.
	SolutionScaffold
)

func (s SolutionStatus) String() string {
	switch s {
	case SolutionComplete:
		return "complete"
	case SolutionIncomplete:
		return "incomplete"
	case SolutionScaffold:
		return "scaffold"
	}
	return "unknown"
}

// ClassifySolution applies the co-presence rule: once anything has been
// written, title, code and time complexity are all required. A record whose
// only content is the language's placeholder code counts as a scaffold.
func ClassifySolution(s Solution) SolutionStatus {
	title := strings.TrimSpace(s.Title)
	code := strings.TrimSpace(s.Code)
	complexity := strings.TrimSpace(s.TimeComplexity)
	approach := strings.TrimSpace(s.Approach)

	if title == "" && complexity == "" && approach == "" {
		if code == "" || code == strings.TrimSpace(DefaultStarterCode(s.Language)) {
			return SolutionScaffold
		}
	}
	if title != "" && code != "" && complexity != "" {
		return SolutionComplete
	}
	return SolutionIncomplete
}

// SolutionReport is the outcome of PrepareSolutions.
type SolutionReport struct {
	Kept       map[Language][]Solution
	Discarded  int
	Incomplete []SolutionRef
}

// PrepareSolutions sorts solutions into the ones to persist, scaffolds to
// drop, and incomplete records the caller must deal with. Kept entries carry a
// language tag matching their key. Incomplete records are reported and not kept.
func PrepareSolutions(solutions map[Language][]Solution) SolutionReport {
	report := SolutionReport{Kept: make(map[Language][]Solution)}
	for _, lang := range solutionLanguages(solutions) {
		for i, s := range solutions[lang] {
			s.Language = lang
			switch ClassifySolution(s) {
			case SolutionScaffold:
				report.Discarded++
			case SolutionIncomplete:
				report.Incomplete = append(report.Incomplete, SolutionRef{Language: lang, Index: i})
			default:
				report.Kept[lang] = append(report.Kept[lang], s)
			}
		}
	}
	return report
}

// solutionLanguages lists the keys of m, fixed languages first.
func solutionLanguages(m map[Language][]Solution) []Language {
	out := make([]Language, 0, len(m))
	for _, lang := range Languages {
		if _, ok := m[lang]; ok {
			out = append(out, lang)
		}
	}
	var extra []Language
	for lang := range m {
		if !lang.Valid() {
			extra = append(extra, lang)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
