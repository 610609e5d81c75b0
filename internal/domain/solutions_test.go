package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySolution(t *testing.T) {
	tests := []struct {
		name string
		in   Solution
		want SolutionStatus
	}{
		{"missing code", Solution{Language: LanguagePython, Title: "X", TimeComplexity: "O(n)"}, SolutionIncomplete},
		{"all empty", Solution{Language: LanguagePython}, SolutionScaffold},
		{"placeholder only", PlaceholderSolution(LanguageJava), SolutionScaffold},
		{"whitespace only", Solution{Language: LanguageC, Title: "  ", Code: "\n"}, SolutionScaffold},
		{"complete", Solution{Language: LanguageCPP, Title: "DP", Code: "int x;", TimeComplexity: "O(n)"}, SolutionComplete},
		{"approach only", Solution{Language: LanguagePython, Approach: "use a heap"}, SolutionIncomplete},
		{"edited code only", Solution{Language: LanguagePython, Code: "print(1)"}, SolutionIncomplete},
		{"placeholder with title", Solution{Language: LanguageC, Title: "t", Code: DefaultStarterCode(LanguageC)}, SolutionIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySolution(tt.in))
		})
	}
}

func TestPrepareSolutions(t *testing.T) {
	complete := Solution{Title: "a", Code: "b", TimeComplexity: "O(1)"}
	report := PrepareSolutions(map[Language][]Solution{
		LanguagePython: {complete, PlaceholderSolution(LanguagePython)},
		LanguageJava:   {PlaceholderSolution(LanguageJava), {Title: "half"}},
		LanguageC:      {PlaceholderSolution(LanguageC)},
	})

	assert.Equal(t, 3, report.Discarded)
	assert.Equal(t, []SolutionRef{{Language: LanguageJava, Index: 1}}, report.Incomplete)
	assert.Len(t, report.Kept, 1)
	assert.Equal(t, LanguagePython, report.Kept[LanguagePython][0].Language)
}

func TestFillStarterCode(t *testing.T) {
	filled := FillStarterCode(map[Language]string{LanguagePython: "custom", LanguageC: "  "})
	assert.Equal(t, "custom", filled[LanguagePython])
	for _, lang := range Languages {
		assert.NotEmpty(t, filled[lang], "language %s", lang)
	}
	assert.Equal(t, DefaultStarterCode(LanguageC), filled[LanguageC])
}
