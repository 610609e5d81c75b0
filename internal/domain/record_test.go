package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeLegacySolutions(t *testing.T) {
	doc := `{
		"title": "Two Sum",
		"difficulty": "Easy",
		"description": "find two numbers",
		"starterCode": "def two_sum(nums, target):\n    pass",
		"solutions": [
			{"title": "Brute force", "code": "...", "timeComplexity": "O(n^2)"},
			null,
			{"title": "Hash map", "code": "...", "timeComplexity": "O(n)", "language": "java"}
		]
	}`

	q, err := DecodeQuestion([]byte(doc))
	require.NoError(t, err)

	require.Len(t, q.Solutions, 1)
	python := q.Solutions[LanguagePython]
	require.Len(t, python, 2)
	assert.Equal(t, "Brute force", python[0].Title)
	assert.Equal(t, LanguagePython, python[0].Language)
	assert.Equal(t, "Hash map", python[1].Title)
	assert.Equal(t, LanguagePython, python[1].Language)

	assert.Equal(t, map[Language]string{LanguagePython: "def two_sum(nums, target):\n    pass"}, q.StarterCode)
}

func TestCanonicalizeIndexKeyedSolutions(t *testing.T) {
	doc := `{"title": "x", "solutions": {"1": {"title": "second"}, "0": {"title": "first"}}}`

	q, err := DecodeQuestion([]byte(doc))
	require.NoError(t, err)

	python := q.Solutions[LanguagePython]
	require.Len(t, python, 2)
	assert.Equal(t, "first", python[0].Title)
	assert.Equal(t, "second", python[1].Title)
}

func TestCanonicalizeRepairsLanguageTags(t *testing.T) {
	doc := `{
		"title": "x",
		"starterCode": {"python": "p", "java": "j"},
		"solutions": {
			"cpp": [{"title": "a", "code": "c", "timeComplexity": "O(1)"}],
			"java": [{"title": "b", "code": "c", "timeComplexity": "O(1)", "language": "python"}]
		}
	}`

	q, err := DecodeQuestion([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, LanguageCPP, q.Solutions[LanguageCPP][0].Language)
	assert.Equal(t, LanguageJava, q.Solutions[LanguageJava][0].Language)
	assert.Equal(t, map[Language]string{LanguagePython: "p", LanguageJava: "j"}, q.StarterCode)
}

func TestCanonicalizeAbsentFields(t *testing.T) {
	q := Canonicalize(RawQuestion{Title: "Empty"})
	assert.NotNil(t, q.StarterCode)
	assert.Empty(t, q.StarterCode)
	assert.NotNil(t, q.Solutions)
	assert.Empty(t, q.Solutions)
	assert.Nil(t, q.LastRevised)
}

func TestUnknownFieldsRoundTrip(t *testing.T) {
	doc := `{"title": "x", "difficulty": "Hard", "tags": ["graph"], "lastRevised": 1700000000000}`

	q, err := DecodeQuestion([]byte(doc))
	require.NoError(t, err)
	require.Contains(t, q.Extra, "tags")
	require.NotNil(t, q.LastRevised)
	assert.Equal(t, int64(1700000000000), *q.LastRevised)

	out, err := json.Marshal(q)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, []any{"graph"}, back["tags"])
	assert.Equal(t, "Hard", back["difficulty"])
}

func TestQuestionUnmarshalCanonicalizes(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x", "solutions": [{"title": "a"}]}`), &q))
	assert.Equal(t, LanguagePython, q.Solutions[LanguagePython][0].Language)
}

func TestCanonicalizeToleratesOddShapes(t *testing.T) {
	doc := `{"title": "x", "starterCode": 42, "solutions": {"python": {"title": "single"}, "c": "oops"}}`

	q, err := DecodeQuestion([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, q.StarterCode)
	require.Len(t, q.Solutions[LanguagePython], 1)
	assert.Equal(t, "single", q.Solutions[LanguagePython][0].Title)
	assert.Empty(t, q.Solutions[LanguageC])
}
