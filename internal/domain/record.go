package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// StarterCodeField is starter code as found in storage: either a single
// string from older writers or a per-language map. Both nil means absent.
type StarterCodeField struct {
	Single      *string
	PerLanguage map[Language]string
}

func (f *StarterCodeField) UnmarshalJSON(data []byte) error {
	*f = StarterCodeField{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Single = &s
	case '{':
		var entries map[Language]json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		f.PerLanguage = make(map[Language]string, len(entries))
		for lang, raw := range entries {
			var src string
			if err := json.Unmarshal(raw, &src); err == nil {
				f.PerLanguage[lang] = src
			}
		}
	}
	return nil
}

func (f StarterCodeField) MarshalJSON() ([]byte, error) {
	switch {
	case f.Single != nil:
		return json.Marshal(*f.Single)
	case f.PerLanguage != nil:
		return json.Marshal(f.PerLanguage)
	}
	return []byte("null"), nil
}

func (f StarterCodeField) canonical() map[Language]string {
	out := make(map[Language]string)
	switch {
	case f.Single != nil:
		out[LanguagePython] = *f.Single
	case f.PerLanguage != nil:
		for lang, src := range f.PerLanguage {
			out[lang] = src
		}
	}
	return out
}

// SolutionsField is the solutions tree as found in storage: a flat legacy
// list whose entries are implicitly python, or a per-language map. Both nil
// means absent.
type SolutionsField struct {
	Legacy      []Solution
	PerLanguage map[Language][]Solution
}

func (f *SolutionsField) UnmarshalJSON(data []byte) error {
	*f = SolutionsField{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		list, err := decodeSolutionList(data)
		if err != nil {
			return err
		}
		f.Legacy = list
	case '{':
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		// The store turns arrays into objects keyed "0", "1", ...
		if len(entries) > 0 && indexKeyed(entries) {
			list, err := decodeSolutionList(data)
			if err != nil {
				return err
			}
			f.Legacy = list
			return nil
		}
		f.PerLanguage = make(map[Language][]Solution, len(entries))
		for lang, raw := range entries {
			list, err := decodeSolutionList(raw)
			if err != nil {
				return err
			}
			f.PerLanguage[Language(lang)] = list
		}
	}
	return nil
}

func (f SolutionsField) MarshalJSON() ([]byte, error) {
	switch {
	case f.Legacy != nil:
		return json.Marshal(f.Legacy)
	case f.PerLanguage != nil:
		return json.Marshal(f.PerLanguage)
	}
	return []byte("null"), nil
}

func (f SolutionsField) canonical() map[Language][]Solution {
	out := make(map[Language][]Solution)
	switch {
	case f.Legacy != nil:
		out[LanguagePython] = tagSolutions(f.Legacy, LanguagePython)
	case f.PerLanguage != nil:
		for lang, list := range f.PerLanguage {
			out[lang] = tagSolutions(list, lang)
		}
	}
	return out
}

func tagSolutions(list []Solution, lang Language) []Solution {
	tagged := make([]Solution, len(list))
	for i, s := range list {
		s.Language = lang
		tagged[i] = s
	}
	return tagged
}

// decodeSolutionList accepts an array, an index-keyed object, or a single
// solution object. Null and malformed entries are skipped.
func decodeSolutionList(data []byte) ([]Solution, error) {
	data = bytes.TrimSpace(data)
	list := make([]Solution, 0)
	if len(data) == 0 {
		return list, nil
	}
	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
	case '{':
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return list, nil
		}
		if !indexKeyed(entries) {
			items = []json.RawMessage{data}
			break
		}
		keys := make([]int, 0, len(entries))
		for k := range entries {
			n, _ := strconv.Atoi(k)
			keys = append(keys, n)
		}
		sort.Ints(keys)
		for _, k := range keys {
			items = append(items, entries[strconv.Itoa(k)])
		}
	default:
		return list, nil
	}

	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var s Solution
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		list = append(list, s)
	}
	return list, nil
}

func indexKeyed(entries map[string]json.RawMessage) bool {
	for k := range entries {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			return false
		}
	}
	return true
}

// RawQuestion is a question record as read from storage, before Canonicalize.
type RawQuestion struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Topic        string           `json:"topic"`
	Difficulty   Difficulty       `json:"difficulty"`
	Description  string           `json:"description"`
	Examples     string           `json:"examples"`
	Constraints  string           `json:"constraints"`
	QuestionLink string           `json:"questionLink"`
	StarterCode  StarterCodeField `json:"starterCode"`
	Solutions    SolutionsField   `json:"solutions"`
	CreatedAt    int64            `json:"createdAt"`
	UpdatedAt    int64            `json:"updatedAt"`
	LastRevised  *int64           `json:"lastRevised"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownQuestionFields = map[string]struct{}{
	"id": {}, "title": {}, "topic": {}, "difficulty": {}, "description": {},
	"examples": {}, "constraints": {}, "questionLink": {}, "starterCode": {},
	"solutions": {}, "createdAt": {}, "updatedAt": {}, "lastRevised": {},
}

type rawQuestionJSON RawQuestion

func (r *RawQuestion) UnmarshalJSON(data []byte) error {
	var fields rawQuestionJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, value := range all {
		if _, known := knownQuestionFields[key]; known {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[key] = value
	}
	*r = RawQuestion(fields)
	return nil
}

// DecodeRawQuestion parses one stored question document.
func DecodeRawQuestion(data []byte) (RawQuestion, error) {
	var raw RawQuestion
	err := json.Unmarshal(data, &raw)
	return raw, err
}

// Canonicalize rewrites any stored question shape into the canonical one.
// A single starter-code string becomes {python: s}; a flat solutions list
// becomes {python: list}; every solution is tagged with its containing
// language. Unknown fields are carried in Extra. It never fails.
func Canonicalize(raw RawQuestion) Question {
	q := Question{
		ID:           raw.ID,
		Title:        raw.Title,
		Topic:        raw.Topic,
		Difficulty:   raw.Difficulty,
		Description:  raw.Description,
		Examples:     raw.Examples,
		Constraints:  raw.Constraints,
		QuestionLink: raw.QuestionLink,
		StarterCode:  raw.StarterCode.canonical(),
		Solutions:    raw.Solutions.canonical(),
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
	}
	if raw.LastRevised != nil {
		revised := *raw.LastRevised
		q.LastRevised = &revised
	}
	if len(raw.Extra) > 0 {
		q.Extra = make(map[string]json.RawMessage, len(raw.Extra))
		for k, v := range raw.Extra {
			q.Extra[k] = v
		}
	}
	return q
}

// DecodeQuestion parses a stored document and canonicalizes it.
func DecodeQuestion(data []byte) (Question, error) {
	raw, err := DecodeRawQuestion(data)
	if err != nil {
		return Question{}, err
	}
	return Canonicalize(raw), nil
}

type questionJSON Question

func (q *Question) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeQuestion(data)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(questionJSON(q))
	if err != nil || len(q.Extra) == 0 {
		return base, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range q.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
