package domain

import "encoding/json"

// Language identifies the programming language of starter code and solutions.
type Language string

const (
	LanguagePython Language = "python"
	LanguageC      Language = "c"
	LanguageCPP    Language = "cpp"
	LanguageJava   Language = "java"
)

// Languages is the fixed language set in presentation order.
var Languages = []Language{LanguagePython, LanguageC, LanguageCPP, LanguageJava}

// Valid reports whether l belongs to the fixed language set.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Difficulty is the fixed difficulty enumeration of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Solution is one worked solution scoped to a single language. It has no
// identity of its own and is addressed by index within its language's list.
type Solution struct {
	Language       Language `json:"language"`
	Title          string   `json:"title"`
	Code           string   `json:"code"`
	TimeComplexity string   `json:"timeComplexity"`
	Approach       string   `json:"approach"`
}

// Question is the canonical shape of a practice problem.
type Question struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title" validate:"required,routable"`
	Topic        string                  `json:"topic"`
	Difficulty   Difficulty              `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Description  string                  `json:"description" validate:"required"`
	Examples     string                  `json:"examples"`
	Constraints  string                  `json:"constraints"`
	QuestionLink string                  `json:"questionLink" validate:"omitempty,url"`
	StarterCode  map[Language]string     `json:"starterCode"`
	Solutions    map[Language][]Solution `json:"solutions"`
	CreatedAt    int64                   `json:"createdAt"`
	UpdatedAt    int64                   `json:"updatedAt"`
	LastRevised  *int64                  `json:"lastRevised"`

	// Extra holds fields this version does not know about; they are written
	// back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// Slug is the routing key derived from the title.
func (q Question) Slug() string {
	return Slugify(q.Title)
}

// Scope selects which partition a question or topic pool lives in.
type Scope string

const (
	ScopeUser   Scope = "user"
	ScopePublic Scope = "public"
)

// Partition addresses one owner's collection in the store.
type Partition struct {
	Scope  Scope
	UserID string
}

func PublicPartition() Partition {
	return Partition{Scope: ScopePublic}
}

func UserPartition(userID string) Partition {
	return Partition{Scope: ScopeUser, UserID: userID}
}

// Key is the owner key used by the storage adapters.
func (p Partition) Key() string {
	if p.Scope == ScopePublic {
		return "public"
	}
	return "user:" + p.UserID
}

// Principal is the authenticated caller. It is passed explicitly into every
// use case that needs identity.
type Principal struct {
	UserID string
	Admin  bool
}

// ActivityDay is one calendar day's revision count for a user.
type ActivityDay struct {
	Day   int64 `json:"day"` // epoch ms of local midnight
	Count int   `json:"count"`
}
