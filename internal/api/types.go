package api

import "time"

// Level is a JLPT level string ("N5".."N1").
type Level string

// Known levels, easiest first.
var Levels = []Level{"N5", "N4", "N3", "N2", "N1"}

// Rank returns the ordinal position of the level, 0 for N5 up to 4 for N1.
// Unknown levels rank below N5.
func (l Level) Rank() int {
	for i, known := range Levels {
		if l == known {
			return i
		}
	}
	return -1
}

// ExamplePair is one example sentence with its translation.
type ExamplePair struct {
	Ja string `json:"ja"`
	Zh string `json:"zh"`
}

// GrammarPoint is an immutable snapshot of one grammar point as returned
// by the service. Proficiency is authoritative only from the service and
// is never mutated locally.
type GrammarPoint struct {
	ID          string        `json:"id"`
	Level       Level         `json:"level"`
	Title       string        `json:"title"`
	Structure   string        `json:"structure"`
	Usage       string        `json:"usage"`
	Examples    []ExamplePair `json:"examples"`
	Themes      []string      `json:"themes"`
	Proficiency float64       `json:"proficiency"`
}

// ExerciseType identifies how a generated exercise is answered.
type ExerciseType string

const (
	TypeChoice      ExerciseType = "choice"
	TypeFillInBlank ExerciseType = "fill_in_the_blank"
	TypeSentence    ExerciseType = "sentence"
)

// ExerciseTypes lists the three known exercise kinds in display order.
var ExerciseTypes = []ExerciseType{TypeChoice, TypeFillInBlank, TypeSentence}

// Valid reports whether t is one of the known exercise kinds.
func (t ExerciseType) Valid() bool {
	switch t {
	case TypeChoice, TypeFillInBlank, TypeSentence:
		return true
	}
	return false
}

// Exercise is one generated question. Immutable once produced; scoped to
// a single practice session.
type Exercise struct {
	ID            string       `json:"id"`
	Type          ExerciseType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
}

// HasOption reports whether answer exactly matches one of the listed
// options. Only meaningful for choice exercises.
func (e Exercise) HasOption(answer string) bool {
	for _, opt := range e.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// Outcome is the service's verdict on a submitted answer.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Result is the grading of one submitted answer. The canonical
// CorrectAnswer may differ from the submitted text even when the outcome
// is correct; the service grades fuzzily and that is not an inconsistency.
type Result struct {
	Outcome       Outcome `json:"result"`
	Explanation   string  `json:"explanation"`
	CorrectAnswer string  `json:"correct_answer"`
	Suggestion    string  `json:"suggestion,omitempty"`
}

// Correct reports whether the outcome is correct.
func (r Result) Correct() bool {
	return r.Outcome == OutcomeCorrect
}

// Scenario is one conversation setting offered by the service.
type Scenario struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Correction is the service's rewrite of a learner message.
type Correction struct {
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
	Translation string `json:"zh"`
}

// Unchanged reports whether the correction says the original text needs
// no change.
func (c Correction) Unchanged(original string) bool {
	return c.Corrected == original
}

// Role identifies who produced a dialogue turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a dialogue transcript. A Correction is only
// ever attached to a user turn.
type Turn struct {
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Correction *Correction `json:"correction,omitempty"`
}

// DialogueReply is the service's response to one sent turn.
type DialogueReply struct {
	SessionID  string      `json:"sessionId"`
	Reply      string      `json:"reply"`
	Correction *Correction `json:"correction,omitempty"`
}

// DialogueHistory is a stored transcript as returned by the service.
type DialogueHistory struct {
	SessionID string `json:"sessionId"`
	Scenario  string `json:"scenario"`
	Turns     []Turn `json:"history"`
}

// Mistake is an immutable historical record of one wrong answer.
// GrammarID referenced a grammar point that existed at capture time and
// may no longer appear in the current filtered catalog.
type Mistake struct {
	ID            int       `json:"id"`
	GrammarID     string    `json:"grammarId"`
	QuestionID    string    `json:"questionId"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Timestamp     time.Time `json:"timestamp"`
}

// DailyStat is one day's practice counts inside the weekly window.
type DailyStat struct {
	Date     string `json:"date"`
	Grammar  int    `json:"grammar"`
	Dialogue int    `json:"dialogue"`
}

// WeeklyStats is the fixed recent-window activity report.
type WeeklyStats struct {
	DailyStats    []DailyStat `json:"dailyStats"`
	TotalGrammar  int         `json:"totalGrammar"`
	TotalDialogue int         `json:"totalDialogue"`
}

// Summary holds whole-history study counters.
type Summary struct {
	TotalGrammarPracticed int     `json:"total_grammar_practiced"`
	MasteredGrammar       int     `json:"mastered_grammar"`
	TotalMistakes         int     `json:"total_mistakes"`
	TotalDialogueSessions int     `json:"total_dialogue_sessions"`
	MasteryRate           float64 `json:"mastery_rate"`
}

// Export is a downloadable study-data document.
type Export struct {
	Filename string
	Data     []byte
}
