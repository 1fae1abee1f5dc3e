package api

import "context"

// Client is the Remote Learning Service boundary. Every call is stateless
// from the client's perspective except SendTurn, which is correlated by
// the service-issued session identifier. Implementations never fabricate
// a session identifier.
type Client interface {
	// ListGrammar returns the catalog filtered by level and theme.
	// Empty filter values mean "all".
	ListGrammar(ctx context.Context, level Level, theme string) ([]GrammarPoint, error)

	// GrammarDetail returns one grammar point, or ErrNotFound.
	GrammarDetail(ctx context.Context, grammarID string) (*GrammarPoint, error)

	// GenerateExercises asks the service for a fresh exercise sequence.
	GenerateExercises(ctx context.Context, grammarID string, typ ExerciseType) ([]Exercise, error)

	// SubmitAnswer grades one answer for the given question.
	SubmitAnswer(ctx context.Context, grammarID, questionID, answer string) (*Result, error)

	// ListMistakes returns the mistake history, most recent relevant first.
	ListMistakes(ctx context.Context) ([]Mistake, error)

	// Recommendations returns grammar ids ranked by the service.
	Recommendations(ctx context.Context) ([]string, error)

	// ListScenarios returns the available conversation scenarios.
	ListScenarios(ctx context.Context) ([]Scenario, error)

	// SendTurn submits one dialogue message. sessionID is empty on the
	// first turn; the service assigns one and returns it in the reply.
	SendTurn(ctx context.Context, scenarioID, message, sessionID string) (*DialogueReply, error)

	// CorrectMessage asks for a standalone correction of a message.
	CorrectMessage(ctx context.Context, message string) (*Correction, error)

	// History returns the stored transcript for a session, or ErrNotFound.
	History(ctx context.Context, sessionID string) (*DialogueHistory, error)

	// WeeklyStats returns per-day counts over the recent window.
	WeeklyStats(ctx context.Context) (*WeeklyStats, error)

	// Summary returns whole-history study counters.
	Summary(ctx context.Context) (*Summary, error)

	// ExportStudyData downloads the study workbook.
	ExportStudyData(ctx context.Context) (*Export, error)
}
