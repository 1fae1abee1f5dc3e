package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, nil)
}

func TestListGrammar_Filters(t *testing.T) {
	var gotQuery string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]GrammarPoint{{ID: "g1", Level: "N5", Title: "は"}})
	})

	points, err := client.ListGrammar(context.Background(), "N5", "基础")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "g1", points[0].ID)
	assert.Contains(t, gotQuery, "level=N5")
}

func TestGrammarDetail_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Grammar not found"}`, http.StatusNotFound)
	})

	_, err := client.GrammarDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateExercises_ValidPayload(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "g1", body["grammarId"])
		assert.Equal(t, "choice", body["type"])

		json.NewEncoder(w).Encode([]Exercise{{
			ID:            "q1",
			Type:          TypeChoice,
			Question:      "___、元気ですか",
			Options:       []string{"こんにちは", "さようなら"},
			CorrectAnswer: "こんにちは",
			Explanation:   "greeting",
		}})
	})

	exercises, err := client.GenerateExercises(context.Background(), "g1", TypeChoice)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, TypeChoice, exercises[0].Type)
}

func TestGenerateExercises_SchemaRejectsMalformedPayload(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Missing required fields and wrong type value.
		w.Write([]byte(`[{"id":"q1","type":"essay"}]`))
	})

	_, err := client.GenerateExercises(context.Background(), "g1", TypeChoice)
	var payloadErr *InvalidPayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func TestGenerateExercises_SchemaRejectsEmptySequence(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.GenerateExercises(context.Background(), "g1", TypeChoice)
	var payloadErr *InvalidPayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func TestSubmitAnswer(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{
			Outcome:       OutcomeIncorrect,
			Explanation:   "use は for the topic",
			CorrectAnswer: "は",
			Suggestion:    "私は学生です",
		})
	})

	result, err := client.SubmitAnswer(context.Background(), "g1", "q1", "が")
	require.NoError(t, err)
	assert.False(t, result.Correct())
	assert.Equal(t, "は", result.CorrectAnswer)
}

func TestSendTurn_SessionIDOmittedOnFirstCall(t *testing.T) {
	var bodies []map[string]any
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		json.NewEncoder(w).Encode(DialogueReply{SessionID: "sess-1", Reply: "こんにちは!"})
	})

	_, err := client.SendTurn(context.Background(), "greeting", "こんにちは", "")
	require.NoError(t, err)
	_, err = client.SendTurn(context.Background(), "greeting", "元気?", "sess-1")
	require.NoError(t, err)

	_, hadID := bodies[0]["sessionId"]
	assert.False(t, hadID, "first turn must not fabricate a session identifier")
	assert.Equal(t, "sess-1", bodies[1]["sessionId"])
}

func TestSendTurn_SchemaRequiresSessionID(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply":"hi"}`))
	})

	_, err := client.SendTurn(context.Background(), "greeting", "hi", "")
	var payloadErr *InvalidPayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func TestListScenarios_UnwrapsEnvelope(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scenarios":[{"id":"greeting","name":"打招呼"}]}`))
	})

	scenarios, err := client.ListScenarios(context.Background())
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "greeting", scenarios[0].ID)
}

func TestStatusErrorCarriesOperationAndCode(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.WeeklyStats(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, "weekly stats", statusErr.Operation)
}

func TestExportStudyData_FilenameFromDisposition(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="custom.xlsx"`)
		w.Write([]byte{0x50, 0x4b})
	})

	doc, err := client.ExportStudyData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom.xlsx", doc.Filename)
	assert.Equal(t, []byte{0x50, 0x4b}, doc.Data)
}

func TestExportStudyData_DefaultFilename(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	})

	doc, err := client.ExportStudyData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultExportFilename, doc.Filename)
}

type memRecorder struct {
	mu      sync.Mutex
	entries []string
	oks     []bool
}

func (m *memRecorder) RecordRequest(operation string, _ time.Duration, success bool, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, operation)
	m.oks = append(m.oks, success)
}

func TestRecorderSeesSuccessAndFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stats/summary" {
			json.NewEncoder(w).Encode(Summary{})
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rec := &memRecorder{}
	client := NewHTTPClient(srv.URL, 5*time.Second, rec)

	_, err := client.Summary(context.Background())
	require.NoError(t, err)
	_, err = client.ListMistakes(context.Background())
	require.Error(t, err)

	require.Equal(t, []string{"summary", "list mistakes"}, rec.entries)
	assert.Equal(t, []bool{true, false}, rec.oks)
}

func TestCorrectionUnchanged(t *testing.T) {
	c := Correction{Corrected: "こんにちは"}
	assert.True(t, c.Unchanged("こんにちは"))
	assert.False(t, c.Unchanged("こんにちわ"))
}

func TestLevelRank(t *testing.T) {
	assert.Equal(t, 0, Level("N5").Rank())
	assert.Equal(t, 4, Level("N1").Rank())
	assert.Equal(t, -1, Level("N9").Rank())
}

func TestErrNotFoundIsNotAStatusError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.History(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
