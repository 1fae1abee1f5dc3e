package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultExportFilename is used when the service sends no usable
// Content-Disposition header on the export download.
const defaultExportFilename = "manabo_study_data.xlsx"

// Recorder receives one record per service call, for the local request
// log. Implementations must not block.
type Recorder interface {
	RecordRequest(operation string, latency time.Duration, success bool, errText string)
}

// HTTPClient talks to the Remote Learning Service over HTTP.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	recorder Recorder
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at baseURL. recorder may
// be nil.
func NewHTTPClient(baseURL string, timeout time.Duration, recorder Recorder) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		recorder: recorder,
	}
}

func (c *HTTPClient) ListGrammar(ctx context.Context, level Level, theme string) ([]GrammarPoint, error) {
	q := url.Values{}
	if level != "" {
		q.Set("level", string(level))
	}
	if theme != "" {
		q.Set("theme", theme)
	}
	path := "/grammar/list"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var points []GrammarPoint
	if err := c.get(ctx, "list grammar", path, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *HTTPClient) GrammarDetail(ctx context.Context, grammarID string) (*GrammarPoint, error) {
	var point GrammarPoint
	if err := c.get(ctx, "grammar detail", "/grammar/"+url.PathEscape(grammarID), nil, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *HTTPClient) GenerateExercises(ctx context.Context, grammarID string, typ ExerciseType) ([]Exercise, error) {
	body := map[string]any{
		"grammarId": grammarID,
		"type":      typ,
	}
	var exercises []Exercise
	if err := c.post(ctx, "generate exercises", "/exercise/generate", body, ExerciseListSchema, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, grammarID, questionID, answer string) (*Result, error) {
	body := map[string]any{
		"grammarId":  grammarID,
		"questionId": questionID,
		"userAnswer": answer,
	}
	var result Result
	if err := c.post(ctx, "submit answer", "/exercise/submit", body, ResultSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListMistakes(ctx context.Context) ([]Mistake, error) {
	var mistakes []Mistake
	if err := c.get(ctx, "list mistakes", "/mistakes", nil, &mistakes); err != nil {
		return nil, err
	}
	return mistakes, nil
}

func (c *HTTPClient) Recommendations(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.get(ctx, "recommendations", "/recommendations/grammar", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *HTTPClient) ListScenarios(ctx context.Context) ([]Scenario, error) {
	var wrapper struct {
		Scenarios []Scenario `json:"scenarios"`
	}
	if err := c.get(ctx, "list scenarios", "/scenarios", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Scenarios, nil
}

func (c *HTTPClient) SendTurn(ctx context.Context, scenarioID, message, sessionID string) (*DialogueReply, error) {
	body := map[string]any{
		"scenarioId": scenarioID,
		"message":    message,
	}
	if sessionID != "" {
		body["sessionId"] = sessionID
	}
	var reply DialogueReply
	if err := c.post(ctx, "send dialogue turn", "/dialogue/send", body, DialogueReplySchema, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *HTTPClient) CorrectMessage(ctx context.Context, message string) (*Correction, error) {
	body := map[string]any{"message": message}
	var correction Correction
	if err := c.post(ctx, "correct message", "/dialogue/correct", body, nil, &correction); err != nil {
		return nil, err
	}
	return &correction, nil
}

func (c *HTTPClient) History(ctx context.Context, sessionID string) (*DialogueHistory, error) {
	var history DialogueHistory
	if err := c.get(ctx, "dialogue history", "/dialogue/history/"+url.PathEscape(sessionID), nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *HTTPClient) WeeklyStats(ctx context.Context) (*WeeklyStats, error) {
	var stats WeeklyStats
	if err := c.get(ctx, "weekly stats", "/stats/weekly", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.get(ctx, "summary", "/stats/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *HTTPClient) ExportStudyData(ctx context.Context) (*Export, error) {
	const operation = "export study data"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats/export", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", operation, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(operation, start, err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := statusError(operation, resp)
		c.record(operation, start, err)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(operation, start, err)
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}
	c.record(operation, start, nil)

	return &Export{
		Filename: exportFilename(resp.Header.Get("Content-Disposition")),
		Data:     data,
	}, nil
}

// get performs a GET request decoding the JSON response into out.
func (c *HTTPClient) get(ctx context.Context, operation, path string, schema *Schema, out any) error {
	return c.do(ctx, operation, http.MethodGet, path, nil, schema, out)
}

// post performs a POST request with a JSON body, decoding into out.
func (c *HTTPClient) post(ctx context.Context, operation, path string, body any, schema *Schema, out any) error {
	return c.do(ctx, operation, http.MethodPost, path, body, schema, out)
}

func (c *HTTPClient) do(ctx context.Context, operation, method, path string, body any, schema *Schema, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(operation, start, err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.record(operation, start, ErrNotFound)
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		err := statusError(operation, resp)
		c.record(operation, start, err)
		return err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(operation, start, err)
		return fmt.Errorf("%s: read body: %w", operation, err)
	}

	if err := validatePayload(operation, schema, raw); err != nil {
		c.record(operation, start, err)
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		payloadErr := &InvalidPayloadError{Operation: operation, Err: err}
		c.record(operation, start, payloadErr)
		return payloadErr
	}

	c.record(operation, start, nil)
	return nil
}

func (c *HTTPClient) record(operation string, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	c.recorder.RecordRequest(operation, time.Since(start), err == nil, errText)
}

// statusError builds a StatusError with a truncated body excerpt.
func statusError(operation string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Operation: operation,
		Status:    resp.StatusCode,
		Body:      strings.TrimSpace(string(excerpt)),
	}
}

// exportFilename extracts the filename from a Content-Disposition header,
// falling back to the well-known workbook name.
func exportFilename(disposition string) string {
	if disposition == "" {
		return defaultExportFilename
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return defaultExportFilename
	}
	return params["filename"]
}
