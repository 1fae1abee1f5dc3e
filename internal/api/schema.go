package api

// Schema is a named JSON schema used to vet service responses before
// they enter a session.
type Schema struct {
	Name       string
	Definition map[string]any
}

// ExerciseListSchema validates the payload of an exercise generation
// response. Exercises drive the whole practice session, so a malformed
// sequence is rejected up front instead of failing mid-session.
var ExerciseListSchema = &Schema{
	Name: "exercise-list",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"type": map[string]any{
					"type": "string",
					"enum": []any{"choice", "fill_in_the_blank", "sentence"},
				},
				"question": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correct_answer": map[string]any{
					"type": "string",
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
			"required": []any{"id", "type", "question", "correct_answer"},
		},
	},
}

// DialogueReplySchema validates the payload of a send-turn response.
// The session identifier must be present because the client adopts it
// verbatim and never invents its own.
var DialogueReplySchema = &Schema{
	Name: "dialogue-reply",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sessionId": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"reply": map[string]any{
				"type": "string",
			},
			"correction": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"corrected":   map[string]any{"type": "string"},
					"explanation": map[string]any{"type": "string"},
					"zh":          map[string]any{"type": "string"},
				},
				"required": []any{"corrected"},
			},
		},
		"required": []any{"sessionId", "reply"},
	},
}

// ResultSchema validates the payload of a submit-answer response.
var ResultSchema = &Schema{
	Name: "exercise-result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"result": map[string]any{
				"type": "string",
				"enum": []any{"correct", "incorrect"},
			},
			"explanation":    map[string]any{"type": "string"},
			"correct_answer": map[string]any{"type": "string"},
			"suggestion":     map[string]any{"type": "string"},
		},
		"required": []any{"result", "correct_answer"},
	},
}
