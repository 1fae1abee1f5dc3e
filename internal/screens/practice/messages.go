package practice

import (
	"github.com/kshimizu/manabo/internal/api"
)

// exercisesMsg carries a generation response. Epoch identifies the
// session instance the request was issued for.
type exercisesMsg struct {
	Epoch     string
	Exercises []api.Exercise
	Err       error
}

// gradedMsg carries a grading response for the current question.
type gradedMsg struct {
	Epoch  string
	Result *api.Result
	Err    error
}
