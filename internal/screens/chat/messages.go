package chat

import (
	"github.com/kshimizu/manabo/internal/api"
)

// replyMsg carries the service response to one sent turn.
type replyMsg struct {
	Epoch string
	Reply *api.DialogueReply
	Err   error
}

// correctionMsg carries a standalone correction requested for the most
// recent user turn.
type correctionMsg struct {
	Epoch      string
	TurnIndex  int
	Correction *api.Correction
	Err        error
}

// historyMsg carries a resumed transcript.
type historyMsg struct {
	Epoch   string
	History *api.DialogueHistory
	Err     error
}
