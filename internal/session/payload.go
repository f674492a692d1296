package session

import (
	"github.com/aleph-cli/aleph/internal/conversation"
	"github.com/aleph-cli/aleph/internal/models"
	"github.com/aleph-cli/aleph/internal/modes"
)

// Kind tells the presentation layer how to render a Payload.
type Kind string

const (
	KindNone    Kind = "none"
	KindReply   Kind = "reply"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
	KindHistory Kind = "history"
	KindModels  Kind = "models"
	KindModes   Kind = "modes"
	KindHelp    Kind = "help"
	KindStatus  Kind = "status"
)

// Payload is the result of handling one line of input. Only the fields
// relevant to Kind are set.
type Payload struct {
	Kind Kind
	Text string // reply markdown, info or error message
	Err  error  // KindError

	Notice   string              // KindReply: context shown before the reply
	Turns    []conversation.Turn // KindHistory
	Models   []ModelChoice       // KindModels
	Mode     modes.Mode          // KindModes: the current mode
	Modes    []modes.Mode        // KindModes
	Commands []CommandHelp       // KindHelp
	Status   Status              // KindStatus

	Quit bool
}

// ModelChoice is a catalog entry marked when it is the current model.
type ModelChoice struct {
	models.Entry
	Current bool
}

// Status is a snapshot of the session state.
type Status struct {
	SessionID string
	Agent     string
	Mode      string
	Model     string
	Turns     int
}

func info(text string) Payload {
	return Payload{Kind: KindInfo, Text: text}
}

func failure(err error) Payload {
	return Payload{Kind: KindError, Text: err.Error(), Err: err}
}
