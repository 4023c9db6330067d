package proxy

import (
	"encoding/json"
	"fmt"
)

// Envelope is the unit sent to the proxy: a freshly generated request id and
// exactly one command. Answers for the request echo the same id.
type Envelope struct {
	ID      string
	Command Command
}

// NewEnvelope wraps a command with its request id.
func NewEnvelope(id string, cmd Command) Envelope {
	return Envelope{ID: id, Command: cmd}
}

type wireEnvelope struct {
	ID   string          `json:"id"`
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the envelope with the command's kind as a type tag.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Command == nil {
		return nil, fmt.Errorf("envelope %s has no command", e.ID)
	}

	data, err := json.Marshal(e.Command)
	if err != nil {
		return nil, fmt.Errorf("marshal %s command: %w", e.Command.Kind(), err)
	}

	return json.Marshal(wireEnvelope{ID: e.ID, Type: e.Command.Kind(), Data: data})
}

// UnmarshalJSON decodes an envelope, dispatching on the type tag to the
// matching command variant.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var cmd Command
	switch w.Type {
	case KindAddRoute:
		cmd = &AddRoute{}
	case KindRemoveRoute:
		cmd = &RemoveRoute{}
	case KindAddBackend:
		cmd = &AddBackend{}
	case KindRemoveBackend:
		cmd = &RemoveBackend{}
	case KindAddCertificate:
		cmd = &AddCertificate{}
	case KindRemoveCertificate:
		cmd = &RemoveCertificate{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, w.Type)
	}

	if err := json.Unmarshal(w.Data, cmd); err != nil {
		return fmt.Errorf("decode %s command: %w", w.Type, err)
	}

	e.ID = w.ID
	e.Command = deref(cmd)
	return nil
}

// deref normalizes the decoded pointer variants back to value commands so
// that round-tripped envelopes compare equal to the originals.
func deref(cmd Command) Command {
	switch c := cmd.(type) {
	case *AddRoute:
		return *c
	case *RemoveRoute:
		return *c
	case *AddBackend:
		return *c
	case *RemoveBackend:
		return *c
	case *AddCertificate:
		return *c
	case *RemoveCertificate:
		return *c
	default:
		return cmd
	}
}

// Status is the processing state reported by an Answer.
type Status string

const (
	// StatusProcessing is a non-terminal progress notification; more answers
	// for the same request will follow.
	StatusProcessing Status = "PROCESSING"

	// StatusOK is the terminal success status.
	StatusOK Status = "OK"

	// StatusError is the terminal failure status.
	StatusError Status = "ERROR"
)

// Answer is the unit received from the proxy in response to an Envelope.
type Answer struct {
	ID      string `json:"id"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}
