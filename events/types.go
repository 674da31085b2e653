package events

import (
	"errors"
	"fmt"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/transcript"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	delimJSON    = []byte(`{"type":"delim"}`)
	requestJSON  = []byte(`{"type":"request"}`)
	chunkJSON    = []byte(`{"type":"chunk"}`)
	responseJSON = []byte(`{"type":"response"}`)
	artifactJSON = []byte(`{"type":"artifact"}`)
	errorJSON    = []byte(`{"type":"error"}`)
)

// Event is the closed set of things a conversation publishes while a call
// runs. RunID identifies the conversation, TurnID one request/reply exchange.
type Event interface {
	event()
}

// ToJSON serializes an event with its type marker, in the form FromJSON
// accepts.
func ToJSON(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event by its type marker.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	switch tpe := gjson.GetBytes(data, "type").String(); tpe {
	case "delim":
		var d Delim
		if err := d.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return d, nil
	case "request":
		var r Request
		if err := r.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return r, nil
	case "chunk":
		var c Chunk
		if err := c.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return c, nil
	case "response":
		var r Response
		if err := r.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return r, nil
	case "artifact":
		var a Artifact
		if err := a.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return a, nil
	case "error":
		var e Error
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", tpe)
	}
}

// Delim marks a stream boundary: "start" before the first chunk of a turn,
// "end" after the last.
type Delim struct {
	RunID  uuid.UUID `json:"run_id"`
	TurnID uuid.UUID `json:"turn_id"`
	Delim  string    `json:"delim"`
}

func (Delim) event() {}

// MarshalJSON implements custom JSON marshaling for Delim
func (d Delim) MarshalJSON() ([]byte, error) {
	result := delimJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", d.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", d.TurnID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "delim", d.Delim)
	return result, err
}

// UnmarshalJSON implements custom JSON unmarshaling for Delim
func (d *Delim) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "delim" {
		return fmt.Errorf("missing or invalid type, expected 'delim'")
	}

	if err := unmarshalIDs(data, &d.RunID, &d.TurnID); err != nil {
		return err
	}

	delim := gjson.GetBytes(data, "delim")
	if !delim.Exists() {
		return fmt.Errorf("missing required field 'delim'")
	}
	d.Delim = delim.String()

	return nil
}

// Request is published when a user message is committed and the upstream
// call starts.
type Request struct {
	RunID     uuid.UUID        `json:"run_id"`
	TurnID    uuid.UUID        `json:"turn_id"`
	Message   messages.Message `json:"message"`
	Sender    string           `json:"sender,omitempty"`
	Timestamp strfmt.DateTime  `json:"timestamp,omitempty"`
	Meta      gjson.Result     `json:"meta,omitempty"`
}

func (Request) event() {}

// MarshalJSON implements custom JSON marshaling for Request
func (r Request) MarshalJSON() ([]byte, error) {
	result := requestJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", r.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", r.TurnID.String())
	if err != nil {
		return nil, err
	}

	messageBytes, err := json.Marshal(r.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "message", messageBytes)
	if err != nil {
		return nil, err
	}

	return marshalEnvelope(result, r.Sender, r.Timestamp, r.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Request
func (r *Request) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "request" {
		return fmt.Errorf("missing or invalid type, expected 'request'")
	}

	if err := unmarshalIDs(data, &r.RunID, &r.TurnID); err != nil {
		return err
	}

	message := gjson.GetBytes(data, "message")
	if !message.Exists() {
		return fmt.Errorf("missing required field 'message'")
	}
	if err := json.Unmarshal([]byte(message.Raw), &r.Message); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	return unmarshalEnvelope(data, &r.Sender, &r.Timestamp, &r.Meta)
}

// Chunk is one incremental fragment of a streamed reply.
type Chunk struct {
	RunID     uuid.UUID            `json:"run_id"`
	TurnID    uuid.UUID            `json:"turn_id"`
	Chunk     provider.StreamChunk `json:"chunk"`
	Sender    string               `json:"sender,omitempty"`
	Timestamp strfmt.DateTime      `json:"timestamp,omitempty"`
	Meta      gjson.Result         `json:"meta,omitempty"`
}

func (Chunk) event() {}

// MarshalJSON implements custom JSON marshaling for Chunk
func (c Chunk) MarshalJSON() ([]byte, error) {
	result := chunkJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", c.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", c.TurnID.String())
	if err != nil {
		return nil, err
	}

	chunkBytes, err := json.Marshal(c.Chunk)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chunk: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "chunk", chunkBytes)
	if err != nil {
		return nil, err
	}

	return marshalEnvelope(result, c.Sender, c.Timestamp, c.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk
func (c *Chunk) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "chunk" {
		return fmt.Errorf("missing or invalid type, expected 'chunk'")
	}

	if err := unmarshalIDs(data, &c.RunID, &c.TurnID); err != nil {
		return err
	}

	chunk := gjson.GetBytes(data, "chunk")
	if !chunk.Exists() {
		return fmt.Errorf("missing required field 'chunk'")
	}
	if err := json.Unmarshal([]byte(chunk.Raw), &c.Chunk); err != nil {
		return fmt.Errorf("invalid chunk: %w", err)
	}

	return unmarshalEnvelope(data, &c.Sender, &c.Timestamp, &c.Meta)
}

// Response is published once a turn resolves with a complete reply, in both
// buffered and streamed modes.
type Response struct {
	RunID     uuid.UUID           `json:"run_id"`
	TurnID    uuid.UUID           `json:"turn_id"`
	Response  provider.AIResponse `json:"response"`
	Sender    string              `json:"sender,omitempty"`
	Timestamp strfmt.DateTime     `json:"timestamp,omitempty"`
	Meta      gjson.Result        `json:"meta,omitempty"`
}

func (Response) event() {}

// MarshalJSON implements custom JSON marshaling for Response
func (r Response) MarshalJSON() ([]byte, error) {
	result := responseJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", r.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", r.TurnID.String())
	if err != nil {
		return nil, err
	}

	responseBytes, err := json.Marshal(r.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "response", responseBytes)
	if err != nil {
		return nil, err
	}

	return marshalEnvelope(result, r.Sender, r.Timestamp, r.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Response
func (r *Response) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "response" {
		return fmt.Errorf("missing or invalid type, expected 'response'")
	}

	if err := unmarshalIDs(data, &r.RunID, &r.TurnID); err != nil {
		return err
	}

	response := gjson.GetBytes(data, "response")
	if !response.Exists() {
		return fmt.Errorf("missing required field 'response'")
	}
	if err := json.Unmarshal([]byte(response.Raw), &r.Response); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}

	return unmarshalEnvelope(data, &r.Sender, &r.Timestamp, &r.Meta)
}

// Artifact is published whenever artifact detection on the accumulating
// reply text finds (or re-finds) a complete fenced block, so consumers can
// render a live preview mid-stream.
type Artifact struct {
	RunID     uuid.UUID           `json:"run_id"`
	TurnID    uuid.UUID           `json:"turn_id"`
	Artifact  transcript.Artifact `json:"artifact"`
	Sender    string              `json:"sender,omitempty"`
	Timestamp strfmt.DateTime     `json:"timestamp,omitempty"`
	Meta      gjson.Result        `json:"meta,omitempty"`
}

func (Artifact) event() {}

// MarshalJSON implements custom JSON marshaling for Artifact
func (a Artifact) MarshalJSON() ([]byte, error) {
	result := artifactJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", a.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", a.TurnID.String())
	if err != nil {
		return nil, err
	}

	artifactBytes, err := json.Marshal(a.Artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "artifact", artifactBytes)
	if err != nil {
		return nil, err
	}

	return marshalEnvelope(result, a.Sender, a.Timestamp, a.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Artifact
func (a *Artifact) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "artifact" {
		return fmt.Errorf("missing or invalid type, expected 'artifact'")
	}

	if err := unmarshalIDs(data, &a.RunID, &a.TurnID); err != nil {
		return err
	}

	artifact := gjson.GetBytes(data, "artifact")
	if !artifact.Exists() {
		return fmt.Errorf("missing required field 'artifact'")
	}
	if err := json.Unmarshal([]byte(artifact.Raw), &a.Artifact); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}

	return unmarshalEnvelope(data, &a.Sender, &a.Timestamp, &a.Meta)
}

// Error terminates a turn's event sequence when the call or the stream
// fails, so consumers can tell "model finished" from "connection broke".
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Err       error           `json:"error"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Error) event() {}

// MarshalJSON implements custom JSON marshaling for Error
func (e Error) MarshalJSON() ([]byte, error) {
	result := errorJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", e.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "turn_id", e.TurnID.String())
	if err != nil {
		return nil, err
	}

	if e.Err != nil {
		result, err = sjson.SetBytes(result, "error", e.Err.Error())
		if err != nil {
			return nil, err
		}
	}

	return marshalEnvelope(result, e.Sender, e.Timestamp, e.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Error
func (e *Error) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "error" {
		return fmt.Errorf("missing or invalid type, expected 'error'")
	}

	if err := unmarshalIDs(data, &e.RunID, &e.TurnID); err != nil {
		return err
	}

	errMsg := gjson.GetBytes(data, "error")
	if !errMsg.Exists() {
		return errors.New("missing required field 'error'")
	}
	e.Err = errors.New(errMsg.String())

	return unmarshalEnvelope(data, &e.Sender, &e.Timestamp, &e.Meta)
}

func (e Error) Error() string {
	errStr := "<nil>"
	if e.Err != nil {
		errStr = e.Err.Error()
	}
	return fmt.Sprintf("%s run_id=%s turn_id=%s", errStr, e.RunID, e.TurnID)
}

func unmarshalIDs(data []byte, runID, turnID *uuid.UUID) error {
	run := gjson.GetBytes(data, "run_id")
	if !run.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := runID.UnmarshalText([]byte(run.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	turn := gjson.GetBytes(data, "turn_id")
	if !turn.Exists() {
		return fmt.Errorf("missing required field 'turn_id'")
	}
	if err := turnID.UnmarshalText([]byte(turn.String())); err != nil {
		return fmt.Errorf("invalid turn_id: %w", err)
	}
	return nil
}

func marshalEnvelope(result []byte, sender string, timestamp strfmt.DateTime, meta gjson.Result) ([]byte, error) {
	var err error
	if sender != "" {
		result, err = sjson.SetBytes(result, "sender", sender)
		if err != nil {
			return nil, err
		}
	}

	if !timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	if meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func unmarshalEnvelope(data []byte, sender *string, timestamp *strfmt.DateTime, meta *gjson.Result) error {
	if s := gjson.GetBytes(data, "sender"); s.Exists() {
		*sender = s.String()
	}

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		if err := timestamp.UnmarshalText([]byte(ts.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	if m := gjson.GetBytes(data, "meta"); m.Exists() {
		*meta = m
	}

	return nil
}
