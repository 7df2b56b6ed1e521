package autorag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed hosted retrieval call
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindNetwork       ErrorKind = "network"
	KindHTTPStatus    ErrorKind = "http_status"
	KindUnsuccessful  ErrorKind = "unsuccessful"
	KindMalformed     ErrorKind = "malformed_response"
)

// APIMessage is an entry of the errors or messages list returned by the API.
// Code is kept as sent, number or string.
type APIMessage struct {
	Code    json.RawMessage `json:"code,omitempty"`
	Message string          `json:"message"`
}

// UnmarshalJSON accepts any entry shape. Entries that are not objects, or
// whose message is not a string, keep their raw JSON text as the message.
func (m *APIMessage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var obj struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
	}
	if len(data) > 0 && data[0] == '{' && json.Unmarshal(data, &obj) == nil {
		m.Code = obj.Code
		if len(obj.Message) == 0 || json.Unmarshal(obj.Message, &m.Message) != nil {
			m.Message = string(obj.Message)
		}
		return nil
	}
	if json.Unmarshal(data, &m.Message) != nil {
		m.Message = string(data)
	}
	return nil
}

// decodeMessages reads an errors or messages field. A single entry in
// place of a list is kept as a one-element list.
func decodeMessages(raw json.RawMessage) []APIMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var list []APIMessage
	if raw[0] == '[' && json.Unmarshal(raw, &list) == nil {
		return list
	}
	var one APIMessage
	_ = one.UnmarshalJSON(raw)
	return []APIMessage{one}
}

// Error describes a hosted retrieval failure with enough detail to tell a
// configuration problem from a transport problem or a bad upstream payload.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Status     string
	Details    []APIMessage
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("autorag ")
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d %s)", e.StatusCode, e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
