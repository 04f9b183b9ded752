package sse

import (
	"encoding/json"

	"github.com/pushkit/pushkit/errors"
)

// appendFrame appends one SSE event frame to b. Every frame carries an id
// line, an optional event-name line, the JSON data line, and a terminating
// blank line.
func appendFrame(b []byte, id, name string, data []byte) []byte {
	b = append(b, "id: "...)
	b = append(b, id...)
	b = append(b, '\n')
	if name != "" {
		b = append(b, "event: "...)
		b = append(b, name...)
		b = append(b, '\n')
	}
	b = append(b, "data: "...)
	b = append(b, data...)
	b = append(b, "\n\n"...)
	return b
}

// appendComment appends an SSE comment line (ignored by clients, keeps
// intermediaries from idling out the stream). Comments carry no id.
func appendComment(b []byte, text string) []byte {
	b = append(b, ": "...)
	b = append(b, text...)
	b = append(b, "\n\n"...)
	return b
}

// marshalPayload renders a payload to its JSON wire text. A payload that
// cannot be rendered yields a serialization error for the publish caller;
// nothing is written to any connection in that case.
func marshalPayload(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Serialization(err)
	}
	return data, nil
}
