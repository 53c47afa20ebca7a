// Package api defines the splitledger RPC surface: request and response
// messages, the JSON codec they travel in, and Connect handler and client
// constructors for each service.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec encodes messages as plain JSON. It is registered under the name
// "json", so requests use Content-Type application/json.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal rejects unknown fields so misspelled keys fail loudly.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
