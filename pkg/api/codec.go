// Package api defines the EcoSplit RPC messages. They are exchanged as JSON over the
// Connect protocol.
package api

import (
	"bytes"
	"encoding/json"
)

// Codec marshals messages as JSON. Register it on handlers and clients with
// connect.WithCodec; it replaces Connect's protobuf-only JSON codec.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal rejects unknown fields so that client typos surface as InvalidArgument.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(msg)
}
