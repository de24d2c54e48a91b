package api

import (
	"encoding/json"
	"fmt"
)

// Codec marshals the plain message structs of this package as JSON.
// Pass it to handlers and clients with connect.WithCodec.
type Codec struct{}

// Name implements connect.Codec. It replaces Connect's default "json" codec,
// which only accepts protobuf messages.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
