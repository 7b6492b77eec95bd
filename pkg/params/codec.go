package params

import (
	"encoding/base64"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Marshal encodes a ParameterSet with CBOR for transport.
func Marshal(p ParameterSet) ([]byte, error) {
	data, err := cbor.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameter set: %w", err)
	}

	return data, nil
}

// Unmarshal decodes a CBOR-encoded ParameterSet and validates its layout.
func Unmarshal(data []byte) (ParameterSet, error) {
	var p ParameterSet
	if err := cbor.Unmarshal(data, &p); err != nil {
		return ParameterSet{}, fmt.Errorf("failed to decode parameter set: %w", err)
	}
	for i, t := range p.Tensors {
		if t.Numel() != len(t.Data) {
			return ParameterSet{}, fmt.Errorf("tensor %d: %w", i, ErrShapeMismatch)
		}
	}

	return p, nil
}

// EncodeString packs a ParameterSet into a base64 string so it can travel
// inside the broker's JSON payloads.
func EncodeString(p ParameterSet) (string, error) {
	data, err := Marshal(p)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeString reverses EncodeString.
func DecodeString(s string) (ParameterSet, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ParameterSet{}, fmt.Errorf("failed to decode parameter payload: %w", err)
	}

	return Unmarshal(data)
}
