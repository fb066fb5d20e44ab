package plain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrShapeMismatch is returned when a payload's discriminator does not
// match what a paste target expects. The caller cancels the paste and the
// tree stays unmodified.
var ErrShapeMismatch = errors.New("clipboard payload shape mismatch")

// Encode wraps content in a discriminated envelope and renders it as text
// for the shared clipboard slot.
func Encode(payloadType string, content any) (string, error) {
	raw, err := json.MarshalIndent(Payload{Type: payloadType, Content: content}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", payloadType, err)
	}
	return string(raw), nil
}

// EncodeBare renders content without an envelope, the legacy clipboard
// form plain rows and categories were written in.
func EncodeBare(content any) (string, error) {
	raw, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode bare payload: %w", err)
	}
	return string(raw), nil
}

// Decode parses clipboard text into a payload. JSON is tried first, then
// legacy Python-literal syntax. A bare mapping or list without a
// discriminator decodes with an empty Type; callers accept it only when
// their target shape is unambiguous.
func Decode(text string) (Payload, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Payload{}, errors.New("clipboard is empty")
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		legacy, lerr := parsePyLiteral(trimmed)
		if lerr != nil {
			return Payload{}, fmt.Errorf("clipboard text is neither JSON nor literal syntax: %w", lerr)
		}
		value = legacy
	}

	if m, ok := value.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			if content, ok := m["content"]; ok {
				return Payload{Type: t, Content: content}, nil
			}
		}
	}
	switch value.(type) {
	case map[string]any, []any:
		return Payload{Content: value}, nil
	}
	return Payload{}, fmt.Errorf("clipboard text decodes to %T, expected mapping or list", value)
}

// Expect validates the discriminator against the shape a paste target
// needs. Legacy payloads with no discriminator pass.
func (p Payload) Expect(payloadType string) error {
	if p.Type == "" || p.Type == payloadType {
		return nil
	}
	return fmt.Errorf("%w: have %q, want %q", ErrShapeMismatch, p.Type, payloadType)
}
