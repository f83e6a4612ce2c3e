// Package payload turns a link payload into a URL-safe token and back.
//
// A token is the payload's JSON encoding, UTF-8, in base64 with the URL
// alphabet ('-' and '_' instead of '+' and '/') and no padding. Tokens have no
// length cap of their own; browsers start truncating URLs somewhere past 2000
// bytes, so callers generating very long quizzes should check EncodedLen.
package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/SAP-F-2025/valentine-service/internal/models"
)

// ErrInvalidPayload is returned for any token Encode could not have produced.
var ErrInvalidPayload = errors.New("invalid payload")

// RecommendedMaxURLLength is the URL length past which some browsers and chat
// apps truncate links.
const RecommendedMaxURLLength = 2000

var encoding = base64.RawURLEncoding.Strict()

// Encode serializes p into a token. The output is deterministic for a given payload.
func Encode(p models.Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return encoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Every failure wraps ErrInvalidPayload.
func Decode(token string) (models.Payload, error) {
	var p models.Payload
	if token == "" {
		return p, fmt.Errorf("%w: empty token", ErrInvalidPayload)
	}

	for i := 0; i < len(token); i++ {
		if !isTokenByte(token[i]) {
			return p, fmt.Errorf("%w: unexpected byte %q at %d", ErrInvalidPayload, token[i], i)
		}
	}

	raw, err := encoding.DecodeString(token)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !utf8.Valid(raw) {
		return p, fmt.Errorf("%w: not UTF-8", ErrInvalidPayload)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return p, fmt.Errorf("%w: not a JSON object", ErrInvalidPayload)
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return models.Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}

// EncodedLen returns the token length Encode would produce for p.
func EncodedLen(p models.Payload) (int, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}
	return encoding.EncodedLen(len(raw)), nil
}

func isTokenByte(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '_'
}
