package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HashCursor generalizes Cursor's opaque-token pattern to paginating a set
// of render-layer hash coordinates (internal/render's "needed hashes"
// listing) instead of a cell/row range: the same encode/decode/validate
// shape, with offset counted in hashes rather than cells or rows.
//
// Fields (short names, same rationale as Cursor — minimize payload size):
//   - v:    cursor schema version
//   - sid:  sheet ID
//   - lyr:  render layer ("labels", "fills", ...)
//   - epo:  viewport epoch the hash set was computed for, so a client
//     can detect a cursor issued against a now-stale viewport
//   - off:  offset in hashes from the start of the (stably ordered) set
//   - ps:   page size in hashes
type HashCursor struct {
	V   int    `json:"v"`
	Sid string `json:"sid"`
	Lyr string `json:"lyr"`
	Epo int64  `json:"epo"`
	Off int    `json:"off"`
	Ps  int    `json:"ps"`
}

// EncodeHashCursor serializes and encodes c as URL-safe base64.
func EncodeHashCursor(c HashCursor) (string, error) {
	if err := validateHashCursor(&c); err != nil {
		return "", err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeHashCursor decodes and validates a HashCursor token.
func DecodeHashCursor(token string) (*HashCursor, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return nil, errors.New("hash cursor: empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(t)
	if err != nil {
		return nil, fmt.Errorf("hash cursor: invalid base64: %w", err)
	}
	var c HashCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("hash cursor: invalid json: %w", err)
	}
	if err := validateHashCursor(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func validateHashCursor(c *HashCursor) error {
	if c.V <= 0 {
		c.V = 1
	}
	if strings.TrimSpace(c.Sid) == "" {
		return errors.New("hash cursor: sid (sheet id) required")
	}
	if strings.TrimSpace(c.Lyr) == "" {
		return errors.New("hash cursor: lyr (layer) required")
	}
	if c.Off < 0 {
		return errors.New("hash cursor: off must be >= 0")
	}
	if c.Ps <= 0 {
		return errors.New("hash cursor: ps must be > 0")
	}
	return nil
}
