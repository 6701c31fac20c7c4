package models

import (
	"bytes"
	"encoding/json"
)

// SafeURLString marshals without HTML escaping, so URLs containing '&',
// '<' or '>' survive the round trip to the frontend unchanged. Defanged
// URLs from the sanitize tool rely on this.
type SafeURLString string

func (s SafeURLString) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(string(s)); err != nil {
		return nil, err
	}
	// Encoder.Encode appends a newline; strip it.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (s *SafeURLString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = SafeURLString(str)
	return nil
}
