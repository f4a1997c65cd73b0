package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SerializationError reports a sequence column that could not be encoded or decoded.
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize string list (%s): %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// StringList is an ordered sequence of strings persisted as a compact JSON
// array, e.g. ["Paris","Rome"]. A nil list is stored as [].
type StringList []string

// Encode returns the compact JSON array form of l.
func (l StringList) Encode() (string, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]string(l)); err != nil {
		return "", &SerializationError{Op: "encode", Err: err}
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (l StringList) Value() (driver.Value, error) {
	return l.Encode()
}

func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return &SerializationError{Op: "decode", Err: fmt.Errorf("cannot scan %T into StringList", value)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return &SerializationError{Op: "decode", Err: err}
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
