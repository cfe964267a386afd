// Package argblob models the argument blob fx hands to workspace commands:
// a single JSON object mapping each option or argument name to a record of
// the form {"user_set": <bool>, "value": <any>}.
package argblob

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMissingKey indicates the blob lacks an expected name or value field.
	ErrMissingKey = errors.New("missing key")
	// ErrNotObject indicates the blob is not a JSON object.
	ErrNotObject = errors.New("argument blob must be a JSON object")
)

// Entry is one named record in the blob.
type Entry struct {
	UserSet bool
	Value   json.RawMessage
}

// Blob is an insertion-ordered mapping of names to entries.
type Blob struct {
	names   []string
	entries map[string]Entry
}

// New returns an empty blob.
func New() *Blob {
	return &Blob{entries: make(map[string]Entry)}
}

type wireEntry struct {
	UserSet bool            `json:"user_set"`
	Value   json.RawMessage `json:"value"`
}

// Decode parses a serialized blob, preserving the object's key order.
func Decode(data []byte) (*Blob, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode argument blob: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	blob := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode argument blob: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode argument blob: unexpected token %v", tok)
		}
		var entry wireEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decode argument %q: %w", name, err)
		}
		blob.Set(name, Entry{UserSet: entry.UserSet, Value: entry.Value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode argument blob: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode argument blob: trailing data after object")
	}
	return blob, nil
}

// Set stores an entry. Re-setting an existing name keeps its position.
func (b *Blob) Set(name string, entry Entry) {
	if _, ok := b.entries[name]; !ok {
		b.names = append(b.names, name)
	}
	b.entries[name] = entry
}

// SetValue marshals v and stores it under name.
func (b *Blob) SetValue(name string, userSet bool, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	b.Set(name, Entry{UserSet: userSet, Value: raw})
	return nil
}

// Names returns the entry names in order.
func (b *Blob) Names() []string {
	return append([]string(nil), b.names...)
}

// Len reports the number of entries.
func (b *Blob) Len() int {
	return len(b.names)
}

// Lookup returns the entry for name.
func (b *Blob) Lookup(name string) (Entry, bool) {
	entry, ok := b.entries[name]
	return entry, ok
}

// Value returns the raw value field of name.
func (b *Blob) Value(name string) (json.RawMessage, error) {
	entry, ok := b.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, name)
	}
	if entry.Value == nil {
		return nil, fmt.Errorf("%w: %q has no value", ErrMissingKey, name)
	}
	return entry.Value, nil
}

// Bool decodes the value of name as a boolean.
func (b *Blob) Bool(name string) (bool, error) {
	raw, err := b.Value(name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// StringSet decodes the value of name as a set of strings. A lone string is
// treated as a one-element set.
func (b *Blob) StringSet(name string) (map[string]struct{}, error) {
	raw, err := b.Value(name)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if serr := json.Unmarshal(raw, &single); serr != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		list = []string{single}
	}
	set := make(map[string]struct{}, len(list))
	for _, item := range list {
		set[item] = struct{}{}
	}
	return set, nil
}

// MarshalJSON encodes the blob as a compact, ordered JSON object.
func (b *Blob) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		entry := b.entries[name]
		value := entry.Value
		if value == nil {
			value = json.RawMessage("null")
		}
		rec, err := json.Marshal(wireEntry{UserSet: entry.UserSet, Value: value})
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the blob's serialized form.
func (b *Blob) Encode() (string, error) {
	data, err := b.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
