package buffer

import (
	"bytes"
	"fmt"
	"io"
)

// Payload is a fully materialized copy of an uploaded stream. It is owned by
// a single in-flight request and supports independent, repeatable reads so
// the same bytes can be persisted and processed without stream-exhaustion
// bugs.
type Payload struct {
	Name        string
	ContentType string
	data        []byte
}

// ReadAll drains r into memory exactly once. A source error mid-copy is
// returned wrapped; no partial payload is ever handed out.
func ReadAll(r io.Reader, name, contentType string) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer upload %s: %w", name, err)
	}
	return &Payload{Name: name, ContentType: contentType, data: data}, nil
}

// FromBytes wraps an already materialized byte slice.
func FromBytes(data []byte, name, contentType string) *Payload {
	return &Payload{Name: name, ContentType: contentType, data: data}
}

// Bytes returns the buffered content. Callers must not mutate it.
func (p *Payload) Bytes() []byte {
	return p.data
}

// Reader returns a fresh reader positioned at the start of the content.
func (p *Payload) Reader() io.Reader {
	return bytes.NewReader(p.data)
}

// Size reports the buffered byte length, independent of any caller-supplied
// size hint.
func (p *Payload) Size() int64 {
	return int64(len(p.data))
}
