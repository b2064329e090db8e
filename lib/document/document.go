package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Document Type
// --------------------------------------------------------------------------

// Document is an ordered mapping from string keys to scalar values (bool,
// int64, string) or nested sub-documents. Iteration and JSON serialization
// follow insertion order, never a sorted order: consumers of statistics
// snapshots rely on groups appearing in first-seen order.
//
// Thread-safety: a Document is not synchronized; it is built and consumed on
// a single goroutine.
type Document struct {
	keys   []string
	values map[string]any
}

// New creates an empty document.
func New() *Document {
	return &Document{values: make(map[string]any)}
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.keys)
}

// Keys returns the document's keys in insertion order. The returned slice is
// shared and must not be modified.
func (d *Document) Keys() []string {
	return d.keys
}

// Has reports whether a key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the raw value for a key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Bool returns the boolean value stored under key.
func (d *Document) Bool(key string) (bool, bool) {
	v, ok := d.values[key].(bool)
	return v, ok
}

// Int64 returns the integer value stored under key.
func (d *Document) Int64(key string) (int64, bool) {
	v, ok := d.values[key].(int64)
	return v, ok
}

// String returns the string value stored under key.
func (d *Document) String(key string) (string, bool) {
	v, ok := d.values[key].(string)
	return v, ok
}

// Sub returns the nested document stored under key, or nil.
func (d *Document) Sub(key string) *Document {
	v, _ := d.values[key].(*Document)
	return v
}

// set inserts or replaces a value. Replacing keeps the original position
// (last write wins on the value, not on the order).
func (d *Document) set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// MarshalJSON serializes the document in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) GoString() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("Document(marshal error: %v)", err)
	}
	return string(b)
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// Builder materializes a Document incrementally. All appends are last-write-
// wins; uniqueness policies (e.g. rejecting duplicate metadata keys) are the
// caller's responsibility, checked with Has before appending.
type Builder struct {
	doc *Document
}

// NewBuilder creates a builder over a fresh document.
func NewBuilder() *Builder {
	return &Builder{doc: New()}
}

// Has reports whether the document under construction already has a key.
func (b *Builder) Has(key string) bool {
	return b.doc.Has(key)
}

// AppendBool adds a boolean field.
func (b *Builder) AppendBool(key string, value bool) *Builder {
	b.doc.set(key, value)
	return b
}

// AppendInt64 adds an integer field.
func (b *Builder) AppendInt64(key string, value int64) *Builder {
	b.doc.set(key, value)
	return b
}

// AppendString adds a string field.
func (b *Builder) AppendString(key string, value string) *Builder {
	b.doc.set(key, value)
	return b
}

// AppendDocument adds a nested document field.
func (b *Builder) AppendDocument(key string, value *Document) *Builder {
	b.doc.set(key, value)
	return b
}

// Doc returns the built document. The builder must not be used afterwards.
func (b *Builder) Doc() *Document {
	return b.doc
}
