// Package bencode decodes the bencode format defined by BEP0003 into a typed
// value tree. Decoding is strict: inputs that violate the grammar or the
// canonical dictionary ordering are rejected with a positioned error rather
// than repaired.
package bencode

import "sort"

// Value is a single decoded bencode element: Integer, ByteString, List or
// *Dict. A successful Decode returns exactly one Value.
type Value interface {
	value()
}

// Integer is a signed 64-bit bencode integer, from blocks like `i42e`.
type Integer int64

// ByteString is a raw byte sequence, from blocks like `4:spam`. It is not
// guaranteed to be valid UTF-8 and may be empty.
type ByteString []byte

// List is an ordered sequence of values, from blocks like `l4:spami1ee`.
type List []Value

// Dict is an associative container keyed by raw bytes, from blocks like
// `d3:keyi1ee`. Its iteration order is always the byte-wise lexicographic
// order of the keys; Decode rejects inputs whose keys arrive in any other
// order, and Set keeps the invariant for dictionaries built by hand.
type Dict struct {
	keys   []string
	values map[string]Value
}

func (Integer) value()    {}
func (ByteString) value() {}
func (List) value()       {}
func (*Dict) value()      {}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

// Set inserts or replaces the value for key, keeping keys sorted.
func (d *Dict) Set(key string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}

	if _, ok := d.values[key]; !ok {
		i := sort.SearchStrings(d.keys, key)
		d.keys = append(d.keys, "")
		copy(d.keys[i+1:], d.keys[i:])
		d.keys[i] = key
	}

	d.values[key] = v
}

// Get returns the value stored under key, if any.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Keys returns the keys in iteration order. The returned slice is a copy.
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)

	return keys
}

// append records an entry in encounter order without sorting. The decoder
// uses it while a dictionary is still open; ordering is verified once the
// closing 'e' is seen.
func (d *Dict) append(key string, v Value) {
	d.keys = append(d.keys, key)
	d.values[key] = v
}
