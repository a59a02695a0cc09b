package bencode

import (
	"errors"
	"fmt"
)

// Every malformed input maps onto exactly one of these sentinels, so callers
// can discriminate with errors.Is. Errors that carry a byte offset or the
// offending byte wrap the sentinel in a *SyntaxError or *DictOrderError,
// reachable through errors.As.
var (
	ErrEmptyInput          = errors.New("bencode: empty input")
	ErrUnexpectedEOF       = errors.New("bencode: unexpected end of input")
	ErrUnexpectedByte      = errors.New("bencode: unexpected byte")
	ErrNoIntegerGiven      = errors.New("bencode: no integer given")
	ErrInvalidInteger      = errors.New("bencode: invalid integer")
	ErrLeadingZeros        = errors.New("bencode: integer has leading zeros")
	ErrNegativeZero        = errors.New("bencode: negative zero is not allowed")
	ErrUnorderedDictionary = errors.New("bencode: dictionary keys out of order")
	ErrMultipleValues      = errors.New("bencode: multiple top-level values")
)

// SyntaxError is a grammar violation at a byte offset of the input.
type SyntaxError struct {
	// Pos is the offset the violation is reported at. For integer and
	// length-prefix errors this is the offset of the block's first byte,
	// for ErrUnexpectedByte the offset of the byte itself.
	Pos int

	// Byte is the offending byte, set only for ErrUnexpectedByte.
	Byte byte

	err error
}

func (e *SyntaxError) Error() string {
	if errors.Is(e.err, ErrUnexpectedByte) {
		return fmt.Sprintf("%v 0x%02x at offset %d", e.err, e.Byte, e.Pos)
	}

	return fmt.Sprintf("%v at offset %d", e.err, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return e.err
}

// DictOrderError reports a dictionary whose keys were not encoded in
// canonical byte-wise lexicographic order. It carries the fully collected
// dictionary so callers can diagnose the failure without re-parsing.
type DictOrderError struct {
	// Pos is the offset of the dictionary's opening 'd'.
	Pos int

	// Dict holds every parsed entry, keys in encounter order.
	Dict *Dict
}

func (e *DictOrderError) Error() string {
	return fmt.Sprintf("%v at offset %d", ErrUnorderedDictionary, e.Pos)
}

func (e *DictOrderError) Unwrap() error {
	return ErrUnorderedDictionary
}
