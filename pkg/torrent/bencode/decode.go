package bencode

import (
	"bytes"
	"strconv"
)

// Decode parses data as a single bencode value. The whole input must be
// consumed: trailing bytes after one complete value are ErrMultipleValues,
// and a zero-length input is ErrEmptyInput. The returned tree does not alias
// data; the caller keeps exclusive ownership of the buffer.
func Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	d := decoder{data: data}

	v, err := d.next()
	if err != nil {
		return nil, err
	}

	if d.pos != len(d.data) {
		return nil, ErrMultipleValues
	}

	return v, nil
}

// decoder threads a single cursor through the recursive descent. No state is
// shared between Decode calls.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) next() (Value, error) {
	if d.pos >= len(d.data) {
		return nil, ErrUnexpectedEOF
	}

	switch b := d.data[d.pos]; {
	case b == 'i':
		return d.integer()
	case b == 'l':
		return d.list()
	case b == 'd':
		return d.dict()
	case b >= '0' && b <= '9':
		s, err := d.byteString()
		if err != nil {
			return nil, err
		}

		return s, nil
	default:
		return nil, &SyntaxError{Pos: d.pos, Byte: b, err: ErrUnexpectedByte}
	}
}

// readUntil consumes bytes up to and including stop, returning everything
// before it.
func (d *decoder) readUntil(stop byte) ([]byte, error) {
	i := bytes.IndexByte(d.data[d.pos:], stop)
	if i < 0 {
		return nil, ErrUnexpectedEOF
	}

	body := d.data[d.pos : d.pos+i]
	d.pos += i + 1

	return body, nil
}

// parseDigits enforces the digit rules shared by integer bodies and string
// length prefixes: digits only, no leading zeros, and the literal must fit a
// signed 64-bit value. bodyPos is the offset of body[0]; errPos is the offset
// whole-literal errors are reported at.
func parseDigits(body []byte, bodyPos, errPos int) (int64, error) {
	for i, b := range body {
		if b < '0' || b > '9' {
			return 0, &SyntaxError{Pos: bodyPos + i, Byte: b, err: ErrUnexpectedByte}
		}
	}

	if len(body) == 0 {
		return 0, &SyntaxError{Pos: errPos, err: ErrNoIntegerGiven}
	}

	if body[0] == '0' && len(body) > 1 {
		return 0, &SyntaxError{Pos: errPos, err: ErrLeadingZeros}
	}

	n, err := strconv.ParseInt(string(body), 10, 64)
	if err != nil {
		return 0, &SyntaxError{Pos: errPos, err: ErrInvalidInteger}
	}

	return n, nil
}

// integer parses i<digits>e. The magnitude may use the full signed 64-bit
// range; canonical encoding is enforced, so `i-0e`, `i00e` and friends are
// each rejected with their own error.
func (d *decoder) integer() (Value, error) {
	start := d.pos
	d.pos++ // 'i'

	bodyPos := d.pos

	body, err := d.readUntil('e')
	if err != nil {
		return nil, err
	}

	neg := false
	if len(body) > 0 && body[0] == '-' {
		neg = true
		body = body[1:]
		bodyPos++
	}

	n, err := parseDigits(body, bodyPos, start)
	if err != nil {
		return nil, err
	}

	if neg {
		if n == 0 {
			return nil, &SyntaxError{Pos: start, err: ErrNegativeZero}
		}

		n = -n
	}

	return Integer(n), nil
}

// byteString parses <length>:<raw bytes>. The raw bytes are copied out
// verbatim with no interpretation.
func (d *decoder) byteString() (ByteString, error) {
	start := d.pos

	prefix, err := d.readUntil(':')
	if err != nil {
		return nil, err
	}

	length, err := parseDigits(prefix, start, start)
	if err != nil {
		return nil, err
	}

	// compare against the remaining bytes rather than advancing the cursor,
	// so a huge length prefix cannot overflow the bounds check
	if length > int64(len(d.data)-d.pos) {
		return nil, ErrUnexpectedEOF
	}

	raw := make(ByteString, length)
	copy(raw, d.data[d.pos:])
	d.pos += int(length)

	return raw, nil
}

func (d *decoder) list() (Value, error) {
	d.pos++ // 'l'

	list := List{}

	for {
		if d.pos >= len(d.data) {
			return nil, ErrUnexpectedEOF
		}

		if d.data[d.pos] == 'e' {
			d.pos++
			return list, nil
		}

		v, err := d.next()
		if err != nil {
			return nil, err
		}

		list = append(list, v)
	}
}

func (d *decoder) dict() (Value, error) {
	start := d.pos
	d.pos++ // 'd'

	dict := NewDict()

	for {
		if d.pos >= len(d.data) {
			return nil, ErrUnexpectedEOF
		}

		if d.data[d.pos] == 'e' {
			d.pos++
			break
		}

		// keys must be well-formed byte strings, not arbitrary values
		if b := d.data[d.pos]; b < '0' || b > '9' {
			return nil, &SyntaxError{Pos: d.pos, Byte: b, err: ErrUnexpectedByte}
		}

		key, err := d.byteString()
		if err != nil {
			return nil, err
		}

		v, err := d.next()
		if err != nil {
			return nil, err
		}

		dict.append(string(key), v)
	}

	// Ordering is checked once at the close of the dictionary; encounter
	// order must already be strictly increasing, which also rules out
	// duplicate keys.
	for i := 1; i < len(dict.keys); i++ {
		if dict.keys[i] <= dict.keys[i-1] {
			return nil, &DictOrderError{Pos: start, Dict: dict}
		}
	}

	return dict, nil
}
