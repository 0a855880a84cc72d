package stats

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// LanguageCount is the number of counted repositories whose primary language is Name.
type LanguageCount struct {
	Name  string
	Count int
}

// Languages is an ordered language tally. It encodes as a JSON or CBOR map whose keys keep
// slice order, which Go maps cannot express.
type Languages []LanguageCount

// Total is the sum of all counts.
func (l Languages) Total() int {
	total := 0
	for _, lc := range l {
		total += lc.Count
	}
	return total
}

// Get returns the count for name and whether it is present.
func (l Languages) Get(name string) (int, bool) {
	for _, lc := range l {
		if lc.Name == name {
			return lc.Count, true
		}
	}
	return 0, false
}

// MarshalJSON encodes l as an object in slice order. A nil tally encodes as {}.
func (l Languages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lc := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", lc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order.
func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("languages: expected JSON object")
	}
	out := Languages{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("languages: unexpected key %v", tok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("languages: count for %q: %w", name, err)
		}
		out = append(out, LanguageCount{Name: name, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalCBOR encodes l as a definite-length CBOR map in slice order.
func (l Languages) MarshalCBOR() ([]byte, error) {
	var buf bytes.Buffer
	writeMapHeader(&buf, uint64(len(l)))
	for _, lc := range l {
		key, err := cbor.Marshal(lc.Name)
		if err != nil {
			return nil, err
		}
		value, err := cbor.Marshal(lc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.Write(value)
	}
	return buf.Bytes(), nil
}

// writeMapHeader writes the head of a CBOR major type 5 item.
func writeMapHeader(buf *bytes.Buffer, n uint64) {
	const majorMap = 0xa0
	switch {
	case n < 24:
		buf.WriteByte(majorMap | byte(n))
	case n <= math.MaxUint8:
		buf.WriteByte(majorMap | 24)
		buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		buf.WriteByte(majorMap | 25)
		_ = binary.Write(buf, binary.BigEndian, uint16(n))
	case n <= math.MaxUint32:
		buf.WriteByte(majorMap | 26)
		_ = binary.Write(buf, binary.BigEndian, uint32(n))
	default:
		buf.WriteByte(majorMap | 27)
		_ = binary.Write(buf, binary.BigEndian, n)
	}
}
