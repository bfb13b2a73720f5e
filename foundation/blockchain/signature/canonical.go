package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Canonical serializes the value into a deterministic JSON form. Object keys
// are sorted, members are separated by ", " and keys from values by ": ".
// Control characters, DEL and every rune outside of ASCII are escaped as
// \uXXXX. Two values with the same fields always produce the same bytes
// regardless of field order.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if err := encode(&b, generic); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// =============================================================================

func encode(b *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")

	case bool:
		if v {
			b.WriteString("true")
			return nil
		}
		b.WriteString("false")

	case json.Number:
		b.WriteString(v.String())

	case string:
		encodeString(b, v)

	case []any:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := encode(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			encodeString(b, k)
			b.WriteString(": ")
			if err := encode(b, v[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')

	default:
		return fmt.Errorf("unsupported canonical type %T", v)
	}

	return nil
}

func encodeString(b *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	escape := func(r rune) {
		b.WriteString(`\u`)
		b.WriteByte(hex[r>>12&0xf])
		b.WriteByte(hex[r>>8&0xf])
		b.WriteByte(hex[r>>4&0xf])
		b.WriteByte(hex[r&0xf])
	}

	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				escape(r)
			case r < utf8.RuneSelf:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				escape(r1)
				escape(r2)
			default:
				escape(r)
			}
		}
	}
	b.WriteByte('"')
}
