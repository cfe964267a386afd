package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// RenderValue formats a JSON value the way the example command has always
// printed it: top-level strings bare, everything else in Python literal
// notation (True, None, ['a', 'b'], {'k': 1.5}).
func RenderValue(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	s, err := render(dec, true)
	if err != nil {
		return "", err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errors.New("trailing data after value")
	}
	return s, nil
}

func render(dec *json.Decoder, top bool) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			var items []string
			for dec.More() {
				item, err := render(dec, false)
				if err != nil {
					return "", err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return "", err
			}
			return "[" + strings.Join(items, ", ") + "]", nil
		case '{':
			// A repeated key keeps its first position and its last value.
			var keys []string
			values := make(map[string]string)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return "", err
				}
				key, _ := keyTok.(string)
				value, err := render(dec, false)
				if err != nil {
					return "", err
				}
				if _, seen := values[key]; !seen {
					keys = append(keys, key)
				}
				values[key] = value
			}
			if _, err := dec.Token(); err != nil {
				return "", err
			}
			items := make([]string, len(keys))
			for i, key := range keys {
				items[i] = quote(key) + ": " + values[key]
			}
			return "{" + strings.Join(items, ", ") + "}", nil
		default:
			return "", fmt.Errorf("unexpected delimiter %v", v)
		}
	case string:
		if top {
			return v, nil
		}
		return quote(v), nil
	case json.Number:
		return number(v)
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "None", nil
	default:
		return "", fmt.Errorf("unexpected token %v", tok)
	}
}

func number(n json.Number) (string, error) {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		i, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return "", fmt.Errorf("invalid integer %q", text)
		}
		return i.String(), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", err
	}
	return formatFloat(f), nil
}

// formatFloat renders the shortest round-tripping form, switching to
// exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expText)
	if exp < -4 || exp >= 16 {
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%se%s%02d", mantissa, sign, exp)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
