package mapper

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Charset names a character encoding picked from a declared content type
type Charset string

const (
	UTF8    Charset = "utf-8"
	UTF16   Charset = "utf-16"
	USASCII Charset = "us-ascii"
)

// CharsetOf picks the charset for ct by substring containment: "utf-8" first, then
// "utf-16", otherwise US-ASCII. A nil content type yields US-ASCII.
func CharsetOf(ct *ContentType) Charset {
	if ct == nil {
		return USASCII
	}
	s := strings.ToLower(ct.String())
	switch {
	case strings.Contains(s, "utf-8"):
		return UTF8
	case strings.Contains(s, "utf-16"):
		return UTF16
	default:
		return USASCII
	}
}

// DecodeText decodes data using the charset declared by ct
func DecodeText(ct *ContentType, data []byte) (string, error) {
	return CharsetOf(ct).Decode(data)
}

// Decode turns data into a string. Malformed UTF-8 becomes the replacement character.
// UTF-16 honors a byte order mark and defaults to big endian. US-ASCII maps bytes
// above 0x7F to the replacement character.
func (c Charset) Decode(data []byte) (string, error) {
	switch c {
	case UTF8:
		out, err := unicode.UTF8.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode utf-8 body: %w", err)
		}
		return string(out), nil
	case UTF16:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode utf-16 body: %w", err)
		}
		return string(out), nil
	default:
		var sb strings.Builder
		sb.Grow(len(data))
		for _, b := range data {
			if b > 0x7F {
				sb.WriteRune(utf8.RuneError)
				continue
			}
			sb.WriteByte(b)
		}
		return sb.String(), nil
	}
}

// Encode turns s into bytes. UTF-16 output starts with a big endian byte order mark.
// US-ASCII replaces runes outside the ASCII range with '?'.
func (c Charset) Encode(s string) ([]byte, error) {
	switch c {
	case UTF8:
		return []byte(s), nil
	case UTF16:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("failed to encode utf-16 body: %w", err)
		}
		return out, nil
	default:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0x7F {
				out = append(out, '?')
				continue
			}
			out = append(out, byte(r))
		}
		return out, nil
	}
}
