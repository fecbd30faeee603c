package querystring

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMalformedEscape is returned by DecodeComponent for a bad %XX sequence
// or escapes that do not form UTF-8.
var ErrMalformedEscape = errors.New("querystring: malformed percent escape")

const upperhex = "0123456789ABCDEF"

// unreserved reports whether c is left alone by encodeURIComponent.
func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EncodeComponent escapes s the way encodeURIComponent does: every byte of
// the UTF-8 encoding except A-Z a-z 0-9 - _ . ! ~ * ' ( ) becomes %XX.
// Unlike url.QueryEscape, a space is %20 and ! ' ( ) * are kept.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// DecodeComponent reverses EncodeComponent the way decodeURIComponent does:
// every %XX is decoded and "+" is left as is.
func DecodeComponent(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			buf = append(buf, s[i])
			continue
		}
		if i+2 >= len(s) || !ishex(s[i+1]) || !ishex(s[i+2]) {
			return "", ErrMalformedEscape
		}
		buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
		i += 2
	}

	if !utf8.Valid(buf) {
		return "", ErrMalformedEscape
	}
	return string(buf), nil
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
