// Package querystring converts between maps and URL query strings with the
// encodeURIComponent and decodeURIComponent rules browsers use.
package querystring

import (
	"sort"
	"strings"
)

// Pair is one key=value entry of a query string.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered list of query string entries.
type Params []Pair

// Get returns the value of the last entry named key.
func (p Params) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return "", false
}

// Map returns the entries as a map, later duplicates winning.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, pair := range p {
		m[pair.Key] = pair.Value
	}
	return m
}

// Encode component-encodes every key and value, in order, and joins them as
// "?k=v&k2=v2". An empty list encodes to "".
func Encode(p Params) string {
	if len(p) == 0 {
		return ""
	}

	var b strings.Builder
	for i, pair := range p {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(EncodeComponent(pair.Key))
		b.WriteByte('=')
		b.WriteString(EncodeComponent(pair.Value))
	}
	return b.String()
}

// ToQueryString encodes params as "?k=v&...", keys sorted. Values are
// rendered with Stringify. An empty map encodes to "".
//
//	ToQueryString(map[string]any{"a": 1, "b": "x y"}) == "?a=1&b=x%20y"
func ToQueryString(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Params, 0, len(keys))
	for _, k := range keys {
		p = append(p, Pair{Key: k, Value: Stringify(params[k])})
	}
	return Encode(p)
}

// Parse splits a query string into its raw entries. The first "?" is removed,
// empty entries and entries with an empty key are skipped, and each entry is
// split at its first "=". Nothing is decoded.
func Parse(qs string) Params {
	qs = strings.Replace(qs, "?", "", 1)

	var p Params
	for _, entry := range strings.Split(qs, "&") {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		if key == "" {
			continue
		}
		p = append(p, Pair{Key: key, Value: value})
	}
	return p
}

// FromQueryString parses qs into a map. Values are component-decoded and
// trimmed; a value that does not decode is kept as written. Keys are used as
// written. Later duplicates win.
//
//	FromQueryString("?a=1&b=x%20y") == map[string]string{"a": "1", "b": "x y"}
func FromQueryString(qs string) map[string]string {
	m := make(map[string]string)
	for _, pair := range Parse(qs) {
		value, err := DecodeComponent(pair.Value)
		if err != nil {
			value = pair.Value
		}
		m[pair.Key] = strings.TrimSpace(value)
	}
	return m
}

// ReplaceQueryParam sets key to value in qs. The first entry named key gets
// the component-encoded value in place and later entries with that key are
// dropped; without one, the entry is appended. Other entries keep their order
// and raw text. Leading and trailing "?" and "&" are ignored and the result
// always starts with "?".
//
//	ReplaceQueryParam("?start=10&fruit=apple", "fruit", "kiwi") == "?start=10&fruit=kiwi"
func ReplaceQueryParam(qs, key, value string) string {
	qs = strings.Trim(qs, "&")
	qs = strings.Trim(qs, "?")

	replacement := key + "=" + EncodeComponent(value)

	entries := make([]string, 0, strings.Count(qs, "&")+2)
	replaced := false
	for _, entry := range strings.Split(qs, "&") {
		if entry == "" {
			continue
		}
		k, _, _ := strings.Cut(entry, "=")
		if k != key {
			entries = append(entries, entry)
			continue
		}
		if !replaced {
			entries = append(entries, replacement)
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, replacement)
	}

	return "?" + strings.Join(entries, "&")
}
