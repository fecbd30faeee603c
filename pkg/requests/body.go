package requests

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"github.com/bytedance/sonic"
)

// _json mirrors JSON.stringify: no HTML escaping and a stable key order.
var _json = sonic.Config{
	SortMapKeys:    true,
	ValidateString: true,
}.Froze()

// coerceBody returns the text sent for a non-GET request.
func coerceBody(body any) (string, error) {
	switch t := body.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case json.RawMessage:
		return string(t), nil
	}

	b, err := _json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %T: %v", ErrUnsupportedBody, body, err)
	}
	return string(b), nil
}

// parseBody decodes a response body: JSON unless the content type names some
// other media type, in which case the body is returned as a string.
func parseBody(contentType string, body []byte) (any, error) {
	if !isJSON(contentType) {
		return string(body), nil
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var v any
	if err := _json.Unmarshal(body, &v); err != nil {
		return nil, newMalformedResponseError(contentType, body, err)
	}
	return v, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return true
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mt == "application/json" || mt == "text/json" || strings.HasSuffix(mt, "+json")
}

// unwrap returns the "data" member of an object payload, or the payload.
func unwrap(payload any) any {
	if obj, ok := payload.(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			return data
		}
	}
	return payload
}

// Decode converts an unwrapped payload into T, going through JSON. A payload
// that already is a T is returned as is.
func Decode[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}

	var v T
	b, err := _json.Marshal(payload)
	if err != nil {
		return v, fmt.Errorf("requests: decode %T: %w", payload, err)
	}
	if err := _json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("requests: decode into %T: %w", v, err)
	}
	return v, nil
}
