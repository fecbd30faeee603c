package telemetry

import (
	"fmt"
	"strconv"
	"strings"
)

var _patternReplacer = strings.NewReplacer(
	"{", "_",
	"}", "",
)

// SanitizeMetricTagValue turns an endpoint template into a tag value: the
// trailing "/" is trimmed, "{" becomes "_" and "}" is dropped.
func SanitizeMetricTagValue(value string) string {
	if value == "" {
		return ""
	}

	value = strings.TrimRight(value, "/")
	if value == "" {
		return "/"
	}

	return _patternReplacer.Replace(value)
}

// StatusClass returns the status_class tag value of a response: "2xx",
// "4xx" and so on, or "error" when the request failed without a response.
func StatusClass(statusCode int, err error) string {
	if err != nil || statusCode < 100 {
		return "error"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}

// Tags builds "name:value" tags from alternating names and values. It panics
// on an odd number of arguments or on an unsupported value type.
func Tags(nameValue ...any) []string {
	if len(nameValue)%2 != 0 {
		panic("number of arguments must be even")
	}

	tags := make([]string, 0, len(nameValue)/2)
	for i := 0; i+1 < len(nameValue); i += 2 {
		tags = append(tags, fmt.Sprintf("%s:%s", nameValue[i].(string), stringerize(nameValue[i+1])))
	}

	return tags
}

func stringerize(value any) string {
	switch t := value.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return fmt.Sprintf("%v", value)
	default:
		panic(fmt.Sprintf("type %T is unsupported", value))
	}
}
