package requests

import (
	"io"
	"net/url"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	noneEscape int = iota
	queryEscape
	pathEscape
)

// isTemplate reports whether rawURL has placeholders to expand.
func isTemplate(rawURL string) bool {
	return strings.Contains(rawURL, "{")
}

// expandURL fills the {name} placeholders of rawURL from params and appends
// query. URLs without placeholders and without extra query are returned as
// given.
func expandURL(rawURL string, params map[string]string, query url.Values) (string, error) {
	if !isTemplate(rawURL) && len(query) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p, err := fasttemplate.ExecuteFuncStringWithErr(u.Path, "{", "}", func(w io.Writer, tag string) (int, error) { return tagFunc(w, tag, params, noneEscape) })
	if err != nil {
		return "", err
	}

	rawPath, err := fasttemplate.ExecuteFuncStringWithErr(u.Path, "{", "}", func(w io.Writer, tag string) (int, error) { return tagFunc(w, tag, params, pathEscape) })
	if err != nil {
		return "", err
	}

	rawQuery, err := fasttemplate.ExecuteFuncStringWithErr(u.RawQuery, "{", "}", func(w io.Writer, tag string) (int, error) { return tagFunc(w, tag, params, queryEscape) })
	if err != nil {
		return "", err
	}

	if rawQuery != "" && len(query) > 0 {
		rawQuery += "&"
	}
	rawQuery += query.Encode()

	u.Path = p
	u.RawPath = rawPath
	u.RawQuery = rawQuery
	return u.String(), nil
}

func noopEscape(s string) string { return s }

func tagFunc(w io.Writer, tag string, m map[string]string, mode int) (int, error) {
	escapeFunc := noopEscape
	switch mode {
	case queryEscape:
		escapeFunc = url.QueryEscape
	case pathEscape:
		escapeFunc = url.PathEscape
	}

	v, ok := m[tag]
	if !ok {
		return 0, ErrMissingURLParam
	}

	if v == "" && mode != queryEscape {
		return 0, ErrEmptyURLParam
	}

	return w.Write([]byte(escapeFunc(v)))
}

// urlTemplatePath returns the path of a URL template, used as the endpoint
// template for telemetry.
func urlTemplatePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
