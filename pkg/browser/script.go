package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/chromedp/chromedp"
)

var (
	// ErrEmptySource is returned by LoadScript for an empty src.
	ErrEmptySource = errors.New("browser: empty script source")

	// ErrScriptAborted is returned when the script fails to load.
	ErrScriptAborted = errors.New("browser: script load aborted")
)

// _loadScriptJS resolves to "loaded" or to the name of the failing event.
// attrs are assigned as element properties when the element has one by that
// name and as attributes otherwise.
const _loadScriptJS = `(function (src, before, attrs) {
	return new Promise(function (resolve) {
		var script = document.createElement("script");
		script.async = true;
		script.defer = true;
		Object.keys(attrs).forEach(function (key) {
			if (key in script) {
				script[key] = attrs[key];
			} else {
				script.setAttribute(key, attrs[key]);
			}
		});
		var settle = function (result) {
			script.onload = script.onreadystatechange = script.onerror = script.onabort = null;
			resolve(result);
		};
		script.onload = function () { settle("loaded"); };
		script.onreadystatechange = function () {
			if (/loaded|complete/.test(script.readyState)) { settle("loaded"); }
		};
		script.onerror = function () { settle("error"); };
		script.onabort = function () { settle("abort"); };
		script.src = src;
		var ref = before ? document.querySelector(before) : null;
		if (ref && ref.parentNode) {
			ref.parentNode.insertBefore(script, ref);
		} else {
			document.body.append(script);
		}
	});
})(%s, %s, %s)`

func loadScriptExpression(src, before string, attrs map[string]string) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}

	args := make([]any, 0, 3)
	for _, v := range []any{src, before, attrs} {
		b, err := sonic.Marshal(v)
		if err != nil {
			return "", err
		}
		args = append(args, string(b))
	}
	return fmt.Sprintf(_loadScriptJS, args...), nil
}

// LoadScript adds a <script src=src> to the page and waits for it to load.
// The element is async and deferred unless attrs say otherwise. It is
// inserted before the first element matching the CSS selector before, or
// appended to the body when before is empty or matches nothing.
func (s *Session) LoadScript(ctx context.Context, src, before string, attrs map[string]string) error {
	if src == "" {
		return ErrEmptySource
	}

	expr, err := loadScriptExpression(src, before, attrs)
	if err != nil {
		return err
	}

	var result string
	if err := s.run(ctx, chromedp.Evaluate(expr, &result, awaitPromise)); err != nil {
		return fmt.Errorf("browser: load script %s: %w", src, err)
	}

	if result != "loaded" {
		return fmt.Errorf("%w: %s (%s)", ErrScriptAborted, src, result)
	}
	return nil
}

func matchMediaExpression(query string) (string, error) {
	b, err := sonic.Marshal(query)
	if err != nil {
		return "", err
	}
	return "window.matchMedia(" + string(b) + ").matches", nil
}
