package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

type recorded struct {
	method, userAgent, contentType, body string
	header                               http.Header
}

func recordingServer(t *testing.T, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.userAgent = r.UserAgent()
		rec.contentType = r.Header.Get("Content-Type")
		rec.body = string(b)
		rec.header = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestQS(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "encode sorts keys",
			args: []string{"qs", "encode", "b=x y", "a=1"},
			want: "?a=1&b=x%20y\n",
		},
		{
			name: "replace",
			args: []string{"qs", "replace", "?start=10&fruit=apple", "fruit", "kiwi"},
			want: "?start=10&fruit=kiwi\n",
		},
		{
			name: "replace appends",
			args: []string{"qs", "replace", "", "a", "b c"},
			want: "?a=b%20c\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, code := run(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, errOut)
			}
			if out != tt.want {
				t.Fatalf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestQS_Decode(t *testing.T) {
	out, errOut, code := run(t, "qs", "decode", "?fruit=kiwi&name=a%20b")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "KEY") || !strings.HasPrefix(lines[1], "fruit") || !strings.Contains(lines[2], "a b") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestQS_EncodeRejectsBarePair(t *testing.T) {
	_, errOut, code := run(t, "qs", "encode", "novalue")
	if code != 1 || !strings.Contains(errOut, "is not KEY=VALUE") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestCatalog(t *testing.T) {
	out, errOut, code := run(t, "catalog")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{
		"Delete, Get, LoadScript, Post, Put",
		"IsRetina",
		"FromQueryString, ReplaceQueryParam, ToQueryString",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog misses %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, code := run(t, "version")
	if code != 0 || !strings.Contains(out, "userAgent:") || !strings.Contains(out, "browserkit/") {
		t.Fatalf("exit %d:\n%s", code, out)
	}
}

func TestGet_PrintsUnwrappedPayload(t *testing.T) {
	srv, rec := recordingServer(t, `{"data":{"b":2,"a":1}}`)

	out, errOut, code := run(t, "get", srv.URL+"/items", "-H", "X-Trace: abc")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if want := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"; out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if rec.method != http.MethodGet || rec.header.Get("X-Trace") != "abc" {
		t.Fatalf("request = %+v", rec)
	}
}

func TestPost_SendsData(t *testing.T) {
	tests := []struct {
		name            string
		data            string
		wantBody        string
		wantContentType string
	}{
		{name: "json", data: `{"name":"x"}`, wantBody: `{"name":"x"}`},
		{name: "text", data: "plain text", wantBody: "plain text", wantContentType: "text/plain;charset=UTF-8"},
		{name: "json string", data: `"hi"`, wantBody: `"hi"`},
		{name: "json number", data: "42", wantBody: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := recordingServer(t, `{"ok":true}`)

			out, errOut, code := run(t, "post", srv.URL, "--data", tt.data)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, errOut)
			}
			if rec.method != http.MethodPost || rec.body != tt.wantBody {
				t.Fatalf("request = %+v", rec)
			}
			if tt.wantContentType != "" && rec.contentType != tt.wantContentType {
				t.Fatalf("content type = %q", rec.contentType)
			}
			if out != "{\n  \"ok\": true\n}\n" {
				t.Fatalf("got %q", out)
			}
		})
	}
}

func TestRequest_URLParams(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	_, errOut, code := run(t, "delete", srv.URL+"/users/{id}", "--param", "id=7")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if path != "/users/7" {
		t.Fatalf("path = %q", path)
	}
}

func TestRequest_UserAgentFromConfig(t *testing.T) {
	srv, rec := recordingServer(t, `{}`)

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "browserkit.yaml")
		if err := os.WriteFile(path, []byte("http:\n  user_agent: from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, errOut, code := run(t, "--config", path, "get", srv.URL); code != 0 {
			t.Fatalf("exit %d: %s", code, errOut)
		}
		if rec.userAgent != "from-file" {
			t.Fatalf("user agent = %q", rec.userAgent)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("BROWSERKIT_HTTP_USER_AGENT", "from-env")
		if _, errOut, code := run(t, "get", srv.URL); code != 0 {
			t.Fatalf("exit %d: %s", code, errOut)
		}
		if rec.userAgent != "from-env" {
			t.Fatalf("user agent = %q", rec.userAgent)
		}
	})
}

func TestRequest_Errors(t *testing.T) {
	srv, _ := recordingServer(t, `{}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "bad header",
			args: []string{"get", srv.URL, "-H", "no-colon"},
			want: "is not name:value",
		},
		{
			name: "invalid mode",
			args: []string{"get", srv.URL, "--mode", "sideways"},
			want: "invalid options",
		},
		{
			name: "same origin blocks other origins",
			args: []string{"get", srv.URL, "--origin", "http://other.test", "--mode", "same-origin"},
			want: "cross-origin request blocked",
		},
		{
			name: "bad log format",
			args: []string{"--log-format", "xml", "get", srv.URL},
			want: "log.format",
		},
		{
			name: "missing URL",
			args: []string{"get"},
			want: "accepts 1 arg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, tt.args...)
			if code != 1 {
				t.Fatalf("exit %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Fatalf("stderr %q does not contain %q", errOut, tt.want)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Timeout.String() != "10s" || !cfg.Browser.Headless || cfg.Log.Level != "info" || cfg.Telemetry.AppName != "browserkit" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_RejectsNegativeCache(t *testing.T) {
	t.Setenv("BROWSERKIT_HTTP_CACHE_MIB", "-1")
	if _, err := loadConfig(newViper(), ""); err == nil {
		t.Fatal("expected an error")
	}
}
