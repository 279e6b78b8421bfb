package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:    "single header with single quotes",
			curlCmd: `curl -H 'Referer: https://music.163.com/' https://music.163.com/api`,
			wantHeaders: map[string]string{
				"Referer": "https://music.163.com/",
			},
		},
		{
			name:    "single header with double quotes",
			curlCmd: `curl -H "Referer: https://music.163.com/" https://music.163.com/api`,
			wantHeaders: map[string]string{
				"Referer": "https://music.163.com/",
			},
		},
		{
			name:        "cookie in -b flag",
			curlCmd:     `curl -b 'MUSIC_U=abc123' https://music.163.com/api`,
			wantHeaders: map[string]string{},
			wantCookie:  "MUSIC_U=abc123",
		},
		{
			name:    "cookie header is excluded from regular headers",
			curlCmd: `curl -H 'Cookie: MUSIC_U=abc123' -H 'Accept: */*' https://music.163.com/api`,
			wantHeaders: map[string]string{
				"Accept": "*/*",
			},
			wantCookie: "MUSIC_U=abc123",
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' https://music.163.com/api`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl 'https://music.163.com/weapi/v6/playlist/detail' \
  -H 'accept: */*' \
  -H 'cookie: NMTID=xyz; MUSIC_U=token; __csrf=c1' \
  --data-raw 'params=...'`,
			wantHeaders: map[string]string{
				"accept": "*/*",
			},
			wantCookie: "NMTID=xyz; MUSIC_U=token; __csrf=c1",
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl https://music.163.com/api`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand([]byte(tc.curlCmd))

			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}

			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("ParseCurlCommand() headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}

			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("ParseCurlCommand() header[%s] = %v, want %v", key, got, want)
				}
			}

			if result.Cookie != tc.wantCookie {
				t.Errorf("ParseCurlCommand() cookie = %v, want %v", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")

		curlCmd := `curl -H 'Accept: */*' -b 'MUSIC_U=abc; __csrf=xyz' https://music.163.com/api`
		if err := os.WriteFile(curlFile, []byte(curlCmd), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}

		if result.CookieValue(SessionCookieName) != "abc" {
			t.Errorf("expected MUSIC_U=abc, got %q", result.CookieValue(SessionCookieName))
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})
}

func TestCurlHeaders_SessionCookie(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		want    string
		wantErr bool
	}{
		{name: "session and csrf", cookie: "NMTID=1; MUSIC_U=tok; __csrf=c", want: "MUSIC_U=tok; __csrf=c"},
		{name: "session only", cookie: "MUSIC_U=tok", want: "MUSIC_U=tok"},
		{name: "missing session", cookie: "NMTID=1", wantErr: true},
		{name: "empty", cookie: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &CurlHeaders{Cookie: tt.cookie}
			got, err := h.SessionCookie()
			if (err != nil) != tt.wantErr {
				t.Fatalf("SessionCookie() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
			if got != tt.want {
				t.Errorf("SessionCookie() = %q, want %q", got, tt.want)
			}
		})
	}
}
