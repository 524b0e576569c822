package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	home     string
	cacheDir string
	logFile  string
	config   string
}

// setupEnv points HOME at a temp dir and writes a config that targets the
// given API server.
func setupEnv(t *testing.T, baseURL string) env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	prevNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prevNoColor })
	e := env{
		home:     home,
		cacheDir: filepath.Join(home, "cache"),
		logFile:  filepath.Join(home, "stargazer.log"),
		config:   filepath.Join(home, "config.toml"),
	}
	body := "base_url = \"" + baseURL + "\"\n" +
		"cache_dir = \"" + e.cacheDir + "\"\n" +
		"log_file = \"" + e.logFile + "\"\n" +
		"requests_per_second = 0\n"
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o600))
	return e
}

func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	code := 0
	if err := root.ExecuteContext(context.Background()); err != nil {
		code = 1
		if exit, ok := err.(exitError); ok {
			code = exit.code
		} else {
			buf.WriteString(err.Error())
		}
	}
	return buf.String(), code
}

func apodServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/planetary/apod":
			if r.URL.Query().Get("api_key") == "blocked" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID","message":"An invalid api_key was supplied."}}`))
				return
			}
			switch r.URL.Query().Get("date") {
			case "2021-02-18":
				_, _ = w.Write([]byte(`{"date":"2021-02-18","title":"Landing","media_type":"video","url":"https://youtube.example/x"}`))
			default:
				_, _ = w.Write([]byte(`{"date":"2020-07-04","title":"Comet NEOWISE","copyright":"Jane Doe","media_type":"image","url":"http://` + r.Host + `/img/a.jpg","explanation":"A comet over the hills."}`))
			}
		case "/img/a.jpg":
			_, _ = w.Write([]byte("jpegdata"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_PrintsPicture(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	out, code := execute(t, "--config", e.config, "fetch", "2020-07-04")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Comet NEOWISE")
	assert.Contains(t, out, "Image credit: Jane Doe")
	assert.Contains(t, out, "Saturday, July 4, 2020")
	assert.Contains(t, out, filepath.Join(e.cacheDir, "2020-07-04.jpg"))
	assert.Contains(t, out, "A comet over the hills.")
}

func TestFetch_JSON(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	out, code := execute(t, "--config", e.config, "fetch", "2020-07-04", "--json")
	require.Equal(t, 0, code, out)

	var payload fetchJSON
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "displayable", payload.Outcome)
	assert.Equal(t, "2020-07-04", payload.Date)
	assert.NotEmpty(t, payload.RequestID)
}

func TestFetch_NonImageExitsOne(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	out, code := execute(t, "--config", e.config, "fetch", "2021-02-18")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Sorry!")
	assert.Contains(t, out, "The response is not an image. Try another date.")
}

func TestFetch_EnvOverrideReachesAPI(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)
	t.Setenv("STARGAZER_API_KEY", "blocked")

	out, code := execute(t, "--config", e.config, "fetch", "2020-07-04")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "An invalid api_key was supplied.")
}

func TestFetch_FlagBeatsEnv(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)
	t.Setenv("STARGAZER_API_KEY", "blocked")

	out, code := execute(t, "--config", e.config, "--api-key", "fine", "fetch", "2020-07-04")
	assert.Equal(t, 0, code, out)
}

func TestFetch_InvalidDate(t *testing.T) {
	e := setupEnv(t, "http://127.0.0.1:1")

	out, code := execute(t, "--config", e.config, "fetch", "1990-01-01")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "date must be between")

	out, code = execute(t, "--config", e.config, "fetch", "July 4th")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "YYYY-MM-DD")
}

func TestCacheStatusAndClear(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	_, code := execute(t, "--config", e.config, "fetch", "2020-07-04")
	require.Equal(t, 0, code)

	out, code := execute(t, "--config", e.config, "cache", "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, e.cacheDir)
	assert.Contains(t, out, "Images:    1")
	assert.Contains(t, out, "8 B")

	out, code = execute(t, "--config", e.config, "cache", "clear")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Removed 1 cached image")

	_, err := os.Stat(filepath.Join(e.cacheDir, "2020-07-04.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLogs(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	out, code := execute(t, "--config", e.config, "logs")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No log entries")

	_, code = execute(t, "--config", e.config, "fetch", "2020-07-04")
	require.Equal(t, 0, code)

	out, code = execute(t, "--config", e.config, "logs", "-n", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "fetch completed")
}

func TestExecute_ExitCodes(t *testing.T) {
	e := setupEnv(t, apodServer(t).URL)

	assert.Equal(t, 0, Execute(context.Background(), []string{"--config", e.config, "fetch", "2020-07-04"}))
	assert.Equal(t, 1, Execute(context.Background(), []string{"--config", e.config, "fetch", "2021-02-18"}))
	assert.Equal(t, 1, Execute(context.Background(), []string{"--config", e.config, "bogus"}))
}
