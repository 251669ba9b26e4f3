package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokay-ml/tokay/internal/logger"
	"github.com/tokay-ml/tokay/internal/tokenizer"
)

const testBundle = `{
	"model": {
		"type": "BPE",
		"vocab": {"h": 0, "i": 1, "hi": 2},
		"merges": ["h i"]
	},
	"added_tokens": [
		{"id": 5, "content": "<|end|>", "special": true}
	]
}`

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	tok := tokenizer.New()
	require.True(t, tok.LoadFromJSON([]byte(testBundle)))
	tok.SetChatTemplate(`{%- for m in messages -%}{{m.role}}:{{m.content}};{% endfor -%}`)

	e := echo.New()
	NewServer(tok, logger.JSON(testWriter{t}, slog.LevelError)).Register(e)
	return e
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestEncodeEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodPost, "/v1/encode", `{"text":"hi<|end|>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{float64(2), float64(5)}, out["ids"])
	assert.Equal(t, float64(2), out["count"])
	assert.NotEmpty(t, out["request_id"])
}

func TestDecodeEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodPost, "/v1/decode", `{"ids":[2,5]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", out["text"])

	_, out = doJSON(t, e, http.MethodPost, "/v1/decode", `{"ids":[2,5],"skip_special_tokens":false}`)
	assert.Equal(t, "hi<|end|>", out["text"])
}

func TestEncodeEndpointBadBody(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodPost, "/v1/encode", `{"text":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotNil(t, out["error"])
}

func TestChatTemplateEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodPost, "/v1/chat/template",
		`{"messages":[{"role":"user","content":"hi"}],"encode":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:hi;", out["prompt"])
	assert.NotNil(t, out["ids"])
}

func TestSpecialTokensEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodGet, "/v1/special_tokens", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(-1), out["bos_token_id"])
}

func TestTokenLookupEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodGet, "/v1/tokens/hi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), out["id"])
}

func TestHealthzEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, out := doJSON(t, e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
}
