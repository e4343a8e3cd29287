package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/duynguyendang/cca/pkg/analyze"
	"github.com/duynguyendang/cca/pkg/auth"
	"github.com/duynguyendang/cca/pkg/extract"
	"github.com/duynguyendang/cca/pkg/llm"
)

const testToken = "test-token"

type stubRecognizer struct {
	text string
	err  error
}

func (s *stubRecognizer) Recognize(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return s.reply, s.err
}

func newTestServer(rec extract.Recognizer, provider llm.Provider) *Server {
	gin.SetMode(gin.TestMode)
	verifier := auth.NewVerifier(testToken, nil)
	extractor := extract.NewService(rec, nil)
	return NewServer(verifier, extractor, analyze.NewEngine(provider), nil)
}

func multipartBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, srv *Server, path, filename string, data []byte, fields map[string]string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, data, fields)
	req, _ := http.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthRequiredBeforeBusinessLogic(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	for _, path := range []string{"/extract", "/ocr", "/ocr_and_analyze", "/v1/analyze"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", path, strings.NewReader("{}"))
		srv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestExtractMarkdown(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	w := doUpload(t, srv, "/extract", "notes.md", []byte("# Hi\n\nbody"), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "# Hi body", resp["text"])
}

func TestExtractRejectsUnsupported(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	w := doUpload(t, srv, "/extract", "data.csv", []byte("a,b"), nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractRejectsImages(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	// Images belong to /ocr, not /extract.
	w := doUpload(t, srv, "/extract", "pic.png", []byte("fake"), nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOCR(t *testing.T) {
	srv := newTestServer(&stubRecognizer{text: " recognized "}, nil)

	w := doUpload(t, srv, "/ocr", "pic.png", pngBytes(t), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "recognized", resp["text"])
}

func TestOCRRejectsNonImage(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)
	w := doUpload(t, srv, "/ocr", "report.pdf", []byte("x"), nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOCRFailureIs500(t *testing.T) {
	srv := newTestServer(&stubRecognizer{err: assert.AnError}, nil)
	w := doUpload(t, srv, "/ocr", "pic.png", pngBytes(t), nil, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestOCRAndAnalyze(t *testing.T) {
	srv := newTestServer(&stubRecognizer{text: "extracted code"}, &stubProvider{reply: "analysis"})

	w := doUpload(t, srv, "/ocr_and_analyze", "pic.png", pngBytes(t), map[string]string{"prompt": "explain"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Text string `json:"text"`
		AST  struct {
			Content string `json:"content"`
		} `json:"ast"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "extracted code", res.Text)
	assert.Equal(t, "analysis", res.AST.Content)
}

func TestOCRAndAnalyzeUpstreamFailureEmbedded(t *testing.T) {
	srv := newTestServer(&stubRecognizer{text: "code"}, &stubProvider{err: assert.AnError})

	w := doUpload(t, srv, "/ocr_and_analyze", "pic.png", pngBytes(t), nil, true)
	// The upstream failure is embedded, not surfaced as an HTTP error.
	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		AST struct {
			Error string `json:"error"`
		} `json:"ast"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.NotEmpty(t, res.AST.Error)
}

func TestAnalyzeLocal(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	body := `{"code": "x = 1\n", "use_deepseek": false}`
	req, _ := http.NewRequest("POST", "/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Text string `json:"text"`
		AST  struct {
			Nodes []analyze.Node `json:"nodes"`
		} `json:"ast"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "x = 1\n", res.Text)
	assert.NotEmpty(t, res.AST.Nodes)
	assert.Equal(t, "module", res.AST.Nodes[0].Type)
}

func TestAnalyzeRemote(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, &stubProvider{reply: "cleaned code"})

	body := `{"code": "messy", "use_deepseek": true}`
	req, _ := http.NewRequest("POST", "/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cleaned code")
}

func TestAnalyzeBadBody(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	req, _ := http.NewRequest("POST", "/v1/analyze", strings.NewReader(`{"use_deepseek": false}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractMissingFileField(t *testing.T) {
	srv := newTestServer(&stubRecognizer{}, nil)

	req, _ := http.NewRequest("POST", "/extract", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
