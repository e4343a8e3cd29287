package server

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duynguyendang/cca/pkg/common/errors"
	"github.com/duynguyendang/cca/pkg/extract"
)

func (s *Server) handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	s.log.Warn("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", appErr.Code),
		zap.Error(err),
	)
	c.JSON(appErr.Code, gin.H{"detail": appErr.Error()})
}

// readUpload pulls the multipart "file" field into memory, enforcing the
// size cap.
func readUpload(c *gin.Context) (*multipart.FileHeader, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, errors.NewAppError(http.StatusBadRequest, "Missing file field", err)
	}
	if fh.Size > MaxUploadBytes {
		return nil, nil, errors.NewAppError(http.StatusBadRequest, "File too large", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return fh, data, nil
}

// handleExtract serves the document-extraction contract: pdf, docx, md and
// the plain-text family. Code and image uploads belong to other endpoints.
func (s *Server) handleExtract(c *gin.Context) {
	fh, data, err := readUpload(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	kind, err := extract.Classify(fh.Filename)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if kind == extract.KindImage || kind == extract.KindCode {
		s.handleError(c, errors.ErrUnsupportedFormat)
		return
	}

	cc, err := s.extractor.Extract(c.Request.Context(), fh.Filename, data)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": cc.Text})
}

// handleOCR serves image recognition.
func (s *Server) handleOCR(c *gin.Context) {
	fh, data, err := readUpload(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	kind, err := extract.Classify(fh.Filename)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if kind != extract.KindImage {
		s.handleError(c, errors.ErrUnsupportedFormat)
		return
	}

	cc, err := s.extractor.Extract(c.Request.Context(), fh.Filename, data)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": cc.Text})
}

// handleOCRAndAnalyze forwards recognized text into a remote analysis call.
// The optional "prompt" form field overrides the default instruction.
func (s *Server) handleOCRAndAnalyze(c *gin.Context) {
	fh, data, err := readUpload(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	kind, err := extract.Classify(fh.Filename)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if kind != extract.KindImage {
		s.handleError(c, errors.ErrUnsupportedFormat)
		return
	}

	cc, err := s.extractor.Extract(c.Request.Context(), fh.Filename, data)
	if err != nil {
		s.handleError(c, err)
		return
	}

	result := s.engine.Remote(c.Request.Context(), cc.Text, c.PostForm("prompt"))
	c.JSON(http.StatusOK, result)
}

type analyzeRequest struct {
	Code        string `json:"code" binding:"required"`
	UseDeepSeek bool   `json:"use_deepseek"`
	Prompt      string `json:"prompt"`
	Language    string `json:"language"`
}

// handleAnalyze runs local structural analysis, or delegates to the remote
// model when use_deepseek is set.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	result := s.engine.Analyze(c.Request.Context(), req.Code, req.UseDeepSeek, req.Prompt, req.Language)
	c.JSON(http.StatusOK, result)
}
