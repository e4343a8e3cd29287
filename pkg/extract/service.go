package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	// MaxConcurrentExtractions bounds how many extractions run at once in
	// server mode. OCR and document parsing are the expensive paths.
	MaxConcurrentExtractions = 4

	resultCacheSize = 128
)

// Service dispatches an upload to the extractor for its kind and produces a
// normalized ContentContext. Results are cached by content hash so an
// identical re-upload skips OCR and parsing.
type Service struct {
	image *ImageExtractor
	doc   *DocumentExtractor
	cache *lru.Cache[string, string]
	sem   *semaphore.Weighted
	log   *zap.Logger
}

// NewService creates a Service around the given OCR backend.
func NewService(ocr Recognizer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New[string, string](resultCacheSize)
	return &Service{
		image: &ImageExtractor{OCR: ocr},
		doc:   &DocumentExtractor{},
		cache: cache,
		sem:   semaphore.NewWeighted(MaxConcurrentExtractions),
		log:   log,
	}
}

// Extract classifies filename, runs the matching extractor over data, and
// returns the canonical context for the artifact. Classification errors map
// to HTTP 400, extraction errors to 500.
func (s *Service) Extract(ctx context.Context, filename string, data []byte) (*ContentContext, error) {
	kind, err := Classify(filename)
	if err != nil {
		return nil, err
	}

	cc := &ContentContext{
		Kind:       kind,
		Language:   Language(filename),
		SourcePath: filename,
	}

	key := cacheKey(kind, data)
	if text, ok := s.cache.Get(key); ok {
		s.log.Debug("extraction cache hit", zap.String("file", filename))
		cc.Text = text
		return cc, nil
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	var text string
	switch kind {
	case KindImage:
		// Already trimmed and capped by the extractor.
		text, err = s.image.Extract(ctx, data)

	case KindDocument:
		var raw string
		raw, err = s.doc.Extract(filename, data)
		if err == nil {
			var cut bool
			text, cut = Normalize(raw, kind.Cap())
			if cut {
				s.log.Info("document text truncated", zap.String("file", filename), zap.Int("cap", kind.Cap()))
			}
		}

	default: // code, markdown, plain text
		var raw string
		raw, err = DecodeText(data, kind)
		if err == nil {
			var cut bool
			text, cut = Normalize(raw, kind.Cap())
			if cut {
				s.log.Info("text truncated", zap.String("file", filename), zap.Int("cap", kind.Cap()))
			}
		}
	}
	if err != nil {
		s.log.Warn("extraction failed", zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	s.cache.Add(key, text)
	s.log.Info("extraction succeeded", zap.String("file", filename), zap.Int("length", len(text)))
	cc.Text = text
	return cc, nil
}

func cacheKey(kind Kind, data []byte) string {
	sum := sha256.Sum256(data)
	return string(kind) + ":" + hex.EncodeToString(sum[:])
}
