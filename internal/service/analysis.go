package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// MaxImageBytes is the default upload size limit, enforced before any
// network call
const MaxImageBytes = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AnalysisCache caches critiques keyed by image digest so a re-uploaded plan
// skips the provider round-trip. Implementations are ephemeral (TTL-bound).
type AnalysisCache interface {
	Get(ctx context.Context, digest string) (*domain.FloorPlanAnalysis, error)
	Set(ctx context.Context, digest string, analysis *domain.FloorPlanAnalysis) error
}

// AnalysisResult carries the critique plus the internal degraded flag. The
// flag is observability only: externally a degraded result is
// indistinguishable from "not a floor plan", by contract.
type AnalysisResult struct {
	Analysis domain.FloorPlanAnalysis
	Degraded bool
}

// AnalysisService classifies an uploaded image and produces the structured
// floor-plan critique
type AnalysisService struct {
	provider llm.Provider
	cache    AnalysisCache
	maxBytes int64
}

// NewAnalysisService creates a new analysis service. cache may be nil; a
// non-positive maxBytes selects the default limit.
func NewAnalysisService(provider llm.Provider, cache AnalysisCache, maxBytes int64) *AnalysisService {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	return &AnalysisService{
		provider: provider,
		cache:    cache,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the upload size limit the service enforces
func (s *AnalysisService) MaxBytes() int64 {
	return s.maxBytes
}

// Analyze validates the image, calls the vision provider, and returns the
// critique. Validation failures reject before any network call. When the
// provider's retries exhaust on rate limits or server errors the service
// degrades to the sentinel analysis instead of propagating the failure.
func (s *AnalysisService) Analyze(ctx context.Context, image []byte) (*AnalysisResult, error) {
	if len(image) == 0 {
		return nil, ErrMissingImage
	}
	if int64(len(image)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(image))
	}

	// Sniff the content; the client-supplied content type is not trusted.
	mtype := mimetype.Detect(image)
	if !allowedImageTypes[mtype.String()] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, mtype.String())
	}

	digest := imageDigest(image)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, digest); err == nil && cached != nil {
			log.Debug().Str("digest", digest).Msg("analysis cache hit")
			return &AnalysisResult{Analysis: *cached}, nil
		}
	}

	analysis, err := s.provider.AnalyzeImage(ctx, llm.ImagePayload{Data: image, MIMEType: mtype.String()})
	if err != nil {
		if llm.IsTimeout(err) {
			return nil, ErrProviderTimeout
		}

		// Retries exhausted on a retryable provider failure: degrade to the
		// sentinel rather than surfacing the outage. The flag records what
		// actually happened for logs.
		if status := llm.StatusOf(err); status == http.StatusTooManyRequests || status == http.StatusInternalServerError {
			log.Warn().Err(err).Int("status", status).Msg("analysis degraded to sentinel after exhausted retries")
			sentinel := domain.SentinelAnalysis()
			return &AnalysisResult{Analysis: sentinel, Degraded: true}, nil
		}

		if errors.Is(err, llm.ErrInvalidAnalysis) {
			return nil, err
		}
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if s.cache != nil && !analysis.IsSentinel() {
		if err := s.cache.Set(ctx, digest, analysis); err != nil {
			log.Error().Err(err).Msg("failed to cache analysis")
		}
	}

	return &AnalysisResult{Analysis: *analysis}, nil
}

func imageDigest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
