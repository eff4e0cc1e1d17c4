package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/floorsight/floorsight/internal/api/response"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/floorsight/floorsight/internal/service"
	"github.com/rs/zerolog/log"
)

// AnalyzeHandler handles floor plan analysis endpoints
type AnalyzeHandler struct {
	analysisService *service.AnalysisService
	verbose         bool
}

// NewAnalyzeHandler creates a new analyze handler. verbose controls whether
// internal error detail reaches the response body.
func NewAnalyzeHandler(analysisService *service.AnalysisService, verbose bool) *AnalyzeHandler {
	return &AnalyzeHandler{analysisService: analysisService, verbose: verbose}
}

// Analyze accepts a multipart image upload and returns the structured critique
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	// Slack over the image limit covers multipart framing overhead. The
	// byte-exact limit is enforced by the service.
	r.Body = http.MaxBytesReader(w, r.Body, h.analysisService.MaxBytes()+1<<20)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(w, "image exceeds the upload size limit")
			return
		}
		response.BadRequest(w, "missing image file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(w, "image exceeds the upload size limit")
			return
		}
		response.BadRequest(w, "failed to read image")
		return
	}

	result, err := h.analysisService.Analyze(r.Context(), image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingImage):
			response.BadRequest(w, "missing image file")
		case errors.Is(err, service.ErrImageTooLarge):
			response.PayloadTooLarge(w, "image exceeds the upload size limit")
		case errors.Is(err, service.ErrUnsupportedImageType):
			response.UnsupportedMediaType(w, "unsupported image type, expected JPEG, PNG or WebP")
		case errors.Is(err, service.ErrProviderTimeout):
			response.GatewayTimeout(w, "analysis provider timed out")
		case errors.Is(err, llm.ErrInvalidAnalysis):
			response.InternalError(w, h.message("analysis provider returned an unusable response", err))
		default:
			log.Error().Err(err).Msg("analysis request failed")
			response.InternalError(w, h.message("analysis failed", err))
		}
		return
	}

	response.OK(w, map[string]any{
		"parsedAnalysis": result.Analysis,
	})
}

func (h *AnalyzeHandler) message(public string, err error) string {
	if h.verbose {
		return err.Error()
	}
	return public
}
