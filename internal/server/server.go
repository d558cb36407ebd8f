package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiesman99/pbrtex/internal/api"
	"github.com/kiesman99/pbrtex/internal/archive"
	"github.com/kiesman99/pbrtex/internal/codec"
	"github.com/kiesman99/pbrtex/internal/pipeline"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// DefaultMaxUpload bounds request bodies when no limit is configured
const DefaultMaxUpload = 32 << 20

// generator is the part of *pipeline.Pipeline the handlers need
type generator interface {
	Generate(ctx context.Context, src image.Image, opts pipeline.Options) (*pipeline.Result, error)
}

// Server implements the ServerInterface from the generated API
type Server struct {
	startTime time.Time
	version   string
	maxUpload int64
	pipeline  generator
	log       *slog.Logger
	now       func() time.Time
}

// NewServer creates a new server instance. All requests share one
// pipeline, so overlapping generations are rejected with 409.
func NewServer(version string, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Server{
		startTime: time.Now(),
		version:   version,
		maxUpload: maxUpload,
		pipeline:  pipeline.New(),
		log:       slog.Default(),
		now:       time.Now,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// CreateMaterial generates a material and returns every map as a data URL
func (s *Server) CreateMaterial(w http.ResponseWriter, r *http.Request, params api.CreateMaterialParams) {
	requestID := requestIDFrom(r)

	result, enc, ok := s.generate(w, r, params, &requestID)
	if !ok {
		return
	}

	created := s.now()
	response := materialResponse(archive.NewName(created), created, result, enc)

	w.Header().Set("X-Request-ID", requestID)
	s.writeJSON(w, http.StatusOK, response)
}

// CreateMaterialArchive generates a material and returns it as a zip
func (s *Server) CreateMaterialArchive(w http.ResponseWriter, r *http.Request, params api.CreateMaterialArchiveParams) {
	requestID := requestIDFrom(r)

	result, enc, ok := s.generate(w, r, api.CreateMaterialParams(params), &requestID)
	if !ok {
		return
	}

	created := s.now()
	m := archive.Material{Name: archive.NewName(created), Created: created, Result: result}

	var body bytes.Buffer
	if err := archive.Write(&body, m, enc.Extension()); err != nil {
		s.log.Error("failed to build archive", "request_id", requestID, "error", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to build archive", &requestID, nil)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.Name+".zip"))
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body.Bytes()); err != nil {
		s.log.Error("failed to write response", "request_id", requestID, "error", err)
	}
}

// generate runs the shared request flow. It writes an error response and
// returns false when the request cannot be served.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, params api.CreateMaterialParams, requestID *string) (*pipeline.Result, codec.Encoder, bool) {
	opts, enc, field, err := convertToPipelineOptions(params)
	if err != nil {
		s.writeValidationErrorResponse(w, field, err.Error(), requestID)
		return nil, nil, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"Image exceeds upload limit", requestID, map[string]interface{}{
					"max_bytes": tooLarge.Limit,
				})
			return nil, nil, false
		}
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY",
			"Failed to read request body", requestID, nil)
		return nil, nil, false
	}
	if len(data) == 0 {
		s.writeValidationErrorResponse(w, "body", "request body must contain an image", requestID)
		return nil, nil, false
	}

	img, format, err := codec.Decode(data)
	if err != nil {
		s.writeValidationErrorResponse(w, "body", err.Error(), requestID)
		return nil, nil, false
	}
	s.log.Debug("decoded source image", "request_id", *requestID, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	result, err := s.pipeline.Generate(r.Context(), img, opts)
	if err != nil {
		s.handleGenerationError(w, err, requestID)
		return nil, nil, false
	}
	return result, enc, true
}

// convertToPipelineOptions converts query parameters to pipeline options.
// On failure it also names the offending parameter.
func convertToPipelineOptions(params api.CreateMaterialParams) (pipeline.Options, codec.Encoder, string, error) {
	opts := pipeline.DefaultOptions()

	if params.Resolution != nil {
		res := *params.Resolution
		if res < 1 || res > pipeline.MaxResolution {
			return opts, nil, "resolution", fmt.Errorf("resolution must be between 1 and %d", pipeline.MaxResolution)
		}
		opts.Resolution = res
	}

	if params.EdgeDetection != nil {
		kind, err := texture.ParseEdgeDetection(string(*params.EdgeDetection))
		if err != nil {
			return opts, nil, "edge_detection", err
		}
		opts.EdgeDetection = kind
	}

	if params.Tiling != nil {
		opts.Tiling = *params.Tiling
	}

	var format string
	if params.Format != nil {
		format = string(*params.Format)
	}
	enc, err := codec.EncoderFor(format)
	if err != nil {
		return opts, nil, "format", err
	}
	opts.Encoder = enc

	return opts, enc, "", nil
}

func materialResponse(name string, created time.Time, result *pipeline.Result, enc codec.Encoder) api.MaterialResponse {
	textures := make(map[string]string, len(result.Textures))
	for kind, data := range result.Textures {
		textures[string(kind)] = codec.DataURL(enc.ContentType(), data)
	}

	response := api.MaterialResponse{
		Name:    name,
		Created: created.UTC(),
		Settings: api.MaterialSettings{
			Resolution:    result.Settings.Resolution,
			EdgeDetection: api.EdgeDetection(result.Settings.EdgeDetection.String()),
			TilingEnabled: result.Settings.TilingEnabled,
		},
		Textures: textures,
		Diagnostics: api.Diagnostics{
			ElapsedMs:        result.Diagnostics.Elapsed.Milliseconds(),
			NormalMeanBlue:   result.Diagnostics.Normal.MeanBlue,
			NormalMeanLength: result.Diagnostics.Normal.MeanLength,
		},
	}

	if result.Tiling != nil {
		info := make(map[string]api.TilingInfo, len(result.Tiling))
		for kind, entry := range result.Tiling {
			var ti api.TilingInfo
			if entry.Failed() {
				msg := entry.Error
				ti.Error = &msg
			} else {
				bw, method := entry.BlendWidth, entry.Method
				ti.BlendWidth = &bw
				ti.Method = &method
			}
			info[string(kind)] = ti
		}
		response.TilingInfo = &info

		seams := make(map[string]int, len(result.Diagnostics.SeamDeviation))
		for kind, dev := range result.Diagnostics.SeamDeviation {
			seams[string(kind)] = dev
		}
		response.Diagnostics.SeamDeviation = &seams
	}

	if len(result.Warnings) > 0 {
		warnings := make([]string, len(result.Warnings))
		for i, w := range result.Warnings {
			warnings[i] = w.Error()
		}
		response.Warnings = &warnings
	}

	return response
}

// handleGenerationError maps pipeline failures to HTTP responses
func (s *Server) handleGenerationError(w http.ResponseWriter, err error, requestID *string) {
	if errors.Is(err, pipeline.ErrBusy) {
		s.writeErrorResponse(w, http.StatusConflict, "BUSY",
			"A texture generation is already in progress", requestID, nil)
		return
	}

	if errors.Is(err, pipeline.ErrInvalidInput) {
		s.writeValidationErrorResponse(w, "request", err.Error(), requestID)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		s.writeErrorResponse(w, http.StatusGatewayTimeout, "TIMEOUT",
			"Texture generation timed out", requestID, nil)
		return
	}

	var genErr *pipeline.GenerationError
	if errors.As(err, &genErr) {
		s.log.Error("texture generation failed", "request_id", *requestID, "error", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "GENERATION_FAILED",
			"Texture generation failed", requestID, map[string]interface{}{
				"texture": string(genErr.Kind),
				"stage":   genErr.Stage,
			})
		return
	}

	s.log.Error("unexpected generation error", "request_id", *requestID, "error", err)
	s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
		"Internal server error", requestID, nil)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	s.writeJSON(w, statusCode, response)
}

// writeValidationErrorResponse writes a validation error response
func (s *Server) writeValidationErrorResponse(w http.ResponseWriter, field, message string, requestID *string) {
	response := api.ValidationErrorResponse{
		Error:     api.VALIDATIONERROR,
		Message:   message,
		RequestId: requestID,
		ValidationErrors: []struct {
			Code    *string `json:"code,omitempty"`
			Field   string  `json:"field"`
			Message string  `json:"message"`
		}{
			{
				Field:   field,
				Message: message,
			},
		},
	}

	s.writeJSON(w, http.StatusBadRequest, response)
}

// requestIDFrom prefers the ID assigned by the RequestID middleware
func requestIDFrom(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return generateRequestID()
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
