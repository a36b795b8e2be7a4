// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/pdiddy/doc2pdf/internal/convert"
	"github.com/pdiddy/doc2pdf/internal/logging"
	"github.com/pdiddy/doc2pdf/internal/workspace"
	"github.com/pdiddy/doc2pdf/pkg/types"
)

// Response bodies for rejected requests.
const (
	MsgMissingField    = "Bad Request: data, fileType, or messageID is undefined."
	MsgInvalidData     = "Bad Request: data is not valid base64."
	MsgInvalidFileType = "Bad Request: fileType is invalid."
	MsgMalformedBody   = "Bad Request: request body is not valid JSON."
	MsgBodyTooLarge    = "Payload Too Large: request body exceeds the size limit."
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidData     = errors.New("data is not valid base64")
	ErrInvalidFileType = errors.New("fileType is invalid")
)

type convertRequest struct {
	Data      string `json:"data"`
	FileType  string `json:"fileType"`
	MessageID string `json:"messageID"`
}

// Validate checks the request and returns the decoded document bytes.
func (r *convertRequest) Validate() ([]byte, error) {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
		validation.Field(&r.FileType, validation.Required),
		validation.Field(&r.MessageID, validation.Required),
	); err != nil {
		return nil, ErrMissingField
	}

	data, err := decodeBase64(r.Data)
	if err != nil {
		return nil, ErrInvalidData
	}
	if len(data) == 0 {
		return nil, ErrMissingField
	}

	if err := validation.Validate(r.FileType, validation.Match(workspace.FileTypePattern)); err != nil {
		return nil, ErrInvalidFileType
	}
	return data, nil
}

// decodeBase64 accepts padded and unpadded standard encodings.
func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// Handler serves POST /convert.
type Handler struct {
	conv    convert.Converter
	log     *zap.Logger
	workDir string
	timeout time.Duration
	maxBody int64
}

// NewHandler wires the conversion endpoint to conv.
func NewHandler(conv convert.Converter, log *zap.Logger, cfg types.Config) *Handler {
	return &Handler{
		conv:    conv,
		log:     log,
		workDir: cfg.Conversion.WorkDir,
		timeout: cfg.Conversion.Timeout,
		maxBody: cfg.Server.MaxBodySize,
	}
}

// Convert decodes the document, stages it in a private workspace, renders it
// to PDF and answers with the base64-encoded result. The workspace is removed
// before the response is written, on every path.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
	log.Debug("Received a request to convert a file")

	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Error("Request body exceeds the size limit", zap.Int64("limit", tooLarge.Limit))
			writeText(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
			return
		}
		log.Error("Bad Request: malformed JSON body", zap.Error(err))
		writeText(w, http.StatusBadRequest, MsgMalformedBody)
		return
	}

	log = log.With(logging.MessageID(req.MessageID))

	data, err := req.Validate()
	switch {
	case errors.Is(err, ErrMissingField):
		log.Error(MsgMissingField)
		writeText(w, http.StatusBadRequest, MsgMissingField)
		return
	case errors.Is(err, ErrInvalidData):
		log.Error(MsgInvalidData)
		writeText(w, http.StatusBadRequest, MsgInvalidData)
		return
	case errors.Is(err, ErrInvalidFileType):
		log.Error(MsgInvalidFileType, zap.String("fileType", req.FileType))
		writeText(w, http.StatusBadRequest, MsgInvalidFileType)
		return
	}

	pdf, err := h.render(r.Context(), log, req.FileType, data)
	if err != nil {
		log.Error("An error occurred during conversion to PDF", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(pdf); err != nil {
		log.Warn("Could not write response", zap.Error(err))
		return
	}
	if err := enc.Close(); err != nil {
		log.Warn("Could not write response", zap.Error(err))
	}
}

// render stages data in a fresh workspace and converts it to PDF. The
// workspace is gone by the time render returns.
func (h *Handler) render(ctx context.Context, log *zap.Logger, fileType string, data []byte) ([]byte, error) {
	ws, err := workspace.New(h.workDir, fileType, data)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("workspace", ws.ID()))
	defer func() {
		if err := ws.Close(); err != nil {
			log.Warn("Could not remove workspace", zap.Error(err))
		}
	}()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	pdf, err := convert.ToPDF(ctx, h.conv, ws.InputPath())
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("fileType", fileType),
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if pages, err := convert.PageCount(pdf); err != nil {
		log.Warn("Could not count PDF pages", zap.Error(err))
	} else {
		fields = append(fields, zap.Int("pages", pages))
	}
	log.Info("Successfully converted "+fileType+" to PDF.", fields...)
	return pdf, nil
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
