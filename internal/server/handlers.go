package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/generate"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// generationError maps a service error to a response.
func (s *Server) generationError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, generate.ErrEmptyPrompt) {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	s.logger.Error("generation failed",
		zap.String("kind", kind),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate %s", kind), err.Error())
}

func (s *Server) record(kind string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(kind, err, time.Since(start))
	}
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req generate.ImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	res, err := s.svc.GenerateImage(r.Context(), req)
	s.record("image", err, start)
	if err != nil {
		s.generationError(w, r, "image", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEditImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := s.parseEditRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	res, err := s.svc.EditImage(r.Context(), req)
	s.record("edit", err, start)
	if err != nil {
		s.generationError(w, r, "edit", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseEditRequest accepts a multipart form with an optional "image" file
// and a JSON "annotations" field, or a plain JSON body. Annotations that do
// not parse are treated as none.
func (s *Server) parseEditRequest(w http.ResponseWriter, r *http.Request) (generate.EditRequest, error) {
	var req generate.EditRequest
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return req, decodeJSON(w, r, &req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseMultipartForm(MaxBodySize); err != nil {
		return req, fmt.Errorf("parse form: %w", err)
	}
	req.Prompt = r.FormValue("prompt")
	req.Style = r.FormValue("style")
	if v := r.FormValue("creativity"); v != "" {
		req.Creativity, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("annotations"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Annotations); err != nil {
			s.logger.Debug("ignoring malformed annotations", zap.Error(err))
			req.Annotations = nil
		}
	}
	f, _, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return req, fmt.Errorf("image: %w", err)
	default:
		defer f.Close()
		if req.Image, err = io.ReadAll(f); err != nil {
			return req, fmt.Errorf("image: %w", err)
		}
	}
	return req, nil
}

func (s *Server) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req generate.VideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	res, err := s.svc.GenerateVideo(r.Context(), req)
	s.record("video", err, start)
	if err != nil {
		s.generationError(w, r, "video", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status())
}

func (s *Server) handleGetAnnotations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Latest())
}

type annotationsBody struct {
	Annotations []generate.Annotation `json:"annotations"`
}

func (s *Server) handlePostAnnotations(w http.ResponseWriter, r *http.Request) {
	var body annotationsBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.hub.Publish(body.Annotations))
}

func (s *Server) handleAnnotationStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	// clients only listen; CloseRead handles their close frames
	ctx := conn.CloseRead(r.Context())
	updates, cancel := s.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := wsjson.Write(ctx, conn, u); err != nil {
				s.logger.Debug("annotation stream write failed", zap.Error(err))
				return
			}
		}
	}
}
