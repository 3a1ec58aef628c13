package server

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/dtowler/folio/model"
)

// uploadField is the multipart form field carrying the document.
const uploadField = "document"

type errorResponse struct {
	Error string `json:"error"`
}

type reconstructResponse struct {
	File string `json:"file"`
	Size int    `json:"size"`
	Data string `json:"data"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	upload, err := s.readUpload(r)
	if err != nil {
		if bodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// pdfcpu wants a seekable file; stage the upload on disk for the
	// duration of the request.
	tmp, err := os.CreateTemp(s.tempDir, "folio-*.pdf")
	if err != nil {
		s.log.WithError(err).Error("create temp file")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(upload); err != nil {
		s.log.WithError(err).Error("stage upload")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	doc, err := s.engine.ExtractFile(r.Context(), tmp.Name())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("cannot process document: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// readUpload pulls the document bytes from a multipart form's document
// field, or from the raw body when the request is not multipart.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, fmt.Errorf("multipart form has no %q field", uploadField)
			}
			return nil, fmt.Errorf("read upload: %w", err)
		}
		defer file.Close()
		return readAllUpload(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func readAllUpload(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("uploaded document is empty")
	}
	return data, nil
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		if bodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	doc, err := model.Decode(payload, model.DecodeOptions{})
	if err != nil {
		if errors.Is(err, model.ErrMissingPages) {
			writeError(w, http.StatusBadRequest, model.ErrMissingPages.Error())
		} else {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid document payload: %v", err))
		}
		return
	}

	pdfBytes, err := s.builder.Build(r.Context(), doc)
	if err != nil {
		s.log.WithError(err).Error("reconstruction failed")
		writeError(w, http.StatusInternalServerError, "reconstruction failed")
		return
	}

	sum := sha256.Sum256(pdfBytes)
	writeJSON(w, http.StatusOK, reconstructResponse{
		File: fmt.Sprintf("folio-%x.pdf", sum[:4]),
		Size: len(pdfBytes),
		Data: base64.StdEncoding.EncodeToString(pdfBytes),
	})
}

// bodyTooLarge reports whether a body read failed because it hit the
// MaxBytesReader limit.
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
