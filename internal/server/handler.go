package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/redactyl/drcscan/internal/engine"
)

type handlers struct {
	eng     *engine.Engine
	maxBody int64
	log     hclog.Logger
}

var errTrailingData = errors.New("trailing data after JSON body")

// detect handles POST /detect-obsolete-reports.
func (h *handlers) detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	var raw json.RawMessage
	dec := json.NewDecoder(body)
	err := dec.Decode(&raw)
	if err == nil {
		// the body must hold exactly one JSON value
		if extra := dec.Decode(&json.RawMessage{}); extra != io.EOF {
			err = errTrailingData
			if extra != nil {
				err = extra
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"detail": "Request body too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, ValidationError{Detail: []FieldError{{
			Type: "json_invalid",
			Loc:  []any{"body"},
			Msg:  "JSON decode error",
		}}})
		return
	}

	units, verr := DecodeUnits(raw)
	if verr != nil {
		h.log.Debug("rejected request", "problems", len(verr.Detail), "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusUnprocessableEntity, verr)
		return
	}

	results, err := h.eng.Detect(r.Context(), units)
	if err != nil {
		// only cancellation stops Detect; the client is gone
		h.log.Warn("detect aborted", "error", err, "request_id", RequestIDFrom(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CatalogInfo is the GET /catalog response.
type CatalogInfo struct {
	Note    string   `json:"note"`
	Version string   `json:"version"`
	Digest  string   `json:"digest"`
	Scanner string   `json:"scanner"`
	Entries []string `json:"entries"`
}

func (h *handlers) catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	s := h.eng.Scanner()
	cat := s.Catalog()
	writeJSON(w, http.StatusOK, CatalogInfo{
		Note:    cat.Note(),
		Version: cat.Version(),
		Digest:  cat.Digest(),
		Scanner: s.Version(),
		Entries: cat.Entries(),
	})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
