package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/textpub/internal/cleaner"
	"github.com/dgallion1/textpub/internal/doctree"
	"github.com/dgallion1/textpub/internal/pipeline"
)

type cleanRequest struct {
	Text        string   `json:"text"`
	Cleaner     string   `json:"cleaner"`
	KnownTitles []string `json:"known_titles"`
}

type cleanResponse struct {
	CleanedText   string          `json:"cleaned_text"`
	Blocks        []doctree.Block `json:"blocks"`
	Cleaner       string          `json:"cleaner"`
	FallbackError string          `json:"fallback_error,omitempty"`
}

// handleClean runs the cleaner and classifier synchronously on raw text.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req cleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	kind, err := cleaner.ParseKind(req.Cleaner)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	src := &doctree.Source{Text: req.Text}
	out, err := s.orchestrator.Converter().Convert(r.Context(), src, pipeline.Options{
		Cleaner:     kind,
		KnownTitles: req.KnownTitles,
	}, nil)
	if err != nil {
		if errors.Is(err, pipeline.ErrAIUnavailable) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("clean failed", "error", err)
		jsonError(w, "clean failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := cleanResponse{
		CleanedText: out.CleanedText,
		Blocks:      out.Document.Blocks,
		Cleaner:     out.CleanerUsed,
	}
	if resp.Blocks == nil {
		resp.Blocks = []doctree.Block{}
	}
	if out.FallbackErr != nil {
		resp.FallbackError = out.FallbackErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
