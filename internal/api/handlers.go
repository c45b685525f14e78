package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/betternotes/internal/checksum"
	"github.com/starford/betternotes/internal/noteservice"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteID extracts the {id} segment. chi matches on RawPath when the request
// carries one, and then the segment is still percent-encoded.
func noteID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// decodeSave reads a SaveNoteRequest; an empty content string is allowed.
func decodeSave(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SaveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return "", false
	}
	if req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return "", false
	}
	return *req.Content, true
}

// LoadNotes handles GET /api/notes.
//
//	@Summary	Return the content of every note
//	@Tags		notes
//	@Produce	json
//	@Success	200	{object}	NoteListResponse
//	@Router		/notes [get]
func (h *Handler) LoadNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.LoadNotes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}. The stored content is returned verbatim.
//
//	@Summary	Return one note
//	@Tags		notes
//	@Produce	json
//	@Param		id	path	string	true	"Note id"
//	@Success	200
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	content, err := h.svc.GetNote(r.Context(), noteID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	data := []byte(content)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", checksum.ETag(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SaveNote handles PUT /api/notes/{id}.
//
//	@Summary	Create or replace a note
//	@Tags		notes
//	@Accept		json
//	@Param		id		path	string			true	"Note id"
//	@Param		body	body	SaveNoteRequest	true	"Note content"
//	@Success	204
//	@Failure	400	{object}	errResponse
//	@Router		/notes/{id} [put]
func (h *Handler) SaveNote(w http.ResponseWriter, r *http.Request) {
	content, ok := decodeSave(w, r)
	if !ok {
		return
	}
	if err := h.svc.SaveNote(r.Context(), noteID(r), content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateNote handles POST /api/notes.
//
//	@Summary	Save a note under a generated id
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SaveNoteRequest	true	"Note content"
//	@Success	201		{object}	CreateNoteResponse
//	@Router		/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	content, ok := decodeSave(w, r)
	if !ok {
		return
	}
	id, err := h.svc.CreateNote(r.Context(), content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateNoteResponse{ID: id})
}

// DeleteNote handles DELETE /api/notes/{id}. Missing notes are not an error.
//
//	@Summary	Delete a note
//	@Tags		notes
//	@Param		id	path	string	true	"Note id"
//	@Success	204
//	@Router		/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), noteID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
