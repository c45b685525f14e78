package api

// SaveNoteRequest is the request body for PUT /notes/{id} and POST /notes.
type SaveNoteRequest struct {
	Content *string `json:"content" example:"{\"id\":\"1\",\"title\":\"Welcome to BetterNotes\"}"`
}

// CreateNoteResponse is returned after POST /notes.
type CreateNoteResponse struct {
	ID string `json:"id" example:"9b2f6c1e-5d2a-4c3b-8e7f-0a1b2c3d4e5f"`
}

// NoteListResponse wraps the raw content of every note.
type NoteListResponse struct {
	Notes []string `json:"notes"`
	Total int      `json:"total" example:"3"`
}
