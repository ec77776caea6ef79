package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/noteservice"
	"github.com/starford/noteshub/internal/search"
	"github.com/starford/noteshub/internal/session"
	"github.com/starford/noteshub/internal/thread"
)

// maxJSONBody caps small JSON request bodies.
const maxJSONBody = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "must be a numeric id")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "invalid JSON body")
	}
	return nil
}

// Login handles POST /auth/login.
//
//	@Summary	Start a session
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		session.Credentials	true	"Login form"
//	@Success	200		{object}	SessionResponse
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Router		/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Sessions().Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: &u, Redirect: RouteSearch, Toast: successToast(MsgLoginSuccess)})
}

// Register handles POST /auth/register.
//
//	@Summary	Create an account and start a session
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		session.Registration	true	"Registration form"
//	@Success	200		{object}	SessionResponse
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Router		/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Sessions().Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: &u, Redirect: RouteSearch, Toast: successToast(MsgRegisterSuccess)})
}

// Logout handles POST /auth/logout.
//
//	@Summary	End the session
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Failure	500	{object}	errResponse
//	@Router		/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sessions().Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Redirect: RouteLogin,
		Toast:    &Toast{Kind: ToastInfo, Message: MsgLoggedOut},
	})
}

// Session handles GET /auth/session.
//
//	@Summary	Current session user, null for guests
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Router		/auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{User: h.svc.Sessions().Current()})
}

// Filters handles GET /filters.
//
//	@Summary	Filter dimension options
//	@Tags		filters
//	@Produce	json
//	@Success	200	{object}	models.FilterOptions
//	@Router		/filters [get]
func (h *Handler) Filters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.FilterOptions())
}

// ListNotes handles GET /notes.
//
//	@Summary	Search notes by free text and filter dimensions
//	@Tags		notes
//	@Produce	json
//	@Param		q			query		string	false	"Free-text query"
//	@Param		subject		query		string	false	"Subject filter"
//	@Param		course		query		string	false	"Course filter"
//	@Param		author		query		string	false	"Author filter"
//	@Param		rating		query		string	false	"Minimum rating, e.g. 4+ Stars"
//	@Param		uploadDate	query		string	false	"Upload window or date"
//	@Param		fileType	query		string	false	"File type filter"
//	@Success	200			{object}	NoteListResponse
//	@Failure	400			{object}	errResponse
//	@Failure	401			{object}	errResponse
//	@Router		/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := search.SelectionFromQuery(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := h.svc.Browse(r.Context(), q.Get("q"), sel)
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// CreateNote handles POST /notes (multipart/form-data, field "file").
//
//	@Summary	Upload a note
//	@Tags		notes
//	@Accept		mpfd
//	@Produce	json
//	@Success	201	{object}	NoteResponse
//	@Failure	400	{object}	errResponse
//	@Failure	401	{object}	errResponse
//	@Router		/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	form, file, cleanup, err := readUpload(w, r, h.svc.Uploads().MaxBytes())
	defer cleanup()
	if err != nil {
		writeError(w, r, err)
		return
	}
	note, err := h.svc.Upload(r.Context(), form, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{Note: note, Redirect: RouteSearch, Toast: successToast(MsgUploadSuccess)})
}

// GetNote handles GET /notes/{id}.
//
//	@Summary	Open a note detail view
//	@Tags		notes
//	@Produce	json
//	@Param		id	path		int		true	"Note id"
//	@Param		tab	query		string	false	"Visible tab"	Enums(details, comments, preview)
//	@Success	200	{object}	ViewResponse
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tab, err := thread.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.OpenView(r.Context(), id, tab)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := ViewResponse{State: v.State, Tab: v.Tab, Note: v.Note}
	if v.Tab == thread.TabPreview {
		if resp.Preview, err = h.svc.Preview(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Preview handles GET /notes/{id}/preview.
//
//	@Summary	Render a note preview
//	@Tags		notes
//	@Produce	json
//	@Param		id	path		int	true	"Note id"
//	@Success	200	{object}	PreviewResponse
//	@Failure	400	{object}	errResponse
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id}/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	html, err := h.svc.Preview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{ID: id, HTML: html})
}

// Like handles POST /notes/{id}/like.
//
//	@Summary	Toggle the like flag on a note
//	@Tags		notes
//	@Produce	json
//	@Param		id	path		int	true	"Note id"
//	@Success	200	{object}	NoteResponse
//	@Failure	400	{object}	errResponse
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id}/like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	note, err := h.svc.ToggleLike(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Note: note, Toast: likeToast(note.Liked)})
}

// Download handles POST /notes/{id}/download.
//
//	@Summary	Download a note
//	@Tags		notes
//	@Produce	json
//	@Param		id	path		int	true	"Note id"
//	@Success	200	{object}	NoteResponse
//	@Failure	400	{object}	errResponse
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id}/download [post]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	note, err := h.svc.Download(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Note: note, Toast: downloadingToast(note.Title)})
}

// AddComment handles POST /notes/{id}/comments.
//
//	@Summary	Comment on a note
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Note id"
//	@Param		body	body		CommentRequest	true	"Comment text"
//	@Success	201		{object}	NoteResponse
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/notes/{id}/comments [post]
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	note, err := h.svc.AddComment(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{Note: note, Toast: successToast(MsgCommentAdded)})
}

// AddReply handles POST /notes/{id}/comments/{cid}/replies.
//
//	@Summary	Reply to a comment
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Note id"
//	@Param		cid		path		int				true	"Comment id"
//	@Param		body	body		CommentRequest	true	"Reply text"
//	@Success	201		{object}	NoteResponse
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/notes/{id}/comments/{cid}/replies [post]
func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cid, err := idParam(r, "cid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	note, ok, err := h.svc.AddReply(r.Context(), id, cid, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "comment not found", Kind: KindNotFound})
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{Note: note, Toast: successToast(MsgReplyAdded)})
}
