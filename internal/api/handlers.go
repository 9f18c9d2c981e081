package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/aliasrunner/internal/history"
	"github.com/starford/aliasrunner/internal/models"
)

// detailRuns is how many recent runs an alias detail carries.
const detailRuns = 5

// Handler holds API route handlers.
type Handler struct {
	cat    Catalog
	runs   history.Log
	events Notifier
}

// NewHandler creates a new Handler. runs and events may be nil.
func NewHandler(cat Catalog, runs history.Log, events Notifier) *Handler {
	return &Handler{cat: cat, runs: runs, events: events}
}

// aliasName extracts the alias name from the URL. Names may arrive
// percent-encoded (e.g. g%2B for g+).
func aliasName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListAliases handles GET /api/aliases.
//
//	@Summary		Rank aliases against a query
//	@Tags			aliases
//	@Produce		json
//	@Param			q	query		string	false	"Space-separated search terms"
//	@Success		200	{object}	AliasListResponse
//	@Security		BearerAuth
//	@Router			/aliases [get]
func (h *Handler) ListAliases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits := h.cat.Search(q)
	writeJSON(w, http.StatusOK, AliasListResponse{
		Query:   q,
		Total:   len(h.cat.Aliases()),
		Results: toAliasHits(hits),
	})
}

// GetAlias handles GET /api/aliases/{name}.
//
//	@Summary		Get one alias by exact name
//	@Tags			aliases
//	@Produce		json
//	@Param			name	path		string	true	"Alias name"
//	@Success		200		{object}	AliasDetailResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/aliases/{name} [get]
func (h *Handler) GetAlias(w http.ResponseWriter, r *http.Request) {
	a, err := h.cat.Get(aliasName(r))
	if err != nil {
		writeError(w, "get alias", err)
		return
	}
	writeJSON(w, http.StatusOK, h.detail(a))
}

// SetNote handles PUT /api/aliases/{name}/note.
//
//	@Summary		Set or clear the user note of an alias
//	@Tags			aliases
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string		true	"Alias name"
//	@Param			body	body		NoteRequest	true	"Note text; blank clears"
//	@Success		200		{object}	AliasDetailResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/aliases/{name}/note [put]
func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Note == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("note is required"))
		return
	}
	name := aliasName(r)
	a, err := h.cat.SetNote(name, *req.Note)
	if err != nil {
		writeError(w, "set note", err)
		return
	}
	h.publishNote(name, *req.Note)
	writeJSON(w, http.StatusOK, h.detail(a))
}

// ClearNote handles DELETE /api/aliases/{name}/note.
//
//	@Summary		Remove the user note of an alias
//	@Tags			aliases
//	@Produce		json
//	@Param			name	path		string	true	"Alias name"
//	@Success		200		{object}	AliasDetailResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/aliases/{name}/note [delete]
func (h *Handler) ClearNote(w http.ResponseWriter, r *http.Request) {
	name := aliasName(r)
	a, err := h.cat.ClearNote(name)
	if err != nil {
		writeError(w, "clear note", err)
		return
	}
	h.publishNote(name, "")
	writeJSON(w, http.StatusOK, h.detail(a))
}

// Reload handles POST /api/reload.
//
//	@Summary		Re-read the rc files and rebuild the alias set
//	@Tags			aliases
//	@Produce		json
//	@Success		200	{object}	catalog.ReloadStats
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.cat.Reload()
	if stats.Changed && h.events != nil {
		h.events.PublishReload(stats)
	}
	if err != nil {
		writeError(w, "reload", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// History handles GET /api/history.
//
//	@Summary		List recent alias runs
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int		false	"Max runs"
//	@Param			name	query		string	false	"Only runs of this alias"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeJSON(w, http.StatusOK, HistoryResponse{Runs: []models.Run{}})
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	runs, err := h.runs.Recent(limit, q.Get("name"))
	if err != nil {
		writeError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs})
}

func (h *Handler) detail(a models.Alias) AliasDetailResponse {
	out := AliasDetailResponse{AliasResponse: toAliasResponse(a), Runs: []models.Run{}}
	if h.runs != nil {
		if runs, err := h.runs.Recent(detailRuns, a.Name); err == nil {
			out.Runs = runs
		}
	}
	return out
}

func (h *Handler) publishNote(name, text string) {
	if h.events == nil {
		return
	}
	h.events.PublishNoteEvent(name, strings.TrimSpace(text) == "")
}
