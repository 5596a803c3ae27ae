package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/models"
)

// ListArticles returns every article wrapped in the {"data": [...]} envelope
func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.source.ListArticles(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to list articles", "error", err)
		core.HandleError(w, appError(err))
		return
	}
	core.WriteJSON(w, http.StatusOK, list)
}

// GetArticle returns one article
func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.source.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.HandleError(w, appError(err))
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"data": article})
}

// CreateArticle stores an article authored by the current user
func (h *Handlers) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var create models.ArticleCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid request body", err))
		return
	}

	user := auth.GetUserFromContext(r)
	create.AuthorID = &user.ID

	article, err := h.writer.CreateArticle(r.Context(), &create)
	if err != nil {
		core.HandleError(w, appError(err))
		return
	}

	h.logger.WithContext(r.Context()).WithUser(user.ID, user.Username).Info("Article created", "id", article.ID)
	core.WriteJSON(w, http.StatusCreated, map[string]any{"data": article})
}
