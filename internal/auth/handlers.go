package auth

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inspire-bytes/internal/core"
	"inspire-bytes/internal/site"
	authviews "inspire-bytes/views/auth"
)

// Handler provides authentication HTTP handlers
type Handler struct {
	service *Service
	titles  *site.TitleStore
	metrics *core.Metrics
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, titles *site.TitleStore, metrics *core.Metrics) *Handler {
	return &Handler{
		service: service,
		titles:  titles,
		metrics: metrics,
	}
}

// credentials is the body accepted by login and register
type credentials struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if isJSON(r) {
		err := json.NewDecoder(r.Body).Decode(&c)
		return c, err
	}
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	c.Username = r.PostFormValue("username")
	c.Nickname = r.PostFormValue("nickname")
	c.Password = r.PostFormValue("password")
	return c, nil
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, message string) {
	user := GetUserFromContext(r)
	chrome := h.titles.ChromeFor(r, user.Username, !user.IsAnonymous())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	authviews.LoginPage(chrome, message).Render(r.Context(), w)
}

// LoginPageHandler serves the login page
func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	if !GetUserFromContext(r).IsAnonymous() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "")
}

// LoginHandler handles user login from the HTML form or a JSON client
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.service.logger.WithContext(r.Context())

	c, err := decodeCredentials(r)
	if err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid request body", err))
		return
	}
	if c.Username == "" || c.Password == "" {
		h.loginFailed(w, r, http.StatusBadRequest, core.NewValidationError("Username and password are required", nil))
		return
	}

	user, token, err := h.service.Login(r.Context(), c.Username, c.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			h.loginFailed(w, r, http.StatusUnauthorized, core.NewUnauthorizedError("Invalid credentials", err))
		default:
			h.metrics.LoginAttempts.WithLabelValues("error").Inc()
			logger.Error("Authentication error", "error", err)
			h.loginFailed(w, r, http.StatusInternalServerError, core.NewInternalError("Authentication failed", err))
		}
		return
	}
	h.metrics.LoginAttempts.WithLabelValues("accepted").Inc()

	setSessionCookie(w, r, token)
	logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	if !isJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token.Plaintext,
		"data":  user,
	})
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, status int, appErr *core.AppError) {
	if isJSON(r) {
		core.WriteErrorResponse(w, status, appErr)
		return
	}
	h.renderLogin(w, r, status, appErr.Message)
}

// RegisterHandler creates an account
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCredentials(r)
	if err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid request body", err))
		return
	}

	user, err := h.service.Register(r.Context(), Registration{
		Username: c.Username,
		Nickname: c.Nickname,
		Password: c.Password,
	})
	if err != nil {
		var appErr *core.AppError
		if !isJSON(r) && errors.As(err, &appErr) {
			h.renderLogin(w, r, core.GetHTTPStatusCode(appErr), appErr.Message)
			return
		}
		core.HandleError(w, err)
		return
	}

	if !isJSON(r) {
		h.renderLogin(w, r, http.StatusCreated, "注册成功，请登录")
		return
	}
	core.WriteJSON(w, http.StatusCreated, map[string]any{"data": user})
}

// LogoutHandler revokes the current session
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	claims := claimsFromContext(r)
	if user.IsAnonymous() || claims == nil {
		core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewUnauthorizedError("Not authenticated", nil))
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		h.service.logger.WithContext(r.Context()).Error("Logout error", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewInternalError("Logout failed", err))
		return
	}

	clearSessionCookie(w)

	if !isJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListUsersHandler lists every account; registered users only
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		core.HandleError(w, err)
		return
	}
	if users == nil {
		users = []*User{}
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"data": users})
}

// GetUserHandler returns one account
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid user ID", err))
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		core.HandleError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"data": user})
}
