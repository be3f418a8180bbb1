package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
)

const minPasswordLength = 8

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves account registration and login. Neither route requires a bearer token.
type AuthHandler struct {
	backend *Backend
}

// NewAuthHandler creates an [AuthHandler] over backend.
func NewAuthHandler(backend *Backend) *AuthHandler {
	return &AuthHandler{backend: backend}
}

// Routes implements [Handler].
func (h *AuthHandler) Routes() []string {
	return []string{"POST /auth/register", "POST /auth/login"}
}

// ServeHTTP implements [http.Handler].
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Ungültiger JSON-Body")
		return
	}

	switch r.URL.Path {
	case "/auth/register":
		h.register(w, in)
	case "/auth/login":
		h.login(w, in)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, in credentials) {
	if strings.TrimSpace(in.Name) == "" || !validEmail(in.Email) || len(in.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "Ungültige Eingaben (PW ≥8, E-Mail-Format)")
		return
	}

	user, err := h.backend.Register(in.Name, in.Email, in.Password)
	switch {
	case errors.Is(err, errEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, errPasswordLength):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Interner Serverfehler")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Konto erstellt", "user": user})
}

func (h *AuthHandler) login(w http.ResponseWriter, in credentials) {
	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "E-Mail und Passwort erforderlich")
		return
	}

	token, user, err := h.backend.Login(in.Email, in.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"access_token": token, "user": user})
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == strings.TrimSpace(email) && strings.Contains(addr.Address, ".")
}
