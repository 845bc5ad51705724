package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pkg/errors"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type historyItem struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Reply   string `json:"reply"`
}

// RegisterUser — POST /register-user
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if payload.Name == "" || payload.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "There are neither name or email sent",
		})
		return
	}

	u, err := h.svc.RegisterUser(r.Context(), payload.Name, payload.Email)
	if err != nil {
		log.Println("[http] register error:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"err": "Internal Server Error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"userId": u.UserID,
		"name":   u.Name,
		"email":  u.Email,
	})
}

// Chat — POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if payload.Message == "" || payload.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "message or userId are required",
		})
		return
	}

	reply, err := h.svc.SendChat(r.Context(), payload.UserID, payload.Message)
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message": "User not found",
		})
		return
	case errors.Is(err, ErrUserNotStored):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "user not found in the database",
		})
		return
	case err != nil:
		log.Println("[http] error generating AI message:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal Server Error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// History — POST /get-messages
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if payload.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": " The userId is required",
		})
		return
	}

	history, err := h.svc.History(r.Context(), payload.UserID)
	if err != nil {
		log.Println("[http] error fetching user history:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Internal Server Error",
		})
		return
	}

	items := make([]historyItem, 0, len(history))
	for _, m := range history {
		items = append(items, historyItem{
			UserID:  m.UserID,
			Message: m.Message,
			Reply:   m.Reply,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": items})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
