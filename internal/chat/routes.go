package chat

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/register-user", h.RegisterUser)
	r.Post("/chat", h.Chat)
	r.Post("/get-messages", h.History)
}
