package contact

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

type FormRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Name      string `json:"name" validate:"max=200"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=40"`
	Subject   string `json:"subject" validate:"max=200"`
	Message   string `json:"message" validate:"required,max=5000"`
}

// DisplayName prefers the explicit name and falls back to first + last.
func (f FormRequest) DisplayName() string {
	if n := strings.TrimSpace(f.Name); n != "" {
		return n
	}
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

type Handler struct {
	mailer Mailer
	inbox  string
}

func NewHandler(mailer Mailer, inbox string) *Handler {
	return &Handler{mailer: mailer, inbox: inbox}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form FormRequest
	if err := utils.DecodeJSON(r, &form); err != nil {
		apperr.Write(w, err)
		return
	}

	subject := "New Contact Form Submission"
	if s := strings.TrimSpace(form.Subject); s != "" {
		subject += ": " + s
	}
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s",
		form.DisplayName(), form.Email, form.Phone, form.Message)

	err := h.mailer.Send(r.Context(), Message{
		To:      h.inbox,
		ReplyTo: form.Email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		log.Printf("[contact] delivery failed: %v", err)
		apperr.Write(w, apperr.Upstream("Failed to send message. Please try again later.", err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully!"})
}

// SetupRoutes mounts the contact form. wh may be nil when no webhook
// secret is configured.
func SetupRoutes(h *Handler, wh *Webhook) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	if wh != nil {
		r.Post("/webhook", wh.Receive)
	}
	return r
}
