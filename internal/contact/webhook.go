package contact

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SignatureHeader    = "Framer-Signature"
	SubmissionIDHeader = "Framer-Webhook-Submission-Id"
)

// Webhook accepts contact forms posted by the site builder. Each delivery
// is signed with HMAC-SHA256 over the body followed by the submission id.
type Webhook struct {
	db     *gorm.DB
	mailer Mailer
	inbox  string
	secret string
}

func NewWebhook(db *gorm.DB, mailer Mailer, inbox, secret string) *Webhook {
	return &Webhook{db: db, mailer: mailer, inbox: inbox, secret: secret}
}

func (wh *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		apperr.Write(w, apperr.Validation("payload too large or unreadable"))
		return
	}

	sid := r.Header.Get(SubmissionIDHeader)
	if sid == "" {
		apperr.Write(w, apperr.Validation("missing submission id"))
		return
	}
	if !VerifySignature(r.Header.Get(SignatureHeader), sid, raw, wh.secret) {
		apperr.Write(w, apperr.Unauthorized("invalid signature"))
		return
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		apperr.Write(w, apperr.Validation("bad json"))
		return
	}

	sub := models.ContactSubmission{
		SubmissionID: sid,
		Name:         str(m, "Name", "name"),
		Email:        str(m, "Email", "email"),
		Message:      str(m, "Message", "message", "About You", "about_you"),
		Payload:      string(raw),
	}
	// The row commits only after the mail is sent.
	err = wh.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "submission_id"}}, DoNothing: true}).
			Create(&sub)
		if res.Error != nil {
			return fmt.Errorf("store submission %s: %w", sid, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		err := wh.mailer.Send(r.Context(), Message{
			To:      wh.inbox,
			ReplyTo: sub.Email,
			Subject: "New Contact Form Submission",
			Body:    fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", sub.Name, sub.Email, sub.Message),
		})
		if err != nil {
			log.Printf("[contact] webhook delivery %s failed: %v", sid, err)
			return apperr.Upstream("Failed to send message. Please try again later.", err)
		}
		return nil
	})
	if err != nil {
		apperr.Write(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// VerifySignature checks a "sha256=<hex>" signature in constant time.
func VerifySignature(sig, sid string, raw []byte, secret string) bool {
	if secret == "" || !strings.HasPrefix(sig, "sha256=") {
		return false
	}
	expected := "sha256=" + hex.EncodeToString(sign(secret, sid, raw))
	return hmac.Equal([]byte(sig), []byte(expected))
}

func sign(secret, sid string, raw []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	mac.Write([]byte(sid))
	return mac.Sum(nil)
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
