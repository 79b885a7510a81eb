package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/models"
	"github.com/ReviveFitness/RF-Backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore issues and resolves opaque bearer tokens.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Issue creates a fresh token for the subject. Any previous token for the
// same subject keeps working until it expires.
func (s *SessionStore) Issue(ctx context.Context, role string, subjectID uint) (string, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		Role:      role,
		SubjectID: subjectID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}

func (s *SessionStore) FindSessionByID(ctx context.Context, token string) (utils.SessionData, error) {
	var session models.Session

	err := s.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SessionData{}, ErrSessionNotFound
	}
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		Role:      session.Role,
		SubjectID: session.SubjectID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Revoke deletes one token. Unknown tokens are not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// RevokeSubject deletes every token of a subject, using tx when given.
func RevokeSubject(tx *gorm.DB, role string, subjectID uint) error {
	return tx.Where("role = ? AND subject_id = ?", role, subjectID).Delete(&models.Session{}).Error
}
