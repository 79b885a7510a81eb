// Package members owns member accounts, their enrollments and challenge
// participation, and profile photos.
package members

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/db"
	"github.com/ReviveFitness/RF-Backend/internal/models"
	"github.com/ReviveFitness/RF-Backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = apperr.Validation("An account with this email already exists")

var errBadCredentials = apperr.InvalidCredentials("Invalid email or password")

// NewMember is the input to Create. A zero JoinDate means today.
type NewMember struct {
	Name            string
	Email           string
	Password        string
	JoinDate        time.Time
	ProfilePhotoURL *string
}

// MemberChanges replaces the mutable profile fields. A zero JoinDate keeps
// the stored one.
type MemberChanges struct {
	Name            string
	Email           string
	JoinDate        time.Time
	ProfilePhotoURL *string
}

type Service struct {
	db     *gorm.DB
	photos storage.PhotoStore
	now    func() time.Time
}

func NewService(db *gorm.DB, photos storage.PhotoStore) *Service {
	return &Service{db: db, photos: photos, now: time.Now}
}

// NormalizeEmail trims and case-folds an address for storage and lookup.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func (s *Service) List(ctx context.Context) ([]models.Member, error) {
	var list []models.Member
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (models.Member, error) {
	return findMember(s.db.WithContext(ctx), id)
}

func (s *Service) Create(ctx context.Context, nm NewMember) (models.Member, error) {
	tx := s.db.WithContext(ctx)
	email := NormalizeEmail(nm.Email)

	taken, err := emailTaken(tx, email, 0)
	if err != nil {
		return models.Member{}, err
	}
	if taken {
		return models.Member{}, ErrDuplicateEmail
	}
	if !auth.PasswordMeetsPolicy(nm.Password) {
		return models.Member{}, auth.ErrWeakPassword
	}

	hashed, err := auth.HashPassword(nm.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.Member{}, apperr.Validation("Password must be at most 72 bytes long")
	}
	if err != nil {
		return models.Member{}, apperr.Internal("hash password", err)
	}

	joinDate := nm.JoinDate
	if joinDate.IsZero() {
		joinDate = today(s.now())
	}

	m := models.Member{
		Name:            strings.TrimSpace(nm.Name),
		Email:           email,
		HashedPassword:  hashed,
		JoinDate:        joinDate,
		ProfilePhotoURL: nm.ProfilePhotoURL,
	}
	if err := tx.Create(&m).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return models.Member{}, apperr.Conflict("An account with this email already exists", err)
		}
		return models.Member{}, fmt.Errorf("create member: %w", err)
	}

	log.Printf("[members] created member %d", m.ID)
	return m, nil
}

func (s *Service) Update(ctx context.Context, id uint, ch MemberChanges) (models.Member, error) {
	tx := s.db.WithContext(ctx)
	m, err := findMember(tx, id)
	if err != nil {
		return models.Member{}, err
	}

	email := NormalizeEmail(ch.Email)
	if email != m.Email {
		taken, err := emailTaken(tx, email, id)
		if err != nil {
			return models.Member{}, err
		}
		if taken {
			return models.Member{}, ErrDuplicateEmail
		}
	}

	m.Name = strings.TrimSpace(ch.Name)
	m.Email = email
	if !ch.JoinDate.IsZero() {
		m.JoinDate = ch.JoinDate
	}
	m.ProfilePhotoURL = ch.ProfilePhotoURL

	err = tx.Model(&m).Updates(map[string]any{
		"name":              m.Name,
		"email":             m.Email,
		"join_date":         m.JoinDate,
		"profile_photo_url": m.ProfilePhotoURL,
	}).Error
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Member{}, apperr.Conflict("An account with this email already exists", err)
		}
		return models.Member{}, fmt.Errorf("update member %d: %w", id, err)
	}
	return m, nil
}

// Delete removes the member with its attendance, enrollments, challenge
// participation and sessions.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMember(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return fmt.Errorf("delete attendance of member %d: %w", id, err)
		}
		if err := tx.Model(&m).Association("Programs").Clear(); err != nil {
			return fmt.Errorf("clear enrollments of member %d: %w", id, err)
		}
		if err := tx.Model(&m).Association("Challenges").Clear(); err != nil {
			return fmt.Errorf("clear challenges of member %d: %w", id, err)
		}
		if err := auth.RevokeSubject(tx, auth.RoleMember, id); err != nil {
			return fmt.Errorf("revoke sessions of member %d: %w", id, err)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return fmt.Errorf("delete member %d: %w", id, err)
		}
		return nil
	})
}

// Authenticate does not reveal which of email or password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.Member, error) {
	var m models.Member
	err := s.db.WithContext(ctx).First(&m, "email = ?", NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, errBadCredentials
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("load member by email: %w", err)
	}
	if !auth.CheckPassword(m.HashedPassword, password) {
		return models.Member{}, errBadCredentials
	}
	return m, nil
}

// UpdateLastLogin stamps the login time. Unknown ids are ignored.
func (s *Service) UpdateLastLogin(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Update("last_login", s.now()).Error
}

func (s *Service) EnrollInProgram(ctx context.Context, memberID, programID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, p, err := findMemberAndProgram(tx, memberID, programID)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Programs").Append(&p); err != nil {
			return fmt.Errorf("enroll member %d in program %d: %w", memberID, programID, err)
		}
		return nil
	})
}

func (s *Service) LeaveProgram(ctx context.Context, memberID, programID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, p, err := findMemberAndProgram(tx, memberID, programID)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Programs").Delete(&p); err != nil {
			return fmt.Errorf("remove member %d from program %d: %w", memberID, programID, err)
		}
		return nil
	})
}

func (s *Service) JoinChallenge(ctx context.Context, memberID, challengeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, c, err := findMemberAndChallenge(tx, memberID, challengeID)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Challenges").Append(&c); err != nil {
			return fmt.Errorf("join member %d to challenge %d: %w", memberID, challengeID, err)
		}
		return nil
	})
}

func (s *Service) LeaveChallenge(ctx context.Context, memberID, challengeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, c, err := findMemberAndChallenge(tx, memberID, challengeID)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Challenges").Delete(&c); err != nil {
			return fmt.Errorf("remove member %d from challenge %d: %w", memberID, challengeID, err)
		}
		return nil
	})
}

func (s *Service) ListPrograms(ctx context.Context, memberID uint) ([]models.Program, error) {
	tx := s.db.WithContext(ctx)
	m, err := findMember(tx, memberID)
	if err != nil {
		return nil, err
	}
	var list []models.Program
	if err := tx.Model(&m).Association("Programs").Find(&list); err != nil {
		return nil, fmt.Errorf("list programs of member %d: %w", memberID, err)
	}
	slices.SortFunc(list, func(a, b models.Program) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (s *Service) ListChallenges(ctx context.Context, memberID uint) ([]models.CurrentChallenge, error) {
	tx := s.db.WithContext(ctx)
	m, err := findMember(tx, memberID)
	if err != nil {
		return nil, err
	}
	var list []models.CurrentChallenge
	if err := tx.Model(&m).Association("Challenges").Find(&list); err != nil {
		return nil, fmt.Errorf("list challenges of member %d: %w", memberID, err)
	}
	slices.SortFunc(list, func(a, b models.CurrentChallenge) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

// UpdatePrograms replaces the member's enrollments with programIDs.
// Duplicates collapse; any unknown id aborts without changes.
func (s *Service) UpdatePrograms(ctx context.Context, memberID uint, programIDs []uint) ([]models.Program, error) {
	ids := dedup(programIDs)

	var enrolled []models.Program
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMember(tx, memberID)
		if err != nil {
			return err
		}

		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Order("id").Find(&enrolled).Error; err != nil {
				return fmt.Errorf("load programs: %w", err)
			}
			if missing, ok := firstMissing(ids, enrolled); ok {
				return apperr.NotFound("Program not found with id %d", missing)
			}
		}

		if err := tx.Model(&m).Association("Programs").Clear(); err != nil {
			return fmt.Errorf("clear enrollments of member %d: %w", memberID, err)
		}
		if len(enrolled) > 0 {
			if err := tx.Model(&m).Association("Programs").Append(&enrolled); err != nil {
				return fmt.Errorf("enroll member %d: %w", memberID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[members] updated programs for member %d: %d programs", memberID, len(enrolled))
	if enrolled == nil {
		enrolled = []models.Program{}
	}
	return enrolled, nil
}

// SaveProfilePhoto stores data as "<id>-profile<ext>", replacing any earlier
// photo of the member, and records the resulting URL.
func (s *Service) SaveProfilePhoto(ctx context.Context, memberID uint, data []byte, fileName string) (string, error) {
	tx := s.db.WithContext(ctx)
	m, err := findMember(tx, memberID)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-profile%s", memberID, photoExt(fileName))
	url, err := s.photos.Store(ctx, data, name)
	if err != nil {
		return "", apperr.Upstream("Could not store file "+name, err)
	}

	if err := tx.Model(&m).Update("profile_photo_url", url).Error; err != nil {
		return "", fmt.Errorf("record photo of member %d: %w", memberID, err)
	}
	return url, nil
}

func findMember(tx *gorm.DB, id uint) (models.Member, error) {
	var m models.Member
	err := tx.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, apperr.NotFound("Member not found with id %d", id)
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("load member %d: %w", id, err)
	}
	return m, nil
}

func findMemberAndProgram(tx *gorm.DB, memberID, programID uint) (models.Member, models.Program, error) {
	m, err := findMember(tx, memberID)
	if err != nil {
		return models.Member{}, models.Program{}, err
	}
	var p models.Program
	err = tx.First(&p, programID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, models.Program{}, apperr.NotFound("Program not found with id %d", programID)
	}
	if err != nil {
		return models.Member{}, models.Program{}, fmt.Errorf("load program %d: %w", programID, err)
	}
	return m, p, nil
}

func findMemberAndChallenge(tx *gorm.DB, memberID, challengeID uint) (models.Member, models.CurrentChallenge, error) {
	m, err := findMember(tx, memberID)
	if err != nil {
		return models.Member{}, models.CurrentChallenge{}, err
	}
	var c models.CurrentChallenge
	err = tx.First(&c, challengeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, models.CurrentChallenge{}, apperr.NotFound("Challenge not found with id %d", challengeID)
	}
	if err != nil {
		return models.Member{}, models.CurrentChallenge{}, fmt.Errorf("load challenge %d: %w", challengeID, err)
	}
	return m, c, nil
}

func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Member{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstMissing(ids []uint, found []models.Program) (uint, bool) {
	have := make(map[uint]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}
	return 0, false
}

// photoExt keeps a short alphanumeric extension and drops anything else.
func photoExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
