// Package models holds the gorm entities shared by every feature package.
// Table names come from gorm's naming strategy so the same structs work
// under a Postgres schema prefix and under sqlite.
package models

import "time"

type Member struct {
	ID              uint      `gorm:"primaryKey"`
	Name            string    `gorm:"not null"`
	Email           string    `gorm:"not null;uniqueIndex"`
	HashedPassword  string    `gorm:"not null"`
	JoinDate        time.Time `gorm:"type:date"`
	ProfilePhotoURL *string
	LastLogin       *time.Time
	CreatedAt       time.Time

	Programs    []Program          `gorm:"many2many:member_programs;joinForeignKey:MemberID;joinReferences:ProgramID"`
	Challenges  []CurrentChallenge `gorm:"many2many:member_challenges;joinForeignKey:MemberID;joinReferences:ChallengeID"`
	Attendances []Attendance       `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
}

type Program struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Duration    string
	Benefits    string
	ImageURL    string

	Members []Member `gorm:"many2many:member_programs;joinForeignKey:ProgramID;joinReferences:MemberID"`
}

type Trainer struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Title    string
	Bio      string `gorm:"type:text"`
	ImageURL string

	Achievements []Achievement `gorm:"foreignKey:TrainerID;constraint:OnDelete:CASCADE"`
}

type Achievement struct {
	ID          uint   `gorm:"primaryKey"`
	TrainerID   uint   `gorm:"not null;index"`
	Achievement string `gorm:"not null"`
}

type CurrentChallenge struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	ImageURL    string
	IsCurrent   bool `gorm:"not null;default:false;uniqueIndex:idx_current_challenges_current,where:is_current"`

	Participants []Member `gorm:"many2many:member_challenges;joinForeignKey:ChallengeID;joinReferences:MemberID"`
}

type Attendance struct {
	ID          uint      `gorm:"primaryKey"`
	MemberID    uint      `gorm:"not null;index"`
	CheckInTime time.Time `gorm:"not null;index"`
}

type Admin struct {
	ID             uint   `gorm:"primaryKey"`
	AdminID        string `gorm:"not null;uniqueIndex"`
	HashedPassword string `gorm:"not null"`
	Email          string `gorm:"not null"`
	Name           string
	CreatedAt      time.Time
	LastLogin      *time.Time
	IsActive       bool `gorm:"not null;default:true"`
}

// Session is an opaque bearer token issued on login.
type Session struct {
	Token     string    `gorm:"primaryKey"`
	Role      string    `gorm:"not null;index:idx_session_subject"`
	SubjectID uint      `gorm:"not null;index:idx_session_subject"`
	ExpiresAt time.Time `gorm:"not null"`
}

// ContactSubmission records a signed form delivery so retries are not
// mailed twice.
type ContactSubmission struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID string `gorm:"not null;uniqueIndex"`
	Name         string
	Email        string
	Message      string `gorm:"type:text"`
	Payload      string `gorm:"type:text"`
	CreatedAt    time.Time
}

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{
		&Program{},
		&CurrentChallenge{},
		&Member{},
		&Attendance{},
		&Trainer{},
		&Achievement{},
		&Admin{},
		&Session{},
		&ContactSubmission{},
	}
}
