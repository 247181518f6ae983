package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TableProfiles   = "profiles"
	TableProjects   = "projects"
	TableExperience = "experience"
	TableSkills     = "skills"
	TableMessages   = "messages"
	TableUsers      = "users"
)

// Record is implemented by every row type the store can read and write.
type Record interface {
	TableName() string
}

// User is the dashboard account. Only the owner signs in.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Headline    string    `gorm:"not null" json:"headline"`
	Bio         string    `gorm:"type:text;not null" json:"bio"`
	GithubURL   *string   `json:"github_url"`   // NULL when absent, never ""
	LinkedinURL *string   `json:"linkedin_url"` // NULL when absent, never ""
	Email       *string   `json:"email"`        // NULL when absent, never ""
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Project struct {
	ID                  string                     `gorm:"primaryKey;size:36" json:"id"`
	Title               string                     `gorm:"not null" json:"title"`
	Slug                string                     `gorm:"not null;index" json:"slug"`
	DescriptionMarkdown string                     `gorm:"type:text;not null" json:"description_markdown"`
	TechStack           datatypes.JSONSlice[string] `json:"tech_stack"`
	RepoURL             *string                    `json:"repo_url"`
	LiveURL             *string                    `json:"live_url"`
	ImageURL            *string                    `json:"image_url"`
	WorkType            *string                    `json:"work_type"`
	Featured            bool                       `gorm:"not null;default:false;index" json:"featured"`
	CreatedAt           time.Time                  `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

type Experience struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	Company             string    `gorm:"not null" json:"company"`
	Role                string    `gorm:"not null" json:"role"`
	StartDate           string    `gorm:"size:10;not null;index" json:"start_date"` // YYYY-MM-DD
	EndDate             *string   `gorm:"size:10" json:"end_date"`                  // nil means current position
	DescriptionMarkdown string    `gorm:"type:text;not null" json:"description_markdown"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Skill struct {
	ID              string                     `gorm:"primaryKey;size:36" json:"id"`
	Name            string                     `gorm:"not null" json:"name"`
	Category        string                     `gorm:"not null;index" json:"category"`
	Level           int                        `gorm:"not null" json:"level"`
	YearsExperience *float64                   `json:"years_experience,omitempty"`
	Description     *string                    `gorm:"type:text" json:"description,omitempty"`
	ProjectsUsed    datatypes.JSONSlice[string] `json:"projects_used,omitempty"`
	LastUsed        *string                    `json:"last_used,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (User) TableName() string       { return TableUsers }
func (Profile) TableName() string    { return TableProfiles }
func (Project) TableName() string    { return TableProjects }
func (Experience) TableName() string { return TableExperience }
func (Skill) TableName() string      { return TableSkills }
func (Message) TableName() string    { return TableMessages }

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error       { assignID(&u.ID); return nil }
func (p *Profile) BeforeCreate(tx *gorm.DB) error    { assignID(&p.ID); return nil }
func (p *Project) BeforeCreate(tx *gorm.DB) error    { assignID(&p.ID); return nil }
func (e *Experience) BeforeCreate(tx *gorm.DB) error { assignID(&e.ID); return nil }
func (s *Skill) BeforeCreate(tx *gorm.DB) error      { assignID(&s.ID); return nil }
func (m *Message) BeforeCreate(tx *gorm.DB) error    { assignID(&m.ID); return nil }

// Current reports whether the experience is an ongoing position.
func (e Experience) Current() bool {
	return e.EndDate == nil || *e.EndDate == ""
}
