package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Brief status constants
const (
	BriefStatusPending    = "pending"
	BriefStatusInProgress = "in_progress"
	BriefStatusSubmitted  = "submitted"
	BriefStatusOverdue    = "overdue"
)

// Brief represents a creative work assignment tracked through a status
// lifecycle. CreatorEmail is set at creation and never reassigned; MarkURL
// is set only when the assigned creator submits finished work.
type Brief struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Title        string `gorm:"not null"`
	Client       string `gorm:"not null"`
	CreatorEmail string `gorm:"not null;index"`
	DueDate      time.Time
	Status       string         `gorm:"not null;default:'pending';index"`
	Script       string         `gorm:"type:text"`
	Shots        datatypes.JSON `gorm:"type:jsonb"`
	AirLink      string
	MarkURL      string `gorm:"column:mark_url"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (b *Brief) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// SetShots stores the ordered shot list as JSONB.
func (b *Brief) SetShots(shots []string) error {
	data, err := json.Marshal(shots)
	if err != nil {
		return err
	}
	b.Shots = datatypes.JSON(data)
	return nil
}

// ShotList returns the ordered shot list, or nil when none is stored.
func (b *Brief) ShotList() []string {
	if len(b.Shots) == 0 {
		return nil
	}
	var shots []string
	if err := json.Unmarshal(b.Shots, &shots); err != nil {
		return nil
	}
	return shots
}
