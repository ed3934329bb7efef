package models

import (
	"database/sql/driver"
	"time"
)

const (
	SharedPrivate  = "private"
	SharedContacts = "shared_contacts"
	SharedLegal    = "shared_legal"
)

// Incident is a user-submitted record of a police interaction. The core
// fields (id, user, timestamp, location) are immutable after creation; only
// summary, shared status, recording URL and metadata may change, and only by
// the owning user.
type Incident struct {
	IncidentID   string           `gorm:"primaryKey;column:incident_id" json:"incidentId"`
	UserID       string           `gorm:"column:user_id;not null;index" json:"userId"`
	Timestamp    time.Time        `gorm:"not null;index" json:"timestamp"`
	Location     IncidentLocation `gorm:"type:jsonb" json:"location"`
	RecordingURL string           `gorm:"column:recording_url" json:"recordingUrl,omitempty"`
	Summary      string           `gorm:"type:text" json:"summary"`
	SharedStatus string           `gorm:"type:varchar(32);not null;default:'private'" json:"sharedStatus"`
	Metadata     IncidentMetadata `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

type IncidentLocation struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
	State     string   `json:"state"`
}

func (l IncidentLocation) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *IncidentLocation) Scan(src any) error          { return jsonbScan(l, src) }

type IncidentMetadata struct {
	Duration            *float64 `json:"duration,omitempty"`
	InteractionType     string   `json:"interactionType"`
	OfficerBadgeNumbers []string `json:"officerBadgeNumbers,omitempty"`
	VehicleInfo         string   `json:"vehicleInfo,omitempty"`
	Notes               string   `json:"notes,omitempty"`
}

func (m IncidentMetadata) Value() (driver.Value, error) { return jsonbValue(m) }
func (m *IncidentMetadata) Scan(src any) error          { return jsonbScan(m, src) }
