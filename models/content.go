package models

import (
	"database/sql/driver"
	"time"
)

const (
	GuideTypeBasic   = "basic"
	GuideTypePremium = "premium"
)

// Guide is a state-specific legal-rights guide. Read-mostly reference
// content; written only through the authoring endpoint.
type Guide struct {
	GuideID     string       `gorm:"primaryKey;column:guide_id" json:"guideId"`
	State       string       `gorm:"type:varchar(8);not null;index" json:"state"`
	Language    string       `gorm:"type:varchar(8);not null;index" json:"language"`
	Content     GuideContent `gorm:"type:jsonb" json:"content"`
	Type        string       `gorm:"type:varchar(16);not null" json:"type"`
	LastUpdated string       `gorm:"type:varchar(32)" json:"lastUpdated"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"-"`
}

type GuideContent struct {
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Sections []GuideSection `json:"sections"`
}

type GuideSection struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Importance string `json:"importance"` // critical, important, helpful
}

func (g GuideContent) Value() (driver.Value, error) { return jsonbValue(g) }
func (g *GuideContent) Scan(src any) error          { return jsonbScan(g, src) }

// Script is a scripted phrase set for a police-interaction scenario.
// StateApplicability may contain "ALL" for nationwide scripts.
type Script struct {
	ScriptID           string        `gorm:"primaryKey;column:script_id" json:"scriptId"`
	Scenario           string        `gorm:"type:varchar(32);not null;index" json:"scenario"`
	Language           string        `gorm:"type:varchar(8);not null;index" json:"language"`
	Content            ScriptContent `gorm:"type:jsonb" json:"content"`
	StateApplicability StringList    `gorm:"column:state_applicability;type:jsonb" json:"stateApplicability"`
	CreatedAt          time.Time     `gorm:"autoCreateTime" json:"-"`
}

type ScriptContent struct {
	Title     string   `json:"title"`
	Situation string   `json:"situation"`
	DoSay     []string `json:"doSay"`
	DontSay   []string `json:"dontSay"`
	KeyPoints []string `json:"keyPoints"`
}

func (s ScriptContent) Value() (driver.Value, error) { return jsonbValue(s) }
func (s *ScriptContent) Scan(src any) error          { return jsonbScan(s, src) }

type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *StringList) Scan(src any) error          { return jsonbScan(l, src) }

// Contains reports whether v is present in the list.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}
