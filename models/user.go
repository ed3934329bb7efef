package models

import (
	"database/sql/driver"
	"time"
)

// User subscription statuses. Denormalized from the Subscription record —
// active subscription implies premium/lifetime, canceled/unpaid implies free.
const (
	UserStatusFree     = "free"
	UserStatusPremium  = "premium"
	UserStatusLifetime = "lifetime"
)

// User is keyed by an opaque user_id and looked up by lowercased wallet
// address. Created on first wallet login; never hard-deleted.
type User struct {
	UserID             string          `gorm:"primaryKey;column:user_id" json:"userId"`
	WalletAddress      string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"walletAddress"`
	SubscriptionStatus string          `gorm:"type:varchar(16);not null;default:'free'" json:"subscriptionStatus"`
	PreferredLanguage  string          `gorm:"type:varchar(8);not null;default:'en'" json:"preferredLanguage"`
	TrustedContacts    TrustedContacts `gorm:"type:jsonb" json:"trustedContacts"`
	SelectedState      *string         `gorm:"type:varchar(8)" json:"selectedState"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

type TrustedContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship"`
}

type TrustedContacts []TrustedContact

func (t TrustedContacts) Value() (driver.Value, error) { return jsonbValue(t) }
func (t *TrustedContacts) Scan(src any) error          { return jsonbScan(t, src) }
