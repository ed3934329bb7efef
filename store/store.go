// Package store defines the persistence interfaces for the service. The
// production implementation is GORM/Postgres (gorm.go); tests substitute
// in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"lexiguard-backend/models"
)

// ErrNotFound is returned by all keyed lookups when no row matches.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	UserByWallet(ctx context.Context, walletAddress string) (*models.User, error)
	UserByID(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	// TouchUser bumps updated_at, recording a repeat login.
	TouchUser(ctx context.Context, userID string) error
	SetUserSubscriptionStatus(ctx context.Context, userID, status string) error
}

// SubscriptionChanges carries the mutable fields of a provider-keyed update.
// Nil period pointers leave the stored values untouched.
type SubscriptionChanges struct {
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

type SubscriptionStore interface {
	SubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error)
	// UpsertSubscription inserts or, on user_id conflict, updates the
	// existing row. Webhook redelivery makes this the only safe write shape.
	UpsertSubscription(ctx context.Context, sub *models.Subscription) error
	// UpdateSubscriptionByProviderID applies changes to the row carrying the
	// given provider subscription id. A missing row is not an error.
	UpdateSubscriptionByProviderID(ctx context.Context, providerSubID string, ch SubscriptionChanges) error
	SetSubscriptionStatusByUser(ctx context.Context, userID, status string) error
}

type GuideFilter struct {
	State    string
	Language string
	Type     string
}

type ScriptFilter struct {
	Scenario string
	Language string
	State    string
}

type ContentStore interface {
	Guides(ctx context.Context, f GuideFilter) ([]models.Guide, error)
	CreateGuide(ctx context.Context, g *models.Guide) error
	Scripts(ctx context.Context, f ScriptFilter) ([]models.Script, error)
	CreateScript(ctx context.Context, s *models.Script) error
}

// IncidentChanges carries the user-mutable incident fields. Nil means
// "leave unchanged".
type IncidentChanges struct {
	Summary      *string
	SharedStatus *string
	Metadata     *models.IncidentMetadata
	RecordingURL *string
}

type IncidentStore interface {
	IncidentsByUser(ctx context.Context, userID string, limit, offset int) ([]models.Incident, error)
	CreateIncident(ctx context.Context, in *models.Incident) error
	UpdateIncident(ctx context.Context, incidentID string, ch IncidentChanges) (*models.Incident, error)
}

// Drift is a User/Subscription pair whose denormalized statuses disagree.
type Drift struct {
	UserID             string
	SubscriptionStatus string
	UserStatus         string
}

// AuditStore backs the read-only background audits.
type AuditStore interface {
	PastDueSubscriptions(ctx context.Context) ([]models.Subscription, error)
	DriftedPairs(ctx context.Context) ([]Drift, error)
}

// Store is the full persistence surface, implemented by GormStore.
type Store interface {
	UserStore
	SubscriptionStore
	ContentStore
	IncidentStore
	AuditStore
}
