package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lexiguard-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the Postgres-backed implementation of Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) UserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) UserByID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormStore) TouchUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("updated_at", time.Now().UTC()).Error
}

func (s *GormStore) SetUserSubscriptionStatus(ctx context.Context, userID, status string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"subscription_status": status,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (s *GormStore) SubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	// Lifetime purchases carry no provider subscription id; on conflict they
	// must not clear one written earlier by a recurring-subscription event.
	cols := []string{"stripe_customer_id", "status", "plan_type", "current_period_start", "current_period_end", "updated_at"}
	if sub.StripeSubscriptionID != "" {
		cols = append(cols, "stripe_subscription_id")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(sub).Error
}

func (s *GormStore) UpdateSubscriptionByProviderID(ctx context.Context, providerSubID string, ch SubscriptionChanges) error {
	updates := map[string]any{
		"status":     ch.Status,
		"updated_at": time.Now().UTC(),
	}
	if ch.CurrentPeriodStart != nil {
		updates["current_period_start"] = ch.CurrentPeriodStart
	}
	if ch.CurrentPeriodEnd != nil {
		updates["current_period_end"] = ch.CurrentPeriodEnd
	}
	return s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", providerSubID).
		Updates(updates).Error
}

func (s *GormStore) SetSubscriptionStatusByUser(ctx context.Context, userID, status string) error {
	return s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *GormStore) Guides(ctx context.Context, f GuideFilter) ([]models.Guide, error) {
	q := s.db.WithContext(ctx).Model(&models.Guide{})
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var guides []models.Guide
	if err := q.Order("last_updated DESC").Find(&guides).Error; err != nil {
		return nil, err
	}
	return guides, nil
}

func (s *GormStore) CreateGuide(ctx context.Context, g *models.Guide) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GormStore) Scripts(ctx context.Context, f ScriptFilter) ([]models.Script, error) {
	q := s.db.WithContext(ctx).Model(&models.Script{})
	if f.Scenario != "" {
		q = q.Where("scenario = ?", f.Scenario)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.State != "" {
		needle, err := json.Marshal([]string{f.State})
		if err != nil {
			return nil, err
		}
		q = q.Where(`state_applicability @> ? OR state_applicability @> '["ALL"]'`, string(needle))
	}
	var scripts []models.Script
	if err := q.Order("created_at DESC").Find(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

func (s *GormStore) CreateScript(ctx context.Context, sc *models.Script) error {
	return s.db.WithContext(ctx).Create(sc).Error
}

func (s *GormStore) IncidentsByUser(ctx context.Context, userID string, limit, offset int) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (s *GormStore) CreateIncident(ctx context.Context, in *models.Incident) error {
	return s.db.WithContext(ctx).Create(in).Error
}

func (s *GormStore) UpdateIncident(ctx context.Context, incidentID string, ch IncidentChanges) (*models.Incident, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if ch.Summary != nil {
		updates["summary"] = *ch.Summary
	}
	if ch.SharedStatus != nil {
		updates["shared_status"] = *ch.SharedStatus
	}
	if ch.Metadata != nil {
		updates["metadata"] = *ch.Metadata
	}
	if ch.RecordingURL != nil {
		updates["recording_url"] = *ch.RecordingURL
	}
	res := s.db.WithContext(ctx).Model(&models.Incident{}).
		Where("incident_id = ?", incidentID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var in models.Incident
	if err := s.db.WithContext(ctx).Where("incident_id = ?", incidentID).First(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *GormStore) PastDueSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Where("status = ?", models.SubscriptionPastDue).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *GormStore) DriftedPairs(ctx context.Context) ([]Drift, error) {
	var drifts []Drift
	err := s.db.WithContext(ctx).Raw(`
		SELECT s.user_id, s.status AS subscription_status, u.subscription_status AS user_status
		FROM subscriptions s
		JOIN users u ON u.user_id = s.user_id
		WHERE (s.status = 'active' AND u.subscription_status = 'free')
		   OR (s.status IN ('canceled', 'unpaid') AND u.subscription_status <> 'free')`).
		Scan(&drifts).Error
	if err != nil {
		return nil, err
	}
	return drifts, nil
}
