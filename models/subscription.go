package models

import "time"

// Subscription statuses mirror the billing provider's values. Only the four
// below are written by this service; other provider statuses (incomplete,
// trialing, ...) pass through the webhook path unchanged.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
	SubscriptionUnpaid   = "unpaid"
)

const (
	PlanMonthly  = "monthly"
	PlanLifetime = "lifetime"
)

// Subscription is the local mirror of the billing relationship, at most one
// row per user. StripeSubscriptionID is empty for one-time lifetime
// purchases, which have no recurring billing object.
type Subscription struct {
	ID                   string     `gorm:"primaryKey" json:"id"`
	UserID               string     `gorm:"column:user_id;uniqueIndex;not null" json:"userId"`
	StripeCustomerID     string     `gorm:"type:varchar(64)" json:"stripeCustomerId"`
	StripeSubscriptionID string     `gorm:"type:varchar(64);index" json:"stripeSubscriptionId,omitempty"`
	Status               string     `gorm:"type:varchar(32);not null" json:"status"`
	PlanType             string     `gorm:"type:varchar(16);not null" json:"planType"`
	CurrentPeriodStart   *time.Time `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
