package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartGraceAudit schedules a daily report of past_due subscriptions and how
// long each has been waiting. The grace-period policy leaves these users
// untouched; the job only makes the backlog visible.
func (s *SubscriptionService) StartGraceAudit() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("❌ [GRACE_AUDIT] scheduler init failed: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			subs, err := s.audit.PastDueSubscriptions(context.Background())
			if err != nil {
				log.Printf("❌ [GRACE_AUDIT] query failed: %v", err)
				return
			}
			if len(subs) == 0 {
				return
			}
			log.Printf("⚠️ [GRACE_AUDIT] %d subscription(s) past due", len(subs))
			now := time.Now().UTC()
			for _, sub := range subs {
				age := "unknown"
				if sub.CurrentPeriodEnd != nil {
					age = now.Sub(*sub.CurrentPeriodEnd).Round(time.Hour).String()
				}
				log.Printf("⚠️ [GRACE_AUDIT] user %s past due for %s (subscription %s)", sub.UserID, age, sub.ID)
			}
		}),
	)
	if err != nil {
		log.Printf("❌ [GRACE_AUDIT] job registration failed: %v", err)
	}
}
