package workers

import (
	"context"
	"log"
	"time"

	"lexiguard-backend/store"
)

// ConsistencyAuditor watches for drift between Subscription.status and the
// denormalized User.subscriptionStatus. The webhook path writes the two
// records sequentially without a transaction, so a failed second write
// leaves them disagreeing; this audit makes that visible. It never repairs
// anything on its own.
type ConsistencyAuditor struct {
	Store store.AuditStore
}

func NewConsistencyAuditor(st store.AuditStore) *ConsistencyAuditor {
	return &ConsistencyAuditor{Store: st}
}

// PollConsistency runs the drift audit on a fixed interval until ctx is
// canceled.
func PollConsistency(ctx context.Context, auditor *ConsistencyAuditor, pollInterval time.Duration) {
	log.Println("Starting subscription consistency audit...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Consistency audit stopped.")
			return
		case <-ticker.C:
			drifts, err := auditor.Store.DriftedPairs(ctx)
			if err != nil {
				log.Printf("❌ [CONSISTENCY] audit query failed: %v", err)
				continue
			}

			if len(drifts) == 0 {
				continue
			}

			log.Printf("⚠️ [CONSISTENCY] %d drifted user/subscription pair(s) detected", len(drifts))
			for _, d := range drifts {
				log.Printf("⚠️ [CONSISTENCY] user %s: subscription status %q but user status %q", d.UserID, d.SubscriptionStatus, d.UserStatus)
			}
		}
	}
}
