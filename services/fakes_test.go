package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"lexiguard-backend/models"
	"lexiguard-backend/store"

	stripe "github.com/stripe/stripe-go/v81"
)

// Hand-written in-memory fakes for the store and billing interfaces. Setting
// err on a store fake makes every call fail, simulating an unavailable
// database.

type fakeUserStore struct {
	users map[string]*models.User // by userID
	err   error
	// statusErr fails only SetUserSubscriptionStatus, for exercising
	// partial-write paths where the subscription row lands first.
	statusErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) add(u *models.User) {
	stored := *u
	f.users[u.UserID] = &stored
}

func (f *fakeUserStore) UserByWallet(_ context.Context, walletAddress string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.WalletAddress == walletAddress {
			result := *u
			return &result, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) UserByID(_ context.Context, userID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	result := *u
	return &result, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	stored := *u
	f.users[u.UserID] = &stored
	return nil
}

func (f *fakeUserStore) TouchUser(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	if u, ok := f.users[userID]; ok {
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (f *fakeUserStore) SetUserSubscriptionStatus(_ context.Context, userID, status string) error {
	if f.err != nil {
		return f.err
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	if u, ok := f.users[userID]; ok {
		u.SubscriptionStatus = status
	}
	return nil
}

type fakeSubscriptionStore struct {
	byUser map[string]*models.Subscription
	err    error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{byUser: make(map[string]*models.Subscription)}
}

func (f *fakeSubscriptionStore) add(sub *models.Subscription) {
	stored := *sub
	f.byUser[sub.UserID] = &stored
}

func (f *fakeSubscriptionStore) SubscriptionByUser(_ context.Context, userID string) (*models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.byUser[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	result := *sub
	return &result, nil
}

func (f *fakeSubscriptionStore) UpsertSubscription(_ context.Context, sub *models.Subscription) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.byUser[sub.UserID]
	if !ok {
		stored := *sub
		f.byUser[sub.UserID] = &stored
		return nil
	}
	existing.StripeCustomerID = sub.StripeCustomerID
	existing.Status = sub.Status
	existing.PlanType = sub.PlanType
	existing.CurrentPeriodStart = sub.CurrentPeriodStart
	existing.CurrentPeriodEnd = sub.CurrentPeriodEnd
	if sub.StripeSubscriptionID != "" {
		existing.StripeSubscriptionID = sub.StripeSubscriptionID
	}
	return nil
}

func (f *fakeSubscriptionStore) UpdateSubscriptionByProviderID(_ context.Context, providerSubID string, ch store.SubscriptionChanges) error {
	if f.err != nil {
		return f.err
	}
	for _, sub := range f.byUser {
		if sub.StripeSubscriptionID != providerSubID {
			continue
		}
		sub.Status = ch.Status
		if ch.CurrentPeriodStart != nil {
			sub.CurrentPeriodStart = ch.CurrentPeriodStart
		}
		if ch.CurrentPeriodEnd != nil {
			sub.CurrentPeriodEnd = ch.CurrentPeriodEnd
		}
	}
	return nil
}

func (f *fakeSubscriptionStore) SetSubscriptionStatusByUser(_ context.Context, userID, status string) error {
	if f.err != nil {
		return f.err
	}
	if sub, ok := f.byUser[userID]; ok {
		sub.Status = status
	}
	return nil
}

type fakeContentStore struct {
	guides  []models.Guide
	scripts []models.Script
	err     error
}

func (f *fakeContentStore) Guides(_ context.Context, filter store.GuideFilter) ([]models.Guide, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Guide, 0, len(f.guides))
	for _, g := range f.guides {
		if filter.State != "" && g.State != filter.State {
			continue
		}
		if filter.Language != "" && g.Language != filter.Language {
			continue
		}
		if filter.Type != "" && g.Type != filter.Type {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeContentStore) CreateGuide(_ context.Context, g *models.Guide) error {
	if f.err != nil {
		return f.err
	}
	f.guides = append(f.guides, *g)
	return nil
}

func (f *fakeContentStore) Scripts(_ context.Context, filter store.ScriptFilter) ([]models.Script, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Script, 0, len(f.scripts))
	for _, s := range f.scripts {
		if filter.Scenario != "" && s.Scenario != filter.Scenario {
			continue
		}
		if filter.Language != "" && s.Language != filter.Language {
			continue
		}
		if filter.State != "" && !s.StateApplicability.Contains("ALL") && !s.StateApplicability.Contains(filter.State) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeContentStore) CreateScript(_ context.Context, s *models.Script) error {
	if f.err != nil {
		return f.err
	}
	f.scripts = append(f.scripts, *s)
	return nil
}

type fakeIncidentStore struct {
	byID map[string]*models.Incident
	err  error
}

func newFakeIncidentStore() *fakeIncidentStore {
	return &fakeIncidentStore{byID: make(map[string]*models.Incident)}
}

func (f *fakeIncidentStore) IncidentsByUser(_ context.Context, userID string, limit, offset int) ([]models.Incident, error) {
	if f.err != nil {
		return nil, f.err
	}
	var all []models.Incident
	for _, in := range f.byID {
		if in.UserID == userID {
			all = append(all, *in)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	if offset >= len(all) {
		return []models.Incident{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeIncidentStore) CreateIncident(_ context.Context, in *models.Incident) error {
	if f.err != nil {
		return f.err
	}
	if _, exists := f.byID[in.IncidentID]; exists {
		return errors.New("duplicate incident id")
	}
	stored := *in
	f.byID[in.IncidentID] = &stored
	return nil
}

func (f *fakeIncidentStore) UpdateIncident(_ context.Context, incidentID string, ch store.IncidentChanges) (*models.Incident, error) {
	if f.err != nil {
		return nil, f.err
	}
	in, ok := f.byID[incidentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if ch.Summary != nil {
		in.Summary = *ch.Summary
	}
	if ch.SharedStatus != nil {
		in.SharedStatus = *ch.SharedStatus
	}
	if ch.Metadata != nil {
		in.Metadata = *ch.Metadata
	}
	if ch.RecordingURL != nil {
		in.RecordingURL = *ch.RecordingURL
	}
	result := *in
	return &result, nil
}

type fakeBilling struct {
	customer     *stripe.Customer
	providerSubs map[string]*stripe.Subscription
	monthlySub   *stripe.Subscription
	lifetimePI   *stripe.PaymentIntent

	resolveCalls int
	createCalls  int
	canceled     []string
	cancelErr    error
	getErr       error
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{
		customer:     &stripe.Customer{ID: "cus_fake"},
		providerSubs: make(map[string]*stripe.Subscription),
		lifetimePI:   &stripe.PaymentIntent{ID: "pi_fake", ClientSecret: "pi_fake_secret"},
		monthlySub: &stripe.Subscription{
			ID: "sub_fake",
			LatestInvoice: &stripe.Invoice{
				PaymentIntent: &stripe.PaymentIntent{ID: "pi_fake", ClientSecret: "pi_fake_secret"},
			},
		},
	}
}

func (f *fakeBilling) ResolveCustomer(context.Context, string, string) (*stripe.Customer, error) {
	f.resolveCalls++
	return f.customer, nil
}

func (f *fakeBilling) CreateLifetimePayment(context.Context, string, string, string) (*stripe.PaymentIntent, error) {
	f.createCalls++
	return f.lifetimePI, nil
}

func (f *fakeBilling) CreateMonthlySubscription(context.Context, string, string, string) (*stripe.Subscription, error) {
	f.createCalls++
	return f.monthlySub, nil
}

func (f *fakeBilling) Subscription(_ context.Context, subscriptionID string) (*stripe.Subscription, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.providerSubs[subscriptionID]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	return sub, nil
}

func (f *fakeBilling) CancelSubscription(_ context.Context, subscriptionID string) error {
	f.canceled = append(f.canceled, subscriptionID)
	return f.cancelErr
}
