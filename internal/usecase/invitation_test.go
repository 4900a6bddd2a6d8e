package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/internal/mailer"
	"github.com/bencohensolal/seniorhub/internal/repository"
	"github.com/bencohensolal/seniorhub/internal/usecase"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

type captureQueue struct {
	mu   sync.Mutex
	jobs []mailer.Job
}

func (q *captureQueue) EnqueueBulk(jobs []mailer.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, jobs...)
}

func (q *captureQueue) all() []mailer.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]mailer.Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}

// testClock is a settable time source shared by the engine under test.
type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

type engineFixture struct {
	engine *usecase.InvitationEngine
	store  *repository.MemoryStore
	queue  *captureQueue
	clock  *testClock
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	store := repository.NewMemoryStore()
	queue := &captureQueue{}
	clock := &testClock{at: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	var idSeq, tokenSeq int
	var mu sync.Mutex

	engine := usecase.NewInvitationEngine(usecase.InvitationEngineDeps{
		Invitations: store,
		Members:     store,
		Households:  store,
		Audit:       store,
		Queue:       queue,
		Links: mailer.LinkBuilder{
			BackendBaseURL:  "https://api.test",
			FallbackBaseURL: "https://app.test/invite",
		},
	}).WithClock(clock.Now).WithIDGenerators(
		func() string {
			mu.Lock()
			defer mu.Unlock()
			idSeq++
			return fmt.Sprintf("id-%04d", idSeq)
		},
		func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			tokenSeq++
			return fmt.Sprintf("token-%04d", tokenSeq), nil
		},
	)

	return &engineFixture{engine: engine, store: store, queue: queue, clock: clock}
}

func (f *engineFixture) seedHousehold(t *testing.T, householdID, caregiverUserID string) {
	t.Helper()
	ctx := context.Background()
	now := f.clock.Now()

	if err := f.store.CreateHousehold(ctx, domain.Household{
		ID:              householdID,
		Name:            "Miller Family",
		CreatedByUserID: caregiverUserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		t.Fatalf("seed household: %v", err)
	}
	if err := f.store.CreateMember(ctx, domain.Member{
		ID:          "member-" + caregiverUserID,
		HouseholdID: householdID,
		UserID:      caregiverUserID,
		Email:       caregiverUserID + "@test.local",
		FirstName:   "Grace",
		Role:        domain.RoleCaregiver,
		Status:      domain.MemberActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seed caregiver member: %v", err)
	}
}

func (f *engineFixture) invite(t *testing.T, householdID, inviterUserID, email, role string) domain.Invitation {
	t.Helper()
	result, err := f.engine.CreateBulk(context.Background(), householdID, inviterUserID, []usecase.InvitationCandidate{
		{Email: email, FirstName: "Ann", Role: role},
	})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if result.AcceptedCount != 1 {
		t.Fatalf("AcceptedCount = %d, want 1 (errors: %+v)", result.AcceptedCount, result.PerUserErrors)
	}
	inv, err := f.store.FindInvitationByID(context.Background(), result.Deliveries[0].InvitationID)
	if err != nil {
		t.Fatalf("find created invitation: %v", err)
	}
	return inv
}

func TestCreateBulkIsolatesBadCandidates(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")

	result, err := f.engine.CreateBulk(context.Background(), "hh-1", "user-grace", []usecase.InvitationCandidate{
		{Email: "ann@test.local", Role: "senior"},
		{Email: "not-an-email", Role: "senior"},
		{Email: "bob@test.local", Role: "caregiver"},
		{Email: "carol@test.local", Role: "janitor"},
	})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}

	if result.AcceptedCount != 2 {
		t.Fatalf("AcceptedCount = %d, want 2", result.AcceptedCount)
	}
	if len(result.PerUserErrors) != 2 {
		t.Fatalf("PerUserErrors = %+v, want 2 entries", result.PerUserErrors)
	}
	if len(result.Deliveries) != 2 {
		t.Fatalf("Deliveries = %d, want 2", len(result.Deliveries))
	}
	if jobs := f.queue.all(); len(jobs) != 2 {
		t.Fatalf("enqueued jobs = %d, want 2", len(jobs))
	}
}

func TestCreateBulkRejectsEmptyAndOversizedBatches(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")

	if _, err := f.engine.CreateBulk(context.Background(), "hh-1", "user-grace", nil); !xerrors.IsKind(err, xerrors.KindValidation) {
		t.Fatalf("empty batch error = %v, want validation", err)
	}

	big := make([]usecase.InvitationCandidate, 51)
	for i := range big {
		big[i] = usecase.InvitationCandidate{Email: fmt.Sprintf("u%d@test.local", i), Role: "senior"}
	}
	if _, err := f.engine.CreateBulk(context.Background(), "hh-1", "user-grace", big); !xerrors.IsKind(err, xerrors.KindValidation) {
		t.Fatalf("oversized batch error = %v, want validation", err)
	}
}

func TestCreateBulkSkipsLiveDuplicate(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	result, err := f.engine.CreateBulk(context.Background(), "hh-1", "user-grace", []usecase.InvitationCandidate{
		{Email: "Ann@Test.Local", Role: "senior"},
	})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if result.SkippedDuplicates != 1 || result.AcceptedCount != 0 {
		t.Fatalf("result = %+v, want one skipped duplicate", result)
	}
	if jobs := f.queue.all(); len(jobs) != 1 {
		t.Fatalf("enqueued jobs = %d, want only the original delivery", len(jobs))
	}
}

func TestCreateBulkRefreshesExpiredPendingInPlace(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	original := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	f.clock.Advance(domain.InvitationTTL + time.Hour)

	result, err := f.engine.CreateBulk(context.Background(), "hh-1", "user-grace", []usecase.InvitationCandidate{
		{Email: "ann@test.local", Role: "senior"},
	})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if result.AcceptedCount != 1 || result.SkippedDuplicates != 0 {
		t.Fatalf("result = %+v, want one accepted refresh", result)
	}

	refreshed, err := f.store.FindInvitationByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("find refreshed invitation: %v", err)
	}
	if refreshed.Token == original.Token {
		t.Fatal("token was not rotated on refresh")
	}
	if refreshed.Expired(f.clock.Now()) {
		t.Fatal("refreshed invitation still expired")
	}
	if _, err := f.store.FindInvitationByToken(context.Background(), original.Token); !xerrors.IsKind(err, xerrors.KindNotFound) {
		t.Fatalf("old token lookup = %v, want not found", err)
	}
}

func TestAcceptCreatesMembership(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	requester := domain.Requester{UserID: "user-ann", Email: "ann@test.local", FirstName: "Ann"}
	result, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{Token: inv.Token})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if result.HouseholdID != "hh-1" || result.Role != domain.RoleSenior {
		t.Fatalf("result = %+v", result)
	}

	member, err := f.store.FindActiveMember(context.Background(), "user-ann", "hh-1")
	if err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if member.Role != domain.RoleSenior {
		t.Fatalf("member role = %q, want senior", member.Role)
	}

	stored, _ := f.store.FindInvitationByID(context.Background(), inv.ID)
	if stored.Status != domain.InvitationAccepted {
		t.Fatalf("status = %q, want accepted", stored.Status)
	}
}

func TestAcceptRejectsBothSelectors(t *testing.T) {
	f := newEngineFixture(t)
	requester := domain.Requester{UserID: "user-ann", Email: "ann@test.local"}

	_, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{Token: "t", InvitationID: "i"})
	if !xerrors.IsKind(err, xerrors.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestAcceptTwiceReportsNotPending(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	requester := domain.Requester{UserID: "user-ann", Email: "ann@test.local"}
	if _, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{Token: inv.Token}); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	_, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{Token: inv.Token})
	if !xerrors.IsKind(err, xerrors.KindConflict) {
		t.Fatalf("second accept err = %v, want conflict", err)
	}
	if got := err.Error(); got != "Invitation is not pending." {
		t.Fatalf("second accept message = %q", got)
	}
}

func TestAcceptExpiredToken(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	f.clock.Advance(domain.InvitationTTL + time.Minute)

	_, err := f.engine.Accept(context.Background(), domain.Requester{UserID: "user-ann", Email: "ann@test.local"}, usecase.AcceptInput{Token: inv.Token})
	if !xerrors.IsKind(err, xerrors.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if got := err.Error(); got != "Invitation expired. Ask for a new invitation to be sent." {
		t.Fatalf("message = %q", got)
	}

	// The stored status stays pending; expiry is a view-time predicate.
	stored, _ := f.store.FindInvitationByID(context.Background(), inv.ID)
	if stored.Status != domain.InvitationPending {
		t.Fatalf("stored status = %q, want pending", stored.Status)
	}
}

func TestAcceptChecksStatusBeforeExpiry(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	if err := f.engine.Cancel(context.Background(), "hh-1", inv.ID, "user-grace"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	f.clock.Advance(domain.InvitationTTL + time.Hour)

	_, err := f.engine.Accept(context.Background(), domain.Requester{UserID: "user-ann", Email: "ann@test.local"}, usecase.AcceptInput{Token: inv.Token})
	if err == nil || err.Error() != "Invitation is not pending." {
		t.Fatalf("err = %v, want not-pending before expired", err)
	}
}

func TestAcceptConcurrentSingleWinner(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			requester := domain.Requester{UserID: fmt.Sprintf("user-%d", n), Email: "ann@test.local"}
			_, errs[n] = f.engine.Accept(context.Background(), requester, usecase.AcceptInput{Token: inv.Token})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !xerrors.IsKind(err, xerrors.KindConflict) {
			t.Fatalf("loser error = %v, want conflict", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestAcceptAutoMatch(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	requester := domain.Requester{UserID: "user-ann", Email: "ann@test.local"}

	// No pending invitations.
	if _, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{}); !xerrors.IsKind(err, xerrors.KindNotFound) {
		t.Fatalf("zero candidates err = %v, want not found", err)
	}

	// A single pending invitation is matched without a selector.
	f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")
	result, err := f.engine.Accept(context.Background(), requester, usecase.AcceptInput{})
	if err != nil {
		t.Fatalf("single candidate accept: %v", err)
	}
	if result.HouseholdID != "hh-1" {
		t.Fatalf("result = %+v", result)
	}

	// Two live candidates are ambiguous.
	f.seedHousehold(t, "hh-2", "user-henry")
	f.seedHousehold(t, "hh-3", "user-iris")
	f.invite(t, "hh-2", "user-henry", "bob@test.local", "senior")
	f.invite(t, "hh-3", "user-iris", "bob@test.local", "caregiver")
	_, err = f.engine.Accept(context.Background(), domain.Requester{UserID: "user-bob", Email: "bob@test.local"}, usecase.AcceptInput{})
	if !xerrors.IsKind(err, xerrors.KindValidation) {
		t.Fatalf("ambiguous candidates err = %v, want validation", err)
	}
}

func TestAcceptReactivatesRemovedMember(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	ctx := context.Background()

	if err := f.store.CreateMember(ctx, domain.Member{
		ID:          "member-ann",
		HouseholdID: "hh-1",
		UserID:      "user-ann",
		Email:       "ann@test.local",
		Role:        domain.RoleSenior,
		Status:      domain.MemberRemoved,
		CreatedAt:   f.clock.Now(),
		UpdatedAt:   f.clock.Now(),
	}); err != nil {
		t.Fatalf("seed removed member: %v", err)
	}

	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "caregiver")
	if _, err := f.engine.Accept(ctx, domain.Requester{UserID: "user-ann", Email: "ann@test.local"}, usecase.AcceptInput{Token: inv.Token}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	member, err := f.store.FindActiveMember(ctx, "user-ann", "hh-1")
	if err != nil {
		t.Fatalf("member not reactivated: %v", err)
	}
	if member.ID != "member-ann" {
		t.Fatalf("a new member row was created instead of reactivating")
	}
	if member.Role != domain.RoleCaregiver {
		t.Fatalf("reactivated role = %q, want caregiver from invitation", member.Role)
	}
}

func TestAutoAcceptPendingAcceptsAllLiveInvitations(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	f.seedHousehold(t, "hh-2", "user-henry")
	f.seedHousehold(t, "hh-3", "user-iris")

	f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")
	f.invite(t, "hh-2", "user-henry", "ann@test.local", "caregiver")
	expired := f.invite(t, "hh-3", "user-iris", "ann@test.local", "senior")

	// Lapse only the third invitation by reissuing it into the past.
	past := f.clock.Now().Add(-time.Hour)
	if err := f.store.ReissueToken(context.Background(), expired.ID, "stale-token", past, past); err != nil {
		t.Fatalf("force expiry: %v", err)
	}

	results, err := f.engine.AutoAcceptPending(context.Background(), domain.Requester{UserID: "user-ann", Email: "ann@test.local"})
	if err != nil {
		t.Fatalf("AutoAcceptPending: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("accepted = %d households, want 2", len(results))
	}
	for _, hh := range []string{"hh-1", "hh-2"} {
		if _, err := f.store.FindActiveMember(context.Background(), "user-ann", hh); err != nil {
			t.Fatalf("missing membership in %s: %v", hh, err)
		}
	}
	if _, err := f.store.FindActiveMember(context.Background(), "user-ann", "hh-3"); err == nil {
		t.Fatal("expired invitation must not grant membership")
	}
}

func TestListPendingFiltersExpired(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	f.seedHousehold(t, "hh-2", "user-henry")

	f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")
	stale := f.invite(t, "hh-2", "user-henry", "ann@test.local", "senior")

	past := f.clock.Now().Add(-time.Minute)
	if err := f.store.ReissueToken(context.Background(), stale.ID, "stale", past, past); err != nil {
		t.Fatalf("force expiry: %v", err)
	}

	pending, err := f.engine.ListPending(context.Background(), "Ann@Test.Local")
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 || pending[0].HouseholdID != "hh-1" {
		t.Fatalf("pending = %+v, want only hh-1", pending)
	}
	if pending[0].HouseholdName != "Miller Family" {
		t.Fatalf("household name = %q", pending[0].HouseholdName)
	}
}

func TestResolveMasksEmailAndReportsEffectiveStatus(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "annabel@test.local", "senior")

	resolved, err := f.engine.Resolve(context.Background(), inv.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.InviteeEmail == "annabel@test.local" {
		t.Fatalf("resolve leaked the raw invitee email: %q", resolved.InviteeEmail)
	}
	if resolved.Status != domain.InvitationPending {
		t.Fatalf("status = %q, want pending", resolved.Status)
	}
	if resolved.HouseholdName != "Miller Family" || resolved.InviterFirstName != "Grace" {
		t.Fatalf("resolved = %+v", resolved)
	}

	// A lapsed token still resolves, with the derived status.
	f.clock.Advance(domain.InvitationTTL + time.Hour)
	resolved, err = f.engine.Resolve(context.Background(), inv.Token)
	if err != nil {
		t.Fatalf("Resolve after expiry: %v", err)
	}
	if resolved.Status != domain.InvitationExpired {
		t.Fatalf("status = %q, want expired", resolved.Status)
	}
}

func TestResendRotatesToken(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	result, err := f.engine.Resend(context.Background(), "hh-1", inv.ID, "user-grace")
	if err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if want := f.clock.Now().Add(domain.InvitationTTL); !result.NewExpiresAt.Equal(want) {
		t.Fatalf("NewExpiresAt = %v, want %v", result.NewExpiresAt, want)
	}

	// The old token no longer dereferences; the new one does.
	if _, err := f.store.FindInvitationByToken(context.Background(), inv.Token); !xerrors.IsKind(err, xerrors.KindNotFound) {
		t.Fatalf("old token lookup = %v, want not found", err)
	}
	refreshed, _ := f.store.FindInvitationByID(context.Background(), inv.ID)
	if refreshed.Token == inv.Token {
		t.Fatal("token unchanged after resend")
	}
	if jobs := f.queue.all(); len(jobs) != 2 {
		t.Fatalf("enqueued jobs = %d, want initial send plus resend", len(jobs))
	}
}

func TestResendRequiresPendingStatus(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	if _, err := f.engine.Accept(context.Background(), domain.Requester{UserID: "user-ann", Email: "ann@test.local"}, usecase.AcceptInput{Token: inv.Token}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	_, err := f.engine.Resend(context.Background(), "hh-1", inv.ID, "user-grace")
	if !xerrors.IsKind(err, xerrors.KindConflict) {
		t.Fatalf("resend of accepted invitation = %v, want conflict", err)
	}
}

func TestCancelRequiresCaregiver(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	// Non-member.
	if err := f.engine.Cancel(context.Background(), "hh-1", inv.ID, "user-stranger"); !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("non-member cancel = %v, want forbidden", err)
	}

	// Senior member.
	if err := f.store.CreateMember(context.Background(), domain.Member{
		ID:          "member-sen",
		HouseholdID: "hh-1",
		UserID:      "user-sen",
		Role:        domain.RoleSenior,
		Status:      domain.MemberActive,
		CreatedAt:   f.clock.Now(),
		UpdatedAt:   f.clock.Now(),
	}); err != nil {
		t.Fatalf("seed senior: %v", err)
	}
	if err := f.engine.Cancel(context.Background(), "hh-1", inv.ID, "user-sen"); !xerrors.IsKind(err, xerrors.KindForbidden) {
		t.Fatalf("senior cancel = %v, want forbidden", err)
	}

	// Denied attempts must not change the invitation.
	stored, _ := f.store.FindInvitationByID(context.Background(), inv.ID)
	if stored.Status != domain.InvitationPending {
		t.Fatalf("status after denied cancels = %q, want pending", stored.Status)
	}

	if err := f.engine.Cancel(context.Background(), "hh-1", inv.ID, "user-grace"); err != nil {
		t.Fatalf("caregiver cancel: %v", err)
	}
	stored, _ = f.store.FindInvitationByID(context.Background(), inv.ID)
	if stored.Status != domain.InvitationCancelled {
		t.Fatalf("status = %q, want cancelled", stored.Status)
	}
}

func TestCancelScopesInvitationToHousehold(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")
	f.seedHousehold(t, "hh-2", "user-grace")
	inv := f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")

	err := f.engine.Cancel(context.Background(), "hh-2", inv.ID, "user-grace")
	if !xerrors.IsKind(err, xerrors.KindNotFound) {
		t.Fatalf("cross-household cancel = %v, want not found", err)
	}
}

func TestListHouseholdInvitationsShowsDerivedStatus(t *testing.T) {
	f := newEngineFixture(t)
	f.seedHousehold(t, "hh-1", "user-grace")

	f.invite(t, "hh-1", "user-grace", "ann@test.local", "senior")
	stale := f.invite(t, "hh-1", "user-grace", "bob@test.local", "senior")

	past := f.clock.Now().Add(-time.Minute)
	if err := f.store.ReissueToken(context.Background(), stale.ID, "stale", past, past); err != nil {
		t.Fatalf("force expiry: %v", err)
	}

	list, err := f.engine.ListHouseholdInvitations(context.Background(), "hh-1", "user-grace")
	if err != nil {
		t.Fatalf("ListHouseholdInvitations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries, want 2", len(list))
	}
	statuses := map[string]domain.InvitationStatus{}
	for _, item := range list {
		statuses[item.InviteeEmail] = item.Status
	}
	if statuses["ann@test.local"] != domain.InvitationPending {
		t.Fatalf("ann status = %q", statuses["ann@test.local"])
	}
	if statuses["bob@test.local"] != domain.InvitationExpired {
		t.Fatalf("bob status = %q", statuses["bob@test.local"])
	}
}
