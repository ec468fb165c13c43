package set_reservation_status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	providerRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/provider"
	reservationRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// --- fakes ---

type fakeReservationRepo struct {
	reservation          *domain.Reservation
	candidateReservation map[int64][]*domain.Reservation

	statusUpdates []domain.ReservationStatus
	reassignedTo  int64
}

func (f *fakeReservationRepo) GetByID(_ context.Context, _ int64) (*domain.Reservation, error) {
	if f.reservation == nil {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *f.reservation
	return &copied, nil
}

func (f *fakeReservationRepo) GetByProviderAndDate(_ context.Context, providerID int64, _ time.Time, _ bool) ([]*domain.Reservation, error) {
	return f.candidateReservation[providerID], nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, _ int64, status domain.ReservationStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeReservationRepo) Reassign(_ context.Context, _ int64, newProviderID int64) error {
	f.reassignedTo = newProviderID
	return nil
}

type fakeProviderRepo struct {
	byUserID   map[int64]*domain.Provider
	candidates []*domain.Provider
	windows    []*domain.AvailabilityWindow
}

func (f *fakeProviderRepo) GetByUserID(_ context.Context, userID int64) (*domain.Provider, error) {
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return p, nil
}

func (f *fakeProviderRepo) GetAssignableByArea(_ context.Context, _ string) ([]*domain.Provider, error) {
	return f.candidates, nil
}

func (f *fakeProviderRepo) GetWindowsByProviders(_ context.Context, _ []int64, _ int) ([]*domain.AvailabilityWindow, error) {
	return f.windows, nil
}

type fakeIdentityClient struct {
	users map[int64]*identity.User
}

func (f *fakeIdentityClient) GetUser(_ context.Context, userID int64) (*identity.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

type notifierCall struct {
	kind       string
	providerID int64
}

type fakeNotifier struct {
	calls []notifierCall
}

func (f *fakeNotifier) ReservationAccepted(_ context.Context, _ *domain.Reservation) {
	f.calls = append(f.calls, notifierCall{kind: "accepted"})
}

func (f *fakeNotifier) ReservationReassigned(_ context.Context, _ *domain.Reservation, newProviderUserID int64) {
	f.calls = append(f.calls, notifierCall{kind: "reassigned", providerID: newProviderUserID})
}

func (f *fakeNotifier) ReservationRejected(_ context.Context, _ *domain.Reservation) {
	f.calls = append(f.calls, notifierCall{kind: "rejected"})
}

func (f *fakeNotifier) ReservationCancelled(_ context.Context, _ *domain.Reservation, _ int64) {
	f.calls = append(f.calls, notifierCall{kind: "cancelled"})
}

func (f *fakeNotifier) ReservationCompleted(_ context.Context, _ *domain.Reservation) {
	f.calls = append(f.calls, notifierCall{kind: "completed"})
}

type fakeTxManager struct {
	commits   int
	rollbacks int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- test setup ---

const (
	requesterID     = int64(1)
	providerUserID  = int64(50)
	adminUserID     = int64(99)
	assignedProvID  = int64(5)
	candidateProvID = int64(6)
)

type fixture struct {
	uc           *UseCase
	reservations *fakeReservationRepo
	providers    *fakeProviderRepo
	notifier     *fakeNotifier
	tx           *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reservations := &fakeReservationRepo{
		reservation: &domain.Reservation{
			ID:         10,
			UserID:     requesterID,
			ProviderID: assignedProvID,
			PetID:      7,
			Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), // Monday
			StartTime:  types.TimeString("10:00"),
			EndTime:    types.TimeString("11:00"),
			Status:     domain.StatusPending,
			UserArea:   "north",
		},
		candidateReservation: map[int64][]*domain.Reservation{},
	}

	providers := &fakeProviderRepo{
		byUserID: map[int64]*domain.Provider{
			providerUserID: {ID: assignedProvID, UserID: providerUserID},
		},
	}

	notifier := &fakeNotifier{}
	tx := &fakeTxManager{}

	uc := NewUseCase(
		reservations,
		providers,
		&fakeIdentityClient{users: map[int64]*identity.User{
			providerUserID: {ID: providerUserID, Role: identity.RoleProvider},
			adminUserID:    {ID: adminUserID, Role: identity.RoleAdministrator},
		}},
		notifier,
		tx,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, reservations: reservations, providers: providers, notifier: notifier, tx: tx}
}

func (f *fixture) request(actorID int64, status string) *Request {
	return &Request{ReservationID: 10, ActorID: actorID, Status: status}
}

// --- tests ---

func TestExecute_Accept(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "accepted"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusAccepted), resp.Status)
	assert.False(t, resp.Reassigned)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusAccepted}, f.reservations.statusUpdates)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "accepted", f.notifier.calls[0].kind)
}

func TestExecute_CancelAccepted(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusAccepted

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "cancelled"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "cancelled", f.notifier.calls[0].kind)
}

func TestExecute_InvalidTransition(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusAccepted

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, f.notifier.calls)
}

func TestExecute_TerminalIsNoLongerModifiable(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusCompleted

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "cancelled"))
	assert.ErrorIs(t, err, ErrNoLongerModifiable)
}

func TestExecute_ActorMismatch(t *testing.T) {
	f := newFixture(t)
	otherProviderUser := int64(51)
	f.uc.identityClient.(*fakeIdentityClient).users[otherProviderUser] =
		&identity.User{ID: otherProviderUser, Role: identity.RoleProvider}
	f.providers.byUserID[otherProviderUser] = &domain.Provider{ID: 8, UserID: otherProviderUser}

	_, err := f.uc.Execute(context.Background(), f.request(otherProviderUser, "accepted"))
	assert.ErrorIs(t, err, ErrActorMismatch)
}

func TestExecute_UnknownActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request(12345, "accepted"))
	assert.ErrorIs(t, err, ErrActorMismatch)
}

func TestExecute_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExecute_CompletedOnlyForAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "completed"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	resp, err := f.uc.Execute(context.Background(), f.request(adminUserID, "completed"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}

// Explicit completion by an administrator announces the terminal state,
// the passive sweep stays silent.
func TestExecute_AdminCompletedNotifies(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusAccepted

	_, err := f.uc.Execute(context.Background(), f.request(adminUserID, "completed"))
	require.NoError(t, err)
	assert.Equal(t, []notifierCall{{kind: "completed"}}, f.notifier.calls)
}

// Passive sweep: an expired pending reservation is cancelled by the sweep,
// the explicit request comes back too late. The sweep itself must commit.
func TestExecute_SweepMakesRequestMoot(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Date = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "accepted"))
	assert.ErrorIs(t, err, ErrNoLongerModifiable)

	assert.Equal(t, []domain.ReservationStatus{domain.StatusCancelled}, f.reservations.statusUpdates)
	assert.Equal(t, 1, f.tx.commits, "the sweep transition must be committed")
	assert.Empty(t, f.notifier.calls)
}

func TestExecute_SweepCompletesExpiredAccepted(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusAccepted
	f.reservations.reservation.Date = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "cancelled"))
	assert.ErrorIs(t, err, ErrNoLongerModifiable)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusCompleted}, f.reservations.statusUpdates)
}

// Admin force-set continues over the sweep instead of failing.
func TestExecute_AdminContinuesAfterSweep(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Date = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), f.request(adminUserID, "completed"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t,
		[]domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted},
		f.reservations.statusUpdates)
}

func TestExecute_AdminOverridesTerminal(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation.Status = domain.StatusCompleted

	resp, err := f.uc.Execute(context.Background(), f.request(adminUserID, "cancelled"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

// Rejection with an eligible candidate: the reservation moves back to pending
// on the new provider (outcome A).
func TestExecute_RejectReassigned(t *testing.T) {
	f := newFixture(t)
	candidate := &domain.Provider{ID: candidateProvID, UserID: 60, HomeArea: "north", IsApproved: true}
	f.providers.candidates = []*domain.Provider{candidate}
	f.providers.windows = []*domain.AvailabilityWindow{
		{ProviderID: candidateProvID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
	}

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)

	assert.True(t, resp.Reassigned)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, candidateProvID, resp.ProviderID)
	assert.Equal(t, candidateProvID, f.reservations.reassignedTo)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "reassigned", f.notifier.calls[0].kind)
	assert.Equal(t, int64(60), f.notifier.calls[0].providerID)
}

// Rejection with no candidate: the reservation stays rejected (outcome B).
func TestExecute_RejectNoCandidate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)

	assert.False(t, resp.Reassigned)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusRejected}, f.reservations.statusUpdates)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "rejected", f.notifier.calls[0].kind)
}

// The rejecting provider is never its own replacement.
func TestExecute_RejecterExcludedFromCandidates(t *testing.T) {
	f := newFixture(t)
	f.providers.candidates = []*domain.Provider{
		{ID: assignedProvID, UserID: providerUserID, HomeArea: "north", IsApproved: true},
	}
	f.providers.windows = []*domain.AvailabilityWindow{
		{ProviderID: assignedProvID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
	}

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)
	assert.False(t, resp.Reassigned)
}

// A candidate without a window fully containing the interval is skipped.
func TestExecute_RejectCandidateWindowTooSmall(t *testing.T) {
	f := newFixture(t)
	f.providers.candidates = []*domain.Provider{
		{ID: candidateProvID, UserID: 60, HomeArea: "north", IsApproved: true},
	}
	f.providers.windows = []*domain.AvailabilityWindow{
		{ProviderID: candidateProvID, Weekday: 1, StartTime: "10:30", EndTime: "18:00"},
	}

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)
	assert.False(t, resp.Reassigned)
}

// A busy candidate is skipped; the next free one in ID order wins.
func TestExecute_RejectSkipsBusyCandidate(t *testing.T) {
	f := newFixture(t)
	f.providers.candidates = []*domain.Provider{
		{ID: 6, UserID: 60, HomeArea: "north", IsApproved: true},
		{ID: 7, UserID: 70, HomeArea: "north", IsApproved: true},
	}
	f.providers.windows = []*domain.AvailabilityWindow{
		{ProviderID: 6, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
		{ProviderID: 7, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
	}
	f.reservations.candidateReservation[6] = []*domain.Reservation{
		{StartTime: "10:30", EndTime: "11:30", Status: domain.StatusAccepted},
	}

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)

	assert.True(t, resp.Reassigned)
	assert.Equal(t, int64(7), resp.ProviderID)
}

// A candidate whose reservation only touches the interval is free.
func TestExecute_RejectTouchingReservationIsFree(t *testing.T) {
	f := newFixture(t)
	f.providers.candidates = []*domain.Provider{
		{ID: candidateProvID, UserID: 60, HomeArea: "north", IsApproved: true},
	}
	f.providers.windows = []*domain.AvailabilityWindow{
		{ProviderID: candidateProvID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
	}
	f.reservations.candidateReservation[candidateProvID] = []*domain.Reservation{
		{StartTime: "09:00", EndTime: "10:00", Status: domain.StatusAccepted},
	}

	resp, err := f.uc.Execute(context.Background(), f.request(providerUserID, "rejected"))
	require.NoError(t, err)
	assert.True(t, resp.Reassigned)
}

func TestExecute_ReservationNotFound(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation = nil

	_, err := f.uc.Execute(context.Background(), f.request(providerUserID, "accepted"))
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
