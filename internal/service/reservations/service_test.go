package reservations

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
	"github.com/m04kA/PWS-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/PWS-ReservationService/pkg/ptr"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// --- fakes ---

type fakeReservationRepo struct {
	byID   map[int64]*domain.Reservation
	byUser []*domain.Reservation

	statusUpdates map[int64][]domain.ReservationStatus
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) GetByUser(_ context.Context, _ domain.UserReservationsFilter) ([]*domain.Reservation, error) {
	out := make([]*domain.Reservation, len(f.byUser))
	for i, r := range f.byUser {
		copied := *r
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeReservationRepo) GetByProvider(_ context.Context, _ domain.ProviderReservationsFilter) ([]*domain.Reservation, error) {
	return f.GetByUser(context.Background(), domain.UserReservationsFilter{})
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[int64][]domain.ReservationStatus)
	}
	f.statusUpdates[id] = append(f.statusUpdates[id], status)
	return nil
}

type fakeProviderRepo struct {
	byID     map[int64]*domain.Provider
	byUserID map[int64]*domain.Provider
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return p, nil
}

func (f *fakeProviderRepo) GetByUserID(_ context.Context, userID int64) (*domain.Provider, error) {
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return p, nil
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

type fakeNotifier struct {
	cancelled []int64
}

func (f *fakeNotifier) ReservationCancelled(_ context.Context, _ *domain.Reservation, recipientUserID int64) {
	f.cancelled = append(f.cancelled, recipientUserID)
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	requesterID    = int64(1)
	providerUserID = int64(50)
	adminUserID    = int64(99)
	strangerID     = int64(77)
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testReservation(id int64, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		UserID:     requesterID,
		ProviderID: 5,
		PetID:      7,
		Date:       time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("10:00"),
		EndTime:    types.TimeString("11:00"),
		Status:     status,
		UserArea:   "north",
	}
}

type fixture struct {
	svc          *Service
	reservations *fakeReservationRepo
	notifier     *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reservations := &fakeReservationRepo{
		byID: map[int64]*domain.Reservation{
			10: testReservation(10, domain.StatusPending),
		},
	}
	providers := &fakeProviderRepo{
		byID: map[int64]*domain.Provider{
			5: {ID: 5, UserID: providerUserID},
		},
		byUserID: map[int64]*domain.Provider{
			providerUserID: {ID: 5, UserID: providerUserID},
		},
	}
	notifier := &fakeNotifier{}

	svc := NewService(
		reservations,
		providers,
		&fakeIdentityClient{users: map[int64]*identity.User{
			adminUserID: {ID: adminUserID, Role: identity.RoleAdministrator},
			strangerID:  {ID: strangerID, Role: identity.RoleRequester},
		}},
		notifier,
		fakeTxManager{},
		nopLogger{},
	)
	svc.timeProvider = &fixedTimeProvider{now: testNow}

	return &fixture{svc: svc, reservations: reservations, notifier: notifier}
}

// --- tests ---

func TestGetByID_AccessControl(t *testing.T) {
	f := newFixture(t)

	// Requester
	resp, err := f.svc.GetByID(context.Background(), 10, requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)

	// Assigned provider
	_, err = f.svc.GetByID(context.Background(), 10, providerUserID)
	assert.NoError(t, err)

	// Administrator
	_, err = f.svc.GetByID(context.Background(), 10, adminUserID)
	assert.NoError(t, err)

	// Anyone else
	_, err = f.svc.GetByID(context.Background(), 10, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 404, requesterID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

// Reads advance expired reservations before returning them.
func TestGetByID_SweepsExpired(t *testing.T) {
	f := newFixture(t)
	expired := testReservation(10, domain.StatusAccepted)
	expired.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.reservations.byID[10] = expired

	resp, err := f.svc.GetByID(context.Background(), 10, requesterID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusCompleted}, f.reservations.statusUpdates[10])
}

func TestGetUserReservations_StatusFilterAfterSweep(t *testing.T) {
	f := newFixture(t)

	// An expired pending reservation no longer matches status=pending
	// after the sweep cancels it
	expired := testReservation(11, domain.StatusPending)
	expired.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.reservations.byUser = []*domain.Reservation{
		testReservation(10, domain.StatusPending),
		expired,
	}

	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: requesterID,
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(10), resp.Reservations[0].ID)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusCancelled}, f.reservations.statusUpdates[11])
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: requesterID,
		Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProviderReservations_Access(t *testing.T) {
	f := newFixture(t)
	f.reservations.byUser = []*domain.Reservation{testReservation(10, domain.StatusAccepted)}

	// The provider reads their own list
	resp, err := f.svc.GetProviderReservations(context.Background(), &models.GetProviderReservationsRequest{
		ProviderID: 5,
		UserID:     providerUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// An administrator may read it too
	_, err = f.svc.GetProviderReservations(context.Background(), &models.GetProviderReservationsRequest{
		ProviderID: 5,
		UserID:     adminUserID,
	})
	assert.NoError(t, err)

	// A stranger may not
	_, err = f.svc.GetProviderReservations(context.Background(), &models.GetProviderReservationsRequest{
		ProviderID: 5,
		UserID:     strangerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Unknown provider
	_, err = f.svc.GetProviderReservations(context.Background(), &models.GetProviderReservationsRequest{
		ProviderID: 404,
		UserID:     providerUserID,
	})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestGetProviderReservations_ActiveOnly(t *testing.T) {
	f := newFixture(t)
	f.reservations.byUser = []*domain.Reservation{
		testReservation(10, domain.StatusPending),
		testReservation(11, domain.StatusAccepted),
		testReservation(12, domain.StatusCancelled),
	}

	resp, err := f.svc.GetProviderReservations(context.Background(), &models.GetProviderReservationsRequest{
		ProviderID: 5,
		UserID:     providerUserID,
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestCancel_Success(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 10, &models.CancelReservationRequest{UserID: requesterID})
	require.NoError(t, err)

	assert.Equal(t, []domain.ReservationStatus{domain.StatusCancelled}, f.reservations.statusUpdates[10])
	assert.Equal(t, []int64{providerUserID}, f.notifier.cancelled, "the provider is notified about the cancellation")
}

func TestCancel_OnlyOwner(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 10, &models.CancelReservationRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.notifier.cancelled)
}

func TestCancel_TerminalCannotBeCancelled(t *testing.T) {
	f := newFixture(t)
	f.reservations.byID[10] = testReservation(10, domain.StatusCompleted)

	err := f.svc.Cancel(context.Background(), 10, &models.CancelReservationRequest{UserID: requesterID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

// An expired pending reservation is swept to cancelled first, making
// the explicit cancel fail.
func TestCancel_ExpiredIsSweptFirst(t *testing.T) {
	f := newFixture(t)
	expired := testReservation(10, domain.StatusPending)
	expired.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.reservations.byID[10] = expired

	err := f.svc.Cancel(context.Background(), 10, &models.CancelReservationRequest{UserID: requesterID})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusCancelled}, f.reservations.statusUpdates[10])
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 404, &models.CancelReservationRequest{UserID: requesterID})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
