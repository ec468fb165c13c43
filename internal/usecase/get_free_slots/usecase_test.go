package get_free_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// --- fakes ---

type fakeProviderRepo struct {
	providers      []*domain.Provider
	windows        map[int][]*domain.AvailabilityWindow // по дню недели
	requestedAreas []string
}

func (f *fakeProviderRepo) GetAssignableByArea(_ context.Context, area string) ([]*domain.Provider, error) {
	f.requestedAreas = append(f.requestedAreas, area)
	return f.providers, nil
}

func (f *fakeProviderRepo) GetWindowsByProviders(_ context.Context, _ []int64, weekday int) ([]*domain.AvailabilityWindow, error) {
	return f.windows[weekday], nil
}

type fakeReservationRepo struct {
	byDate map[string][]*domain.Reservation
}

func (f *fakeReservationRepo) GetActiveByProvidersAndDate(_ context.Context, _ []int64, date time.Time) ([]*domain.Reservation, error) {
	return f.byDate[date.Format(domain.DateFormat)], nil
}

type fakeIdentityClient struct {
	user *identity.User
}

func (f *fakeIdentityClient) GetUser(_ context.Context, _ int64) (*identity.User, error) {
	if f.user == nil {
		return nil, identity.ErrUserNotFound
	}
	return f.user, nil
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

var testNow = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC) // Monday morning

func newUseCase(providers *fakeProviderRepo, reservations *fakeReservationRepo, user *identity.User) *UseCase {
	uc := NewUseCase(
		providers,
		reservations,
		&fakeIdentityClient{user: user},
		Config{SlotStepMinutes: 60, HorizonDays: 3},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_HorizonGrouping(t *testing.T) {
	providers := &fakeProviderRepo{
		providers: []*domain.Provider{{ID: 1, HomeArea: "north", IsApproved: true}},
		windows: map[int][]*domain.AvailabilityWindow{
			1: {{ProviderID: 1, Weekday: 1, StartTime: "09:00", EndTime: "11:00"}},
			2: {{ProviderID: 1, Weekday: 2, StartTime: "14:00", EndTime: "16:00"}},
			// Wednesday has no windows
		},
	}
	reservations := &fakeReservationRepo{byDate: map[string][]*domain.Reservation{}}
	uc := newUseCase(providers, reservations, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1,
		Area:   "north",
		Date:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "north", resp.Area)
	require.Len(t, resp.Days, 3)

	assert.Equal(t, 1, resp.Days[0].Weekday)
	assert.Len(t, resp.Days[0].Slots, 2)

	assert.Equal(t, 2, resp.Days[1].Weekday)
	assert.Len(t, resp.Days[1].Slots, 2)

	assert.Equal(t, 3, resp.Days[2].Weekday)
	assert.Empty(t, resp.Days[2].Slots)
}

func TestExecute_PastDatesSkipped(t *testing.T) {
	providers := &fakeProviderRepo{
		providers: []*domain.Provider{{ID: 1, HomeArea: "north", IsApproved: true}},
		windows:   map[int][]*domain.AvailabilityWindow{},
	}
	reservations := &fakeReservationRepo{byDate: map[string][]*domain.Reservation{}}
	uc := newUseCase(providers, reservations, nil)

	// The horizon starts two days before "today"
	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1,
		Area:   "north",
		Date:   time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2026-03-09", resp.Days[0].Date.Format(domain.DateFormat))
}

// An empty area falls back to the requester's home area.
func TestExecute_AreaFallback(t *testing.T) {
	providers := &fakeProviderRepo{
		providers: []*domain.Provider{{ID: 1, HomeArea: "south", IsApproved: true}},
		windows:   map[int][]*domain.AvailabilityWindow{},
	}
	reservations := &fakeReservationRepo{byDate: map[string][]*domain.Reservation{}}
	uc := newUseCase(providers, reservations, &identity.User{ID: 1, HomeArea: "south"})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1,
		Date:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "south", resp.Area)
	assert.Equal(t, []string{"south"}, providers.requestedAreas)
}

func TestExecute_AreaFallbackUnknownUser(t *testing.T) {
	providers := &fakeProviderRepo{}
	reservations := &fakeReservationRepo{}
	uc := newUseCase(providers, reservations, nil)

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 1,
		Date:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExecute_NoProviders(t *testing.T) {
	providers := &fakeProviderRepo{}
	reservations := &fakeReservationRepo{}
	uc := newUseCase(providers, reservations, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1,
		Area:   "empty",
		Date:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "empty", resp.Area)
	assert.Empty(t, resp.Days)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(&fakeProviderRepo{}, &fakeReservationRepo{}, nil)

	_, err := uc.Execute(context.Background(), &Request{UserID: 0, Date: testNow})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
