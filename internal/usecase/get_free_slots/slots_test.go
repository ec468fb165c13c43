package get_free_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

func window(providerID int64, start, end string) *domain.AvailabilityWindow {
	return &domain.AvailabilityWindow{
		ProviderID: providerID,
		Weekday:    1,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
	}
}

func reservation(providerID int64, start, end string, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ProviderID: providerID,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
		Status:     status,
	}
}

func TestMergeSlots_SingleProvider(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}}
	windows := []*domain.AvailabilityWindow{window(1, "09:00", "12:00")}

	slots, err := mergeSlots(60, providers, windows, nil)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00"), slots[2].StartTime)
	for _, s := range slots {
		assert.Equal(t, []int64{1}, s.ProviderIDs)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.False(t, s.Reserved)
	}
}

func TestMergeSlots_SlotMustFitWindow(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}}
	// 90-minute window with a 60-minute grid: only one full slot fits
	windows := []*domain.AvailabilityWindow{window(1, "09:00", "10:30")}

	slots, err := mergeSlots(60, providers, windows, nil)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
}

func TestMergeSlots_GroupsProvidersByStartTime(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}, {ID: 2}}
	windows := []*domain.AvailabilityWindow{
		window(1, "09:00", "11:00"),
		window(2, "10:00", "12:00"),
	}

	slots, err := mergeSlots(60, providers, windows, nil)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, []int64{1}, slots[0].ProviderIDs)
	assert.Equal(t, []int64{1, 2}, slots[1].ProviderIDs)
	assert.Equal(t, []int64{2}, slots[2].ProviderIDs)
}

func TestMergeSlots_ReservedSlotHidesAllProviders(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}, {ID: 2}}
	windows := []*domain.AvailabilityWindow{
		window(1, "10:00", "11:00"),
		window(2, "10:00", "11:00"),
	}
	// Provider 1 is booked, provider 2 is free at the same time
	reservations := []*domain.Reservation{
		reservation(1, "10:00", "11:00", domain.StatusAccepted),
	}

	slots, err := mergeSlots(60, providers, windows, reservations)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.True(t, slots[0].Reserved)
	assert.Empty(t, slots[0].ProviderIDs)
}

func TestMergeSlots_TerminalReservationsIgnored(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}}
	windows := []*domain.AvailabilityWindow{window(1, "10:00", "11:00")}
	reservations := []*domain.Reservation{
		reservation(1, "10:00", "11:00", domain.StatusCancelled),
		reservation(1, "10:00", "11:00", domain.StatusRejected),
	}

	slots, err := mergeSlots(60, providers, windows, reservations)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.False(t, slots[0].Reserved)
	assert.Equal(t, []int64{1}, slots[0].ProviderIDs)
}

func TestMergeSlots_TouchingReservationDoesNotBlock(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}}
	windows := []*domain.AvailabilityWindow{window(1, "09:00", "12:00")}
	// Reservation 10:00-11:00 borders slots 09:00-10:00 and 11:00-12:00
	reservations := []*domain.Reservation{
		reservation(1, "10:00", "11:00", domain.StatusPending),
	}

	slots, err := mergeSlots(60, providers, windows, reservations)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.False(t, slots[0].Reserved)
	assert.True(t, slots[1].Reserved)
	assert.False(t, slots[2].Reserved)
}

func TestMergeSlots_PartialOverlapBlocks(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}}
	windows := []*domain.AvailabilityWindow{window(1, "10:00", "12:00")}
	reservations := []*domain.Reservation{
		reservation(1, "10:30", "11:30", domain.StatusAccepted),
	}

	slots, err := mergeSlots(60, providers, windows, reservations)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.True(t, slots[0].Reserved)
	assert.True(t, slots[1].Reserved)
}

func TestMergeSlots_Deterministic(t *testing.T) {
	providers := []*domain.Provider{{ID: 1}, {ID: 2}, {ID: 3}}
	windows := []*domain.AvailabilityWindow{
		window(1, "09:00", "12:00"),
		window(2, "10:00", "13:00"),
		window(3, "09:00", "13:00"),
	}
	reservations := []*domain.Reservation{
		reservation(2, "11:00", "12:00", domain.StatusAccepted),
	}

	first, err := mergeSlots(60, providers, windows, reservations)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := mergeSlots(60, providers, windows, reservations)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMergeSlots_Empty(t *testing.T) {
	slots, err := mergeSlots(60, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.True(t, isDateInPast(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isDateInPast(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isDateInPast(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), now))
}
