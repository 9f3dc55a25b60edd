package services

import (
	"context"
	"testing"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/cache"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlotWindow(t *testing.T) {
	assert.NoError(t, validateSlotWindow(1, "09:00", "12:30"))
	assert.NoError(t, validateSlotWindow(0, "00:00", "23:59"))

	assert.ErrorIs(t, validateSlotWindow(-1, "09:00", "12:00"), ErrMissingRequiredField)
	assert.ErrorIs(t, validateSlotWindow(7, "09:00", "12:00"), ErrMissingRequiredField)

	assert.ErrorIs(t, validateSlotWindow(1, "9am", "12:00"), ErrMissingRequiredField)
	assert.ErrorIs(t, validateSlotWindow(1, "09:00", "noon"), ErrMissingRequiredField)

	// The window must have positive length.
	assert.ErrorIs(t, validateSlotWindow(1, "12:00", "09:00"), ErrInvalidDateRange)
	assert.ErrorIs(t, validateSlotWindow(1, "09:00", "09:00"), ErrInvalidDateRange)
}

func TestClearAllEmergencySlots(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	svc := NewScheduleService(nil, mc)
	ctx := context.Background()

	doctor := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}
	other := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	dayAfter := time.Now().AddDate(0, 0, 2).Format("2006-01-02")

	for _, date := range []string{tomorrow, dayAfter} {
		_, err := svc.SetEmergencySlot(ctx, doctor, &models.CreateEmergencySlotRequest{
			Date:      date,
			StartTime: "09:00",
			EndTime:   "12:00",
		})
		require.NoError(t, err)
	}
	_, err := svc.SetEmergencySlot(ctx, other, &models.CreateEmergencySlotRequest{
		Date:      tomorrow,
		StartTime: "14:00",
		EndTime:   "16:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearAllEmergencySlots(ctx, doctor))

	for _, date := range []string{tomorrow, dayAfter} {
		slot, err := svc.GetEmergencySlot(ctx, doctor.DoctorID, date)
		require.NoError(t, err)
		assert.Nil(t, slot)
	}

	// Another doctor's slots are untouched.
	slot, err := svc.GetEmergencySlot(ctx, other.DoctorID, tomorrow)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "14:00", slot.StartTime)

	assert.ErrorIs(t, svc.ClearAllEmergencySlots(ctx, authz.Capabilities{IsCustomer: true}), ErrUnauthorized)
}
