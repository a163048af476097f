package runofshow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

func block(id int64, start string, duration int) models.RunOfShowBlock {
	return models.RunOfShowBlock{ID: id, StartTime: start, DurationMinutes: duration}
}

func TestParseClock(t *testing.T) {
	mins, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, mins)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("09:75")
	assert.Error(t, err)
	_, err = ParseClock("abc")
	assert.Error(t, err)
}

func TestEndTime(t *testing.T) {
	end, err := EndTime("09:00", 90)
	require.NoError(t, err)
	assert.Equal(t, "10:30", end)

	end, err = EndTime("23:30", 60)
	require.NoError(t, err)
	assert.Equal(t, "00:30", end)
}

func TestConflictsOverlapping(t *testing.T) {
	existing := []models.RunOfShowBlock{block(1, "09:00", 30)}

	conflicts, err := Conflicts(existing, "09:15", 30, 0)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ID)
}

func TestConflictsBackToBackIsClean(t *testing.T) {
	existing := []models.RunOfShowBlock{block(1, "09:00", 30)}

	conflicts, err := Conflicts(existing, "09:30", 30, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestConflictsExcludesSelf(t *testing.T) {
	existing := []models.RunOfShowBlock{block(1, "09:00", 30)}

	conflicts, err := Conflicts(existing, "09:00", 30, 1)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDayDuration(t *testing.T) {
	blocks := []models.RunOfShowBlock{
		block(1, "09:00", 30),
		block(2, "09:30", 45),
		block(3, "10:15", 15),
	}
	total, formatted := DayDuration(blocks)
	assert.Equal(t, 90, total)
	assert.Equal(t, "1:30", formatted)
}

func TestBlockCountdownMidway(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := block(1, "09:00", 10)
	b.Status = models.BlockStatusActive
	b.ActualStartTime = &start

	cd := BlockCountdown(&b, start.Add(5*time.Minute))
	require.NotNil(t, cd)
	assert.False(t, cd.Finished)
	assert.Equal(t, 300, cd.RemainingSeconds)
	assert.Equal(t, "05:00", cd.RemainingFormatted)
	assert.InDelta(t, 50.0, cd.ProgressPercent, 0.01)
}

func TestBlockCountdownFinished(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := block(1, "09:00", 10)
	b.Status = models.BlockStatusActive
	b.ActualStartTime = &start

	cd := BlockCountdown(&b, start.Add(10*time.Minute))
	require.NotNil(t, cd)
	assert.True(t, cd.Finished)
	assert.Equal(t, 0, cd.RemainingSeconds)
	assert.Equal(t, "00:00", cd.RemainingFormatted)
	assert.Equal(t, 100.0, cd.ProgressPercent)
}

func TestBlockCountdownFallsBackToScheduledStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	b := block(1, "09:00", 10)
	b.Status = models.BlockStatusActive

	cd := BlockCountdown(&b, now)
	require.NotNil(t, cd)
	assert.Equal(t, 300, cd.RemainingSeconds)
}

func TestBlockCountdownNilForInactive(t *testing.T) {
	b := block(1, "09:00", 10)
	b.Status = models.BlockStatusPending
	assert.Nil(t, BlockCountdown(&b, time.Now()))
	assert.Nil(t, BlockCountdown(nil, time.Now()))
}

func TestValidateReorder(t *testing.T) {
	existing := []int64{1, 2, 3}

	assert.NoError(t, ValidateReorder(existing, []int64{3, 1, 2}))
	assert.Error(t, ValidateReorder(existing, []int64{1, 2}), "missing id")
	assert.Error(t, ValidateReorder(existing, []int64{1, 2, 2}), "duplicate id")
	assert.Error(t, ValidateReorder(existing, []int64{1, 2, 4}), "unknown id")
	assert.NoError(t, ValidateReorder(nil, nil))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Innlegg", TypeLabel(models.BlockTypePresentation))
	assert.Equal(t, "Pause", TypeLabel(models.BlockTypeBreak))
	assert.Equal(t, "Annet", TypeLabel("whatever"))
}
