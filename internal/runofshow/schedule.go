package runofshow

import (
	"fmt"
	"time"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

// ParseClock parses a "HH:MM" wall-clock string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM". Times past midnight
// wrap, so a block starting 23:30 for 60 minutes ends at "00:30".
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// EndTime derives a block's end time from its start and duration. End times
// are never stored.
func EndTime(startTime string, durationMinutes int) (string, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return "", err
	}
	return FormatClock(start + durationMinutes), nil
}

// Conflicts returns the blocks whose scheduled interval intersects the
// candidate [start, start+duration). Intervals are half-open, so a block
// ending 09:30 does not conflict with one starting 09:30. The block under
// edit is excluded from its own check via excludeID (0 for new blocks).
func Conflicts(blocks []models.RunOfShowBlock, startTime string, durationMinutes int, excludeID int64) ([]models.RunOfShowBlock, error) {
	newStart, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	newEnd := newStart + durationMinutes

	var conflicts []models.RunOfShowBlock
	for _, b := range blocks {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		blockStart, err := ParseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		blockEnd := blockStart + b.DurationMinutes
		if newStart < blockEnd && newEnd > blockStart {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// DayDuration sums block durations and formats the total as H:MM.
func DayDuration(blocks []models.RunOfShowBlock) (totalMinutes int, formatted string) {
	for _, b := range blocks {
		totalMinutes += b.DurationMinutes
	}
	return totalMinutes, fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}

// Countdown is the live timing state of the active block.
type Countdown struct {
	Finished           bool    `json:"finished"`
	RemainingSeconds   int     `json:"remaining_seconds"`
	RemainingFormatted string  `json:"remaining_formatted"`
	ProgressPercent    float64 `json:"progress_percent"`
}

// BlockCountdown computes the countdown for an active block at the given
// instant. The actual start stamp wins over the scheduled start when present.
// Returns nil for non-active blocks.
func BlockCountdown(b *models.RunOfShowBlock, now time.Time) *Countdown {
	if b == nil || b.Status != models.BlockStatusActive {
		return nil
	}

	var start time.Time
	if b.ActualStartTime != nil {
		start = *b.ActualStartTime
	} else {
		mins, err := ParseClock(b.StartTime)
		if err != nil {
			return nil
		}
		y, m, d := now.Date()
		start = time.Date(y, m, d, mins/60, mins%60, 0, 0, now.Location())
	}
	end := start.Add(time.Duration(b.DurationMinutes) * time.Minute)

	remaining := int(end.Sub(now).Seconds())
	if remaining <= 0 {
		return &Countdown{Finished: true, RemainingSeconds: 0, RemainingFormatted: "00:00", ProgressPercent: 100}
	}

	total := end.Sub(start).Seconds()
	elapsed := now.Sub(start).Seconds()
	progress := elapsed / total * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return &Countdown{
		Finished:           false,
		RemainingSeconds:   remaining,
		RemainingFormatted: fmt.Sprintf("%02d:%02d", remaining/60, remaining%60),
		ProgressPercent:    progress,
	}
}

// ValidateReorder checks that the ordered id list is exactly a permutation of
// the existing block ids for the (conference, day) scope: no duplicates, no
// unknown ids, none missing. Runs before any write so a bad payload has no
// partial effect.
func ValidateReorder(existing []int64, ordered []int64) error {
	if len(ordered) != len(existing) {
		return fmt.Errorf("reorder list has %d ids, day has %d blocks", len(ordered), len(existing))
	}
	want := make(map[int64]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	seen := make(map[int64]bool, len(ordered))
	for _, id := range ordered {
		if seen[id] {
			return fmt.Errorf("duplicate block id %d in reorder list", id)
		}
		seen[id] = true
		if !want[id] {
			return fmt.Errorf("block id %d does not belong to this day", id)
		}
	}
	return nil
}

// TypeLabel returns the display label for a block type.
func TypeLabel(blockType string) string {
	switch blockType {
	case models.BlockTypePresentation:
		return "Innlegg"
	case models.BlockTypeBreak:
		return "Pause"
	case models.BlockTypeVideo:
		return "Video"
	case models.BlockTypeAudio:
		return "Lyd"
	default:
		return "Annet"
	}
}

// TypeColor returns the default color code for a block type.
func TypeColor(blockType string) string {
	switch blockType {
	case models.BlockTypePresentation:
		return "#3b82f6"
	case models.BlockTypeBreak:
		return "#10b981"
	case models.BlockTypeVideo:
		return "#8b5cf6"
	case models.BlockTypeAudio:
		return "#f59e0b"
	default:
		return "#6b7280"
	}
}
