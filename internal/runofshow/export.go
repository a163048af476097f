package runofshow

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

var exportHeader = []string{
	"Day", "Start Time", "End Time", "Duration (min)", "Type", "Title", "Description",
	"Location", "Responsible", "Presenter Notes", "Venue Notes",
	"Microphone", "Presentation", "Video", "Lighting", "Audience Interaction",
}

// WriteCSV writes the run-of-show as CSV, one row per block.
func WriteCSV(w io.Writer, blocks []models.RunOfShowBlock) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, b := range blocks {
		end, err := EndTime(b.StartTime, b.DurationMinutes)
		if err != nil {
			return err
		}
		row := []string{
			strconv.Itoa(b.DayNumber),
			b.StartTime,
			end,
			strconv.Itoa(b.DurationMinutes),
			TypeLabel(b.BlockType),
			b.Title,
			b.Description,
			b.Location,
			b.ResponsiblePerson,
			b.PresenterNotes,
			b.VenueNotes,
			yesNo(b.TechRequirements.Microphone),
			yesNo(b.TechRequirements.Presentation),
			yesNo(b.TechRequirements.Video),
			yesNo(b.TechRequirements.Lighting),
			yesNo(b.TechRequirements.AudienceInteraction),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
