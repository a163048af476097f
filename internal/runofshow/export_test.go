package runofshow

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
)

func TestWriteCSV(t *testing.T) {
	blocks := []models.RunOfShowBlock{
		{
			DayNumber:         1,
			StartTime:         "09:00",
			DurationMinutes:   45,
			BlockType:         models.BlockTypePresentation,
			Title:             "Åpning",
			Description:       "Velkommen",
			Location:          "Hovedscenen",
			ResponsiblePerson: "Kari Nordmann",
			TechRequirements:  models.TechRequirements{Microphone: true, Presentation: true},
		},
		{
			DayNumber:       1,
			StartTime:       "09:45",
			DurationMinutes: 15,
			BlockType:       models.BlockTypeBreak,
			Title:           "Kaffepause",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, blocks))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "09:00", first[1])
	assert.Equal(t, "09:45", first[2])
	assert.Equal(t, "45", first[3])
	assert.Equal(t, "Innlegg", first[4])
	assert.Equal(t, "Åpning", first[5])
	assert.Equal(t, "Yes", first[11], "microphone")
	assert.Equal(t, "Yes", first[12], "presentation")
	assert.Equal(t, "No", first[13], "video")

	second := records[2]
	assert.Equal(t, "10:00", second[2])
	assert.Equal(t, "Pause", second[4])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWriteCSVBadStartTime(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []models.RunOfShowBlock{{StartTime: "bogus", DurationMinutes: 10}})
	assert.Error(t, err)
}
