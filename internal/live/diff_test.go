package live

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/runofshow"
)

func qid(id int64) *int64 { return &id }

func snapshot() *Snapshot {
	return &Snapshot{
		ConferenceID:      1,
		Participants:      40,
		Responses:         12,
		HasActiveQuestion: true,
		ActiveQuestionID:  qid(7),
		ShowResults:       false,
		Timestamp:         1000,
	}
}

func TestCompareFirstFrameIsQuestionChanged(t *testing.T) {
	assert.Equal(t, QuestionChanged, Compare(nil, snapshot()))
}

func TestCompareIdenticalFramesUnchanged(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.Timestamp = 2000
	assert.Equal(t, Unchanged, Compare(prev, next))
}

func TestCompareQuestionSwitch(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.ActiveQuestionID = qid(8)
	assert.Equal(t, QuestionChanged, Compare(prev, next))
}

func TestCompareQuestionDeactivated(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.HasActiveQuestion = false
	next.ActiveQuestionID = nil
	assert.Equal(t, QuestionChanged, Compare(prev, next))
}

func TestCompareResultsToggled(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.ShowResults = true
	next.ResponseData = &ResponseData{Distribution: []OptionCount{{Answer: "Ja", Count: 8}}}
	next.ResponseCount = 1
	assert.Equal(t, ResultsToggled, Compare(prev, next))
}

func TestCompareGuestQuestionChanged(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.DisplayedGuestQuestion = &DisplayedQuestion{ID: 3, QuestionText: "Når er lunsj?"}
	assert.Equal(t, GuestQuestionChanged, Compare(prev, next))
}

func TestCompareCountersOnly(t *testing.T) {
	prev, next := snapshot(), snapshot()
	next.Responses = 13
	assert.Equal(t, CountersOnly, Compare(prev, next))

	prev, next = snapshot(), snapshot()
	next.Participants = 41
	assert.Equal(t, CountersOnly, Compare(prev, next))
}

func TestCompareResponseDataMovement(t *testing.T) {
	prev, next := snapshot(), snapshot()
	prev.ShowResults, next.ShowResults = true, true
	prev.ResponseData = &ResponseData{Distribution: []OptionCount{{Answer: "Ja", Count: 8}, {Answer: "Nei", Count: 4}}}
	next.ResponseData = &ResponseData{Distribution: []OptionCount{{Answer: "Ja", Count: 9}, {Answer: "Nei", Count: 4}}}
	prev.ResponseCount, next.ResponseCount = 2, 2
	assert.Equal(t, CountersOnly, Compare(prev, next))
}

func TestCompareActiveBlockSwitchIsCountersOnly(t *testing.T) {
	prev, next := snapshot(), snapshot()
	prev.ActiveBlock = &BlockView{ID: 1}
	next.ActiveBlock = &BlockView{ID: 2}
	assert.Equal(t, CountersOnly, Compare(prev, next))
}

func TestCompareCountdownTickDoesNotCount(t *testing.T) {
	prev, next := snapshot(), snapshot()
	prev.ActiveBlock = &BlockView{ID: 1, Countdown: nil}
	next.ActiveBlock = &BlockView{ID: 1, Countdown: &runofshow.Countdown{RemainingSeconds: 42}}
	assert.Equal(t, Unchanged, Compare(prev, next))
}

func TestComparePrecedence(t *testing.T) {
	// everything moves at once: the question switch wins
	prev, next := snapshot(), snapshot()
	next.ActiveQuestionID = qid(8)
	next.ShowResults = true
	next.DisplayedGuestQuestion = &DisplayedQuestion{ID: 3}
	next.Participants = 99
	assert.Equal(t, QuestionChanged, Compare(prev, next))

	// same question, toggle plus guest switch: toggle wins
	prev, next = snapshot(), snapshot()
	next.ShowResults = true
	next.DisplayedGuestQuestion = &DisplayedQuestion{ID: 3}
	assert.Equal(t, ResultsToggled, Compare(prev, next))
}

func TestChangeString(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "counters-only", CountersOnly.String())
	assert.Equal(t, "guest-question-changed", GuestQuestionChanged.String())
	assert.Equal(t, "results-toggled", ResultsToggled.String())
	assert.Equal(t, "question-changed", QuestionChanged.String())
}
