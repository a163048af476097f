package live

// Change classifies what moved between two consecutive snapshots. Viewers use
// the class to decide whether a transition animation is warranted.
type Change int

const (
	// Unchanged means the frames are identical apart from the timestamp.
	Unchanged Change = iota
	// CountersOnly means only counters, results data or the active block
	// moved. Viewers repaint in place without animating.
	CountersOnly
	// GuestQuestionChanged means the displayed guest question switched.
	GuestQuestionChanged
	// ResultsToggled means the moderator flipped show-results on the same
	// active question.
	ResultsToggled
	// QuestionChanged means the active question itself switched, including
	// to or from none. The first frame of a stream always classifies here.
	QuestionChanged
)

func (c Change) String() string {
	switch c {
	case CountersOnly:
		return "counters-only"
	case GuestQuestionChanged:
		return "guest-question-changed"
	case ResultsToggled:
		return "results-toggled"
	case QuestionChanged:
		return "question-changed"
	default:
		return "unchanged"
	}
}

// Compare classifies next against prev. A nil prev is the first tick of a
// stream and always yields QuestionChanged so the viewer renders everything.
// When several things moved at once the most disruptive class wins:
// QuestionChanged over ResultsToggled over GuestQuestionChanged over
// CountersOnly. Timestamps never count as change.
func Compare(prev, next *Snapshot) Change {
	if prev == nil {
		return QuestionChanged
	}
	if prev.QuestionID() != next.QuestionID() ||
		prev.HasActiveQuestion != next.HasActiveQuestion {
		return QuestionChanged
	}
	if prev.ShowResults != next.ShowResults {
		return ResultsToggled
	}
	if guestQuestionID(prev) != guestQuestionID(next) {
		return GuestQuestionChanged
	}
	if countersDiffer(prev, next) {
		return CountersOnly
	}
	return Unchanged
}

func guestQuestionID(s *Snapshot) int64 {
	if s.DisplayedGuestQuestion == nil {
		return 0
	}
	return s.DisplayedGuestQuestion.ID
}

func activeBlockID(s *Snapshot) int64 {
	if s.ActiveBlock == nil {
		return 0
	}
	return s.ActiveBlock.ID
}

// countersDiffer compares everything below the animation threshold. The block
// countdown is derived from wall clock and deliberately ignored; comparing it
// would flag every tick as changed.
func countersDiffer(prev, next *Snapshot) bool {
	return prev.Participants != next.Participants ||
		prev.Responses != next.Responses ||
		prev.ResponseCount != next.ResponseCount ||
		activeBlockID(prev) != activeBlockID(next) ||
		!prev.ResponseData.Equal(next.ResponseData)
}
