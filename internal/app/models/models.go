package models

// OrderedDays is the fixed weekday ordering used throughout the projection
// engine. The position of a label in this list is load-bearing: meetings are
// sorted by it before consecutive slots are collapsed into display groups.
// "TBA" and the empty string sort after the real weekdays.
var OrderedDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "TBA", ""}

// DayIndex returns the position of day in OrderedDays, or -1 when the value
// is not one of the known labels.
func DayIndex(day string) int {
	for i, d := range OrderedDays {
		if d == day {
			return i
		}
	}
	return -1
}

// Section status labels as reported by institutions.
const (
	StatusOpen     = "Open"
	StatusWaitList = "Wait List"
	StatusClosed   = "Closed"
)
