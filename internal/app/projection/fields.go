package projection

// availableFieldAccessors is the fixed accessor table behind the
// available_stats map: one named extraction function per optional field
// path. Consumers use the flags to hide columns that are empty for every
// section of a course.
var availableFieldAccessors = []struct {
	name    string
	present func(SectionDocument) bool
}{
	{"number", func(s SectionDocument) bool { return s.Number != "" }},
	{"name", func(s SectionDocument) bool { return s.Name != "" }},
	{"status.label", func(s SectionDocument) bool { return s.Status.Label != "" }},
	{"status.seats", func(s SectionDocument) bool { return s.Status.Seats != nil }},
	{"status.waitlist", func(s SectionDocument) bool { return s.Status.Waitlist != nil }},
	{"component", func(s SectionDocument) bool { return s.Component != "" }},
	{"prof", func(s SectionDocument) bool { return s.Prof != "" }},
	{"units", func(s SectionDocument) bool { return s.Units != "" }},
	{"notes", func(s SectionDocument) bool { return s.Notes != "" }},
	{"meets.day", anyMeet(func(m MeetingDocument) bool { return m.Day != "" })},
	{"meets.start", anyMeet(func(m MeetingDocument) bool { return m.Start != nil })},
	{"meets.end", anyMeet(func(m MeetingDocument) bool { return m.End != nil })},
	{"meets.location", anyMeet(func(m MeetingDocument) bool { return m.Location != "" })},
	{"meets.room", anyMeet(func(m MeetingDocument) bool { return m.Room != "" })},
}

func anyMeet(present func(MeetingDocument) bool) func(SectionDocument) bool {
	return func(s SectionDocument) bool {
		for _, m := range s.Meets {
			if present(m) {
				return true
			}
		}
		return false
	}
}

// availableStats flags, for each optional field path, whether at least one
// section of the course carries a value for it.
func availableStats(sections []SectionDocument) map[string]bool {
	stats := make(map[string]bool, len(availableFieldAccessors))
	for _, acc := range availableFieldAccessors {
		stats[acc.name] = false
		for _, s := range sections {
			if acc.present(s) {
				stats[acc.name] = true
				break
			}
		}
	}
	return stats
}
