package schedule

// FindDuplicate reports whether the candidate collides with an existing
// activity and returns the conflicting ID.
//
// Two activities conflict when title, weekday, start hour and end hour are
// all equal, compared exactly. This is a coarse uniqueness constraint on the
// tuple, not a time-overlap check: two differently named activities may still
// occupy the same slot.
func FindDuplicate(existing []Activity, candidate Activity) (string, bool) {
	for _, activity := range existing {
		if activity.ID != "" && activity.ID == candidate.ID {
			continue
		}
		if activity.Title == candidate.Title &&
			activity.Weekday == candidate.Weekday &&
			activity.StartHour == candidate.StartHour &&
			activity.EndHour == candidate.EndHour {
			return activity.ID, true
		}
	}
	return "", false
}
