package domain

// HotStreakThreshold is the streak length from which a streak counts as hot.
const HotStreakThreshold = 3

// Streak tracks consecutive calendar days with at least one logged deed.
//
// Current is 0 exactly when LastLogDate is zero or older than yesterday at
// the last evaluation. Time of day never matters, only calendar dates.
type Streak struct {
	Current     int  `json:"current"`
	LastLogDate Date `json:"last_log_date"`
}

// RecordActivity advances the streak for a deed logged on today.
// It reports whether the streak fields changed.
//
//   - same day as the last log: unchanged (one increment per day)
//   - the day after the last log: incremented
//   - anything else (no log yet, a gap, or a last log in the future): restarted at 1
func (s Streak) RecordActivity(today Date) (Streak, bool) {
	switch {
	case !s.LastLogDate.IsZero() && s.LastLogDate == today:
		return s, false
	case !s.LastLogDate.IsZero() && s.LastLogDate == today.AddDays(-1):
		return Streak{Current: s.Current + 1, LastLogDate: today}, true
	default:
		return Streak{Current: 1, LastLogDate: today}, true
	}
}

// ValidateOnLoad zeroes a streak whose last log is neither today nor
// yesterday. LastLogDate is kept as is, so a later RecordActivity still
// compares against the real last day.
func (s Streak) ValidateOnLoad(today Date) Streak {
	if s.LastLogDate.IsZero() {
		return Streak{}
	}
	if s.LastLogDate == today || s.LastLogDate == today.AddDays(-1) {
		return s
	}
	s.Current = 0
	return s
}

// Hot reports whether the streak has reached HotStreakThreshold.
func (s Streak) Hot() bool {
	return s.Current >= HotStreakThreshold
}
