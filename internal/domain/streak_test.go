package domain

import "testing"

func TestRecordActivity(t *testing.T) {
	tests := []struct {
		name        string
		start       Streak
		today       string
		wantCurrent int
		wantDate    string
		wantChanged bool
	}{
		{
			name:        "first ever log",
			start:       Streak{},
			today:       "2024-01-01",
			wantCurrent: 1,
			wantDate:    "2024-01-01",
			wantChanged: true,
		},
		{
			name:        "same day is a no-op",
			start:       Streak{Current: 2, LastLogDate: MustParseDate("2024-01-02")},
			today:       "2024-01-02",
			wantCurrent: 2,
			wantDate:    "2024-01-02",
			wantChanged: false,
		},
		{
			name:        "consecutive day increments",
			start:       Streak{Current: 2, LastLogDate: MustParseDate("2024-01-02")},
			today:       "2024-01-03",
			wantCurrent: 3,
			wantDate:    "2024-01-03",
			wantChanged: true,
		},
		{
			name:        "gap resets to one",
			start:       Streak{Current: 3, LastLogDate: MustParseDate("2024-01-03")},
			today:       "2024-01-06",
			wantCurrent: 1,
			wantDate:    "2024-01-06",
			wantChanged: true,
		},
		{
			name:        "last log in the future resets",
			start:       Streak{Current: 4, LastLogDate: MustParseDate("2024-02-01")},
			today:       "2024-01-15",
			wantCurrent: 1,
			wantDate:    "2024-01-15",
			wantChanged: true,
		},
		{
			name:        "across month boundary",
			start:       Streak{Current: 5, LastLogDate: MustParseDate("2024-02-29")},
			today:       "2024-03-01",
			wantCurrent: 6,
			wantDate:    "2024-03-01",
			wantChanged: true,
		},
		{
			name:        "zeroed streak with yesterday's date resumes",
			start:       Streak{Current: 0, LastLogDate: MustParseDate("2024-01-09")},
			today:       "2024-01-10",
			wantCurrent: 1,
			wantDate:    "2024-01-10",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.start.RecordActivity(MustParseDate(tt.today))
			if got.Current != tt.wantCurrent {
				t.Errorf("RecordActivity() current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.LastLogDate.String() != tt.wantDate {
				t.Errorf("RecordActivity() last date = %s, want %s", got.LastLogDate, tt.wantDate)
			}
			if changed != tt.wantChanged {
				t.Errorf("RecordActivity() changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestStreakContinuityAndHot(t *testing.T) {
	var s Streak
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		s, _ = s.RecordActivity(MustParseDate(day))
	}
	if s.Current != 3 {
		t.Fatalf("after three consecutive days current = %d, want 3", s.Current)
	}
	if !s.Hot() {
		t.Error("Hot() = false after three consecutive days, want true")
	}

	s, _ = s.RecordActivity(MustParseDate("2024-01-03"))
	if s.Current != 3 {
		t.Errorf("second log on the same day changed current to %d", s.Current)
	}

	s, _ = s.RecordActivity(MustParseDate("2024-01-06"))
	if s.Current != 1 {
		t.Errorf("after a gap current = %d, want 1", s.Current)
	}
	if s.Hot() {
		t.Error("Hot() = true after reset, want false")
	}
}

func TestValidateOnLoad(t *testing.T) {
	tests := []struct {
		name        string
		start       Streak
		today       string
		wantCurrent int
		wantDate    string
	}{
		{
			name:        "stale date zeroes the counter but keeps the date",
			start:       Streak{Current: 4, LastLogDate: MustParseDate("2024-01-01")},
			today:       "2024-01-10",
			wantCurrent: 0,
			wantDate:    "2024-01-01",
		},
		{
			name:        "logged today stays",
			start:       Streak{Current: 4, LastLogDate: MustParseDate("2024-01-10")},
			today:       "2024-01-10",
			wantCurrent: 4,
			wantDate:    "2024-01-10",
		},
		{
			name:        "logged yesterday stays",
			start:       Streak{Current: 4, LastLogDate: MustParseDate("2024-01-09")},
			today:       "2024-01-10",
			wantCurrent: 4,
			wantDate:    "2024-01-09",
		},
		{
			name:        "no date forces zero",
			start:       Streak{Current: 7},
			today:       "2024-01-10",
			wantCurrent: 0,
			wantDate:    "",
		},
		{
			name:        "future date zeroes",
			start:       Streak{Current: 2, LastLogDate: MustParseDate("2024-01-12")},
			today:       "2024-01-10",
			wantCurrent: 0,
			wantDate:    "2024-01-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.ValidateOnLoad(MustParseDate(tt.today))
			if got.Current != tt.wantCurrent {
				t.Errorf("ValidateOnLoad() current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.LastLogDate.String() != tt.wantDate {
				t.Errorf("ValidateOnLoad() last date = %q, want %q", got.LastLogDate, tt.wantDate)
			}
		})
	}
}
