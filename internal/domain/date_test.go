package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on Jan 1 is already Jan 2 in UTC+10.
	ts := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	if got := DateOf(ts).String(); got != "2024-01-01" {
		t.Errorf("DateOf(utc) = %s, want 2024-01-01", got)
	}
	if got := DateOf(ts.In(loc)).String(); got != "2024-01-02" {
		t.Errorf("DateOf(local) = %s, want 2024-01-02", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"2024-01-01", -1, "2023-12-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-01-10", 0, "2024-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MustParseDate(tt.in).AddDays(tt.n).String(); got != tt.want {
				t.Errorf("AddDays(%d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "01/02/2024", "garbage"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDateJSON(t *testing.T) {
	s := Streak{Current: 2, LastLogDate: MustParseDate("2024-03-05")}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"current":2,"last_log_date":"2024-03-05"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var back Streak
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != s {
		t.Errorf("Unmarshal() = %+v, want %+v", back, s)
	}
}

func TestZeroDateJSONIsNull(t *testing.T) {
	data, err := json.Marshal(Streak{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"current":0,"last_log_date":null}` {
		t.Errorf("Marshal() = %s", data)
	}

	for _, in := range []string{`{"last_log_date":null}`, `{"last_log_date":""}`} {
		back := Streak{LastLogDate: MustParseDate("2024-01-01")}
		if err := json.Unmarshal([]byte(in), &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", in, err)
		}
		if !back.LastLogDate.IsZero() {
			t.Errorf("Unmarshal(%s) = %v, want the zero date", in, back.LastLogDate)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-30"`), &d); err == nil {
		t.Error("Unmarshal() of an impossible date should fail")
	}
}
