package schedule

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:03", "09:03"},
		{"9:03", "09:03"},
		{"9:3", "09:03"},
		{" 23:59 ", "23:59"},
		{"00:00", "00:00"},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("parse %q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseTimeOfDay_Rejects(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "abc", "12", "1:2:3", "-1:30", "123:00", "12:5a"} {
		_, err := ParseTimeOfDay(in)
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("parse %q: expected FormatError, got %v", in, err)
		}
	}
}

func TestTimeOfDayAddHoursWraps(t *testing.T) {
	at, err := NewTimeOfDay(23, 30)
	if err != nil {
		t.Fatalf("new time: %v", err)
	}
	if got := at.AddHours(2).String(); got != "01:30" {
		t.Fatalf("expected 01:30, got %s", got)
	}
	if got := at.AddHours(0).String(); got != "23:30" {
		t.Fatalf("expected 23:30, got %s", got)
	}
	if got := at.DecimalHours(); got != 23.5 {
		t.Fatalf("expected 23.5, got %v", got)
	}
}
