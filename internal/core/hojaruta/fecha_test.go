package hojaruta

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "date only", raw: "2026-02-03", want: "03/02/2026"},
		{name: "datetime", raw: "2026-02-03T00:00:00", want: "03/02/2026"},
		{name: "datetime late utc stays on same day", raw: "2026-02-03T23:59:59Z", want: "03/02/2026"},
		{name: "datetime with offset", raw: "2026-12-31T00:30:00-04:00", want: "31/12/2026"},
		{name: "no calendar validation", raw: "2026-13-45", want: "45/13/2026"},
		{name: "slashed ymd falls back", raw: "2026/02/03", want: "03/02/2026"},
		{name: "us style falls back", raw: "02/03/2026", want: "03/02/2026"},
		{name: "rfc1123 falls back", raw: "Tue, 03 Feb 2026 10:00:00 GMT", want: "03/02/2026"},
		{name: "long form falls back", raw: "February 3, 2026", want: "03/02/2026"},
		{name: "missing part is not reordered", raw: "2026--03", want: "2026--03"},
		{name: "garbage returned unchanged", raw: "sin fecha", want: "sin fecha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.raw); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
		want   string
	}{
		{raw: "2026-02-03", wantOK: true, want: "2026-02-03"},
		{raw: "2026-02-03T22:00:00-04:00", wantOK: true, want: "2026-02-03"},
		{raw: "2026/02/03", wantOK: true, want: "2026-02-03"},
		{raw: "", wantOK: false},
		{raw: "mañana", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDay(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseDay(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}
