package date

import (
	"slices"
	"testing"
	"time"
)

func TestRange_Ends(t *testing.T) {
	testCases := []struct {
		name   string
		in     Range
		period Period
		want   []Date
	}{
		{
			name:   "months clipped to the range end",
			in:     Range{From: New(2021, time.February, 1), To: New(2021, time.April, 15)},
			period: Monthly,
			want:   []Date{New(2021, time.February, 28), New(2021, time.March, 31), New(2021, time.April, 15)},
		},
		{
			name:   "range ending on a period end",
			in:     Range{From: New(2021, time.January, 10), To: New(2021, time.June, 30)},
			period: Quarterly,
			want:   []Date{New(2021, time.March, 31), New(2021, time.June, 30)},
		},
		{
			name:   "days",
			in:     Range{From: New(2021, time.August, 14), To: New(2021, time.August, 16)},
			period: Daily,
			want:   []Date{New(2021, time.August, 14), New(2021, time.August, 15), New(2021, time.August, 16)},
		},
		{
			name:   "empty range",
			in:     Range{From: New(2021, time.August, 16), To: New(2021, time.August, 14)},
			period: Daily,
			want:   nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(tc.in.Ends(tc.period))
			if !slices.Equal(got, tc.want) {
				t.Errorf("Ends(%v) = %v, want %v", tc.period, got, tc.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", Daily, false},
		{"week", Weekly, false},
		{"Monthly", Monthly, false},
		{"quarter", Quarterly, false},
		{"yearly", Yearly, false},
		{" Day ", Daily, false},
		{"unknown", Daily, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParsePeriod() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if got != tc.want {
				t.Errorf("ParsePeriod() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPeriod_String(t *testing.T) {
	for p, want := range map[Period]string{Daily: "daily", Quarterly: "quarterly", Period(9): "Period(9)"} {
		if got := p.String(); got != want {
			t.Errorf("Period(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
