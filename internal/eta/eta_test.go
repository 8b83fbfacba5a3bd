package eta

import "testing"

func TestEstimateHours(t *testing.T) {
	tests := []struct {
		name         string
		heavy, light int
		want         int
	}{
		{"mixed", 2, 3, 156},
		{"none", 0, 0, 0},
		{"light only", 0, 2, 8},
		{"heavy only", 1, 0, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateHours(tt.heavy, tt.light); got != tt.want {
				t.Fatalf("got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		hours int
		want  string
	}{
		{"zero", 0, "Ready Now"},
		{"under a day", 5, "5 hours"},
		{"days and hours", 156, "6d 12h"},
		{"exact days", 72, "3 days"},
		{"one day", 24, "1 days"},
		{"just under a day", 23, "23 hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.hours); got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestEstimate(t *testing.T) {
	if got := Estimate(2, 3); got != "6d 12h" {
		t.Fatalf("got=%q want=%q", got, "6d 12h")
	}
	if got := Estimate(0, 0); got != "Ready Now" {
		t.Fatalf("got=%q want=%q", got, "Ready Now")
	}
}
