package pricing

import (
	"testing"
	"time"
)

func TestStorageDays(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		pickup  time.Time
		want    int
		wantErr bool
	}{
		{
			name:    "same day counts as one",
			created: time.Date(2026, 8, 1, 10, 0, 0, 0, JST),
			pickup:  time.Date(2026, 8, 1, 20, 0, 0, 0, JST),
			want:    1,
		},
		{
			name:    "next day counts as two",
			created: time.Date(2026, 8, 1, 23, 0, 0, 0, JST),
			pickup:  time.Date(2026, 8, 2, 9, 0, 0, 0, JST),
			want:    2,
		},
		{
			name:    "week long stay",
			created: time.Date(2026, 8, 1, 12, 0, 0, 0, JST),
			pickup:  time.Date(2026, 8, 7, 12, 0, 0, 0, JST),
			want:    7,
		},
		{
			name: "jst day boundary seen from utc",
			// 15:30 UTC is 00:30 next day in JST.
			created: time.Date(2026, 8, 1, 15, 30, 0, 0, time.UTC),
			pickup:  time.Date(2026, 8, 2, 2, 0, 0, 0, time.UTC),
			want:    1,
		},
		{
			name:    "pickup before creation",
			created: time.Date(2026, 8, 2, 10, 0, 0, 0, JST),
			pickup:  time.Date(2026, 8, 1, 10, 0, 0, 0, JST),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StorageDays(tt.created, tt.pickup)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("StorageDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidatePickupWindow(t *testing.T) {
	tests := []struct {
		name    string
		pickup  time.Time
		wantErr bool
	}{
		{name: "opening time", pickup: time.Date(2026, 8, 1, 9, 0, 0, 0, JST)},
		{name: "closing time", pickup: time.Date(2026, 8, 1, 21, 0, 0, 0, JST)},
		{name: "mid day", pickup: time.Date(2026, 8, 1, 14, 30, 0, 0, JST)},
		{name: "before opening", pickup: time.Date(2026, 8, 1, 8, 59, 0, 0, JST), wantErr: true},
		{name: "after closing", pickup: time.Date(2026, 8, 1, 21, 1, 0, 0, JST), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePickupWindow(tt.pickup)
			if tt.wantErr && err == nil {
				t.Error("expected error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsLatePickup(t *testing.T) {
	tests := []struct {
		hhmm string
		want bool
	}{
		{hhmm: "20:45", want: true},
		{hhmm: "21:00", want: true},
		{hhmm: "19:00", want: true},
		{hhmm: "18:59", want: false},
		{hhmm: "21:01", want: false},
		{hhmm: "09:00", want: false},
		{hhmm: "", want: false},
		{hhmm: "not a time", want: false},
	}

	for _, tt := range tests {
		if got := IsLatePickup(tt.hhmm); got != tt.want {
			t.Errorf("IsLatePickup(%q) = %v, want %v", tt.hhmm, got, tt.want)
		}
	}
}

func TestNextPickupDefault(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "rounds up to half hour",
			now:  time.Date(2026, 8, 1, 10, 12, 45, 0, JST),
			want: time.Date(2026, 8, 1, 10, 30, 0, 0, JST),
		},
		{
			name: "rounds up to full hour",
			now:  time.Date(2026, 8, 1, 10, 42, 0, 0, JST),
			want: time.Date(2026, 8, 1, 11, 0, 0, 0, JST),
		},
		{
			name: "already on slot stays",
			now:  time.Date(2026, 8, 1, 10, 30, 0, 0, JST),
			want: time.Date(2026, 8, 1, 10, 30, 0, 0, JST),
		},
		{
			name: "before opening moves to opening",
			now:  time.Date(2026, 8, 1, 7, 10, 0, 0, JST),
			want: time.Date(2026, 8, 1, 9, 0, 0, 0, JST),
		},
		{
			name: "after closing moves to next morning",
			now:  time.Date(2026, 8, 1, 21, 40, 0, 0, JST),
			want: time.Date(2026, 8, 2, 9, 0, 0, 0, JST),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPickupDefault(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextPickupDefault = %v, want %v", got, tt.want)
			}
		})
	}
}
