package localization

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]interface{}
		want   string
	}{
		{
			name: "korean tier label",
			lang: "ko",
			key:  "tier.GOLD",
			want: "골드",
		},
		{
			name: "japanese tier label",
			lang: "ja",
			key:  "tier.GOLD",
			want: "ゴールド",
		},
		{
			name: "empty language falls back to korean",
			lang: "",
			key:  "payment.CASH",
			want: "현금",
		},
		{
			name: "unknown language falls back to korean",
			lang: "en",
			key:  "payment.CASH",
			want: "현금",
		},
		{
			name: "unknown key returns the key itself",
			lang: "ko",
			key:  "board.no_such_key",
			want: "board.no_such_key",
		},
		{
			name:   "placeholders replaced",
			lang:   "ko",
			key:    "breakdown.base",
			params: map[string]interface{}{"amount": "¥ 2,400"},
			want:   "기본 요금 ¥ 2,400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Get(tt.lang, tt.key, tt.params)
			if got != tt.want {
				t.Errorf("Get(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestGetLeavesUnknownPlaceholders(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got := svc.Get("ko", "breakdown.rate", map[string]interface{}{"per_day": "¥ 800"})
	if !strings.Contains(got, "{{days}}") {
		t.Errorf("Get with a missing param should leave the placeholder, got %q", got)
	}
}
