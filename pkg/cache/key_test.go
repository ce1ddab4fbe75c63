package cache

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{
			name: "no prefix",
			key:  "/server/players",
			want: "/server/players",
		},
		{
			name:   "with prefix",
			prefix: "guild-a",
			key:    "/server/players",
			want:   "guild-a:/server/players",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.prefix, tt.key)
			if got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
			if back := stripPrefix(tt.prefix, got); back != tt.key {
				t.Errorf("stripPrefix() = %q, want %q", back, tt.key)
			}
		})
	}
}

func TestTTLSeconds(t *testing.T) {
	tests := []struct {
		maxAge time.Duration
		want   int64
	}{
		{maxAge: 30 * time.Second, want: 30},
		{maxAge: 1500 * time.Millisecond, want: 2},
		{maxAge: 1001 * time.Millisecond, want: 2},
		{maxAge: 100 * time.Millisecond, want: 1},
		{maxAge: 5 * time.Minute, want: 300},
	}

	for _, tt := range tests {
		t.Run(tt.maxAge.String(), func(t *testing.T) {
			if got := ttlSeconds(tt.maxAge); got != tt.want {
				t.Errorf("ttlSeconds(%v) = %d, want %d", tt.maxAge, got, tt.want)
			}
		})
	}
}
