package main

import (
	"strings"
	"testing"

	"github.com/whisper/market-chat/internal/escalation"
)

func TestNotification(t *testing.T) {
	tests := []struct {
		name  string
		event escalation.Event
		want  []string
	}{
		{
			name:  "strike",
			event: escalation.StrikeAddedEvent{ID: "e1", UserID: 7, StrikeID: 2, Reason: "telefono"},
			want:  []string{"user=7", "strike=2", "advertencia", "telefono"},
		},
		{
			name:  "blocked",
			event: escalation.AccountBlockedEvent{ID: "e2", UserID: 7, StrikeCount: 3},
			want:  []string{"user=7", "strikes=3", "bloqueada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := notification(tt.event)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("notification() = %q, missing %q", got, w)
				}
			}
		})
	}
}
