package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/whisper/market-chat/internal/escalation"
)

// DecodeEvent turns a payload received on moderation.event.<kind> back into
// its escalation event.
func DecodeEvent(kind string, data []byte) (escalation.Event, error) {
	switch kind {
	case escalation.KindStrikeAdded:
		var e escalation.StrikeAddedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("messaging: decode %s: %w", kind, err)
		}
		return e, nil
	case escalation.KindAccountBlocked:
		var e escalation.AccountBlockedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("messaging: decode %s: %w", kind, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("messaging: unknown event kind %q", kind)
	}
}
