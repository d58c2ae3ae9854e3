package chat

import (
	"time"

	domain "github.com/Hanan11240/chat-app/domain/chat"
)

// TimeLayout renders hour:minute:second the way an en-US locale does.
const TimeLayout = "3:04:05 PM"

// BuildEnvelope creates a message envelope stamped with the current time.
func BuildEnvelope(name, text string) domain.Envelope {
	return buildEnvelopeAt(name, text, time.Now())
}

func buildEnvelopeAt(name, text string, at time.Time) domain.Envelope {
	return domain.Envelope{
		Name: name,
		Text: text,
		Time: at.Format(TimeLayout),
	}
}
