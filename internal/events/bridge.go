package events

import (
	"context"
	"log/slog"
)

// Bridge forwards every in-process bus event to the outbound publisher so
// the rest of the platform sees courseware changes on Kafka. Forwarding is
// best-effort: a publish failure is logged, never propagated back into the
// controller that raised the event.
type Bridge struct {
	publisher   EventPublisher
	logger      *slog.Logger
	unsubscribe func()
}

func NewBridge(bus *Bus, publisher EventPublisher, logger *slog.Logger) *Bridge {
	b := &Bridge{
		publisher: publisher,
		logger:    logger,
	}
	b.unsubscribe = bus.Subscribe(b.forward)
	return b
}

func (b *Bridge) forward(event Event) {
	// Session expiry stays local; every other event is platform-visible.
	switch event.(type) {
	case SessionExpiredEvent:
		return
	case EnrollmentJoinedEvent, EnrollmentDroppedEvent, MembershipJoinedEvent,
		CourseCreatedEvent, ActivityPublishedEvent, AssessmentSubmittedEvent:
	default:
		return
	}

	if err := b.publisher.PublishDomainEvent(context.Background(), NewDomainEvent(event)); err != nil {
		b.logger.Error("Failed to forward event to publisher",
			"event_type", TypeName(event),
			"error", err)
	}
}

// Close detaches the bridge from the bus.
func (b *Bridge) Close() {
	b.unsubscribe()
}
