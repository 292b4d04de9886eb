package events

import (
	"log/slog"
	"sync"
)

// Event is the closed union of in-process domain events. Subscribers
// discriminate with a type switch instead of comparing type strings.
type Event interface {
	isEvent()
}

type EnrollmentJoinedEvent struct {
	CourseID  string
	StudentID string
}

type EnrollmentDroppedEvent struct {
	CourseID  string
	StudentID string
}

type MembershipJoinedEvent struct {
	GroupID    string
	CategoryID string
	CourseID   string
	StudentID  string
}

type CourseCreatedEvent struct {
	CourseID  string
	TeacherID string
}

type ActivityPublishedEvent struct {
	ActivityID string
	CourseID   string
	Reviewing  bool
}

type AssessmentSubmittedEvent struct {
	ActivityID string
	GroupID    string
	ReviewerID string
	StudentID  string
}

type SessionExpiredEvent struct {
	UserID string
}

func (EnrollmentJoinedEvent) isEvent()    {}
func (EnrollmentDroppedEvent) isEvent()   {}
func (MembershipJoinedEvent) isEvent()    {}
func (CourseCreatedEvent) isEvent()       {}
func (ActivityPublishedEvent) isEvent()   {}
func (AssessmentSubmittedEvent) isEvent() {}
func (SessionExpiredEvent) isEvent()      {}

// Handler receives every published event.
type Handler func(Event)

type busSubscription struct {
	fn Handler
}

// Bus is the process-wide publish/subscribe channel that decouples
// controllers reacting to each other's changes. Publishing is synchronous
// fan-out in subscriber registration order, fire-and-forget: no buffering,
// no replay, no acknowledgement.
type Bus struct {
	mu     sync.Mutex
	subs   []*busSubscription
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers a handler and returns its unsubscribe func.
func (b *Bus) Subscribe(fn Handler) func() {
	sub := &busSubscription{fn: fn}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, candidate := range b.subs {
				if candidate == sub {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish invokes every subscriber with the event. A panicking subscriber
// is recovered and logged; the remaining subscribers still run.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	subs := make([]*busSubscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		b.dispatch(sub, event)
	}
}

func (b *Bus) dispatch(sub *busSubscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event subscriber panicked",
				"event_type", TypeName(event),
				"panic", r)
		}
	}()
	sub.fn(event)
}

// TypeName maps an event to its wire name, used for logging and for the
// outbound Kafka envelope. The switch is exhaustive over the union.
func TypeName(event Event) string {
	switch event.(type) {
	case EnrollmentJoinedEvent:
		return "enrollment.joined"
	case EnrollmentDroppedEvent:
		return "enrollment.dropped"
	case MembershipJoinedEvent:
		return "membership.joined"
	case CourseCreatedEvent:
		return "course.created"
	case ActivityPublishedEvent:
		return "activity.published"
	case AssessmentSubmittedEvent:
		return "assessment.submitted"
	case SessionExpiredEvent:
		return "session.expired"
	default:
		return "unknown"
	}
}
