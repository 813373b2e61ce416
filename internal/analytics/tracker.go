// Package analytics records page events and visits. Tracking never blocks or
// fails the request that triggered it.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Properties are free-form event attributes.
type Properties map[string]any

type Event struct {
	ID         string
	Name       string
	DistinctID string
	Properties Properties
	Timestamp  time.Time
}

// NewEvent stamps an anonymous event with an id and the current time.
func NewEvent(name string, props Properties) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		DistinctID: "anonymous",
		Properties: props,
		Timestamp:  time.Now().UTC(),
	}
}

// Tracker receives events. Implementations must return quickly and handle
// their own failures.
type Tracker interface {
	Track(ctx context.Context, event Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Track(context.Context, Event) {}

// LogTracker logs events at debug level. Used in debug profiles instead of
// recording anything.
type LogTracker struct {
	Logger logrus.FieldLogger
}

func (t LogTracker) Track(_ context.Context, event Event) {
	t.Logger.WithFields(logrus.Fields{
		"event":      event.Name,
		"properties": event.Properties,
	}).Debug("Event tracking (debug mode)")
}

// Multi fans an event out to several trackers.
type Multi []Tracker

func (m Multi) Track(ctx context.Context, event Event) {
	for _, t := range m {
		t.Track(ctx, event)
	}
}
