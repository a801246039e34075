package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRender        EventType = "render"
	EventPropEvaluated EventType = "prop_evaluated"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RenderEvent summarizes a completed (or failed) page render.
type RenderEvent struct {
	EventBase
	Component string        `json:"component"`
	Mode      string        `json:"mode"`
	Props     int           `json:"props"`
	Deferred  int           `json:"deferred"`
	Duration  time.Duration `json:"duration"`
	IsError   bool          `json:"is_error,omitempty"`
}

// PropEvent reports the evaluation of one surviving top-level prop.
type PropEvent struct {
	EventBase
	Key        string        `json:"key"`
	Annotation Annotation    `json:"annotation"`
	Duration   time.Duration `json:"duration"`
	IsError    bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRender        func(context.Context, *RenderEvent)
	OnPropEvaluated func(context.Context, *PropEvent)
}
