// Package activity keeps a local log of operator actions taken through the
// dashboard: station edits and sync runs.
package activity

import (
	"time"
)

// Action identifies what an operator (or the scheduler) did.
type Action string

// Recorded actions.
const (
	ActionStationCreate Action = "station.create"
	ActionStationUpdate Action = "station.update"
	ActionStationToggle Action = "station.toggle"
	ActionStationDelete Action = "station.delete"
	ActionSyncManual    Action = "sync.manual"
	ActionSyncAuto      Action = "sync.auto"
)

// Outcome is the result of an action.
type Outcome string

// Outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// SystemActor is the actor recorded for scheduled and automatic actions.
const SystemActor = "system"

// Entry is one recorded action.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
