package ecs

// Event is a generic ECS event payload. Type names the payload; Data holds
// one of the typed structs below.
type Event struct {
	Type string
	Data any
}

const (
	EventThreatChanged          = "threat_changed"
	EventActiveCharacterChanged = "active_character_changed"
	EventSwitchBlocked          = "switch_blocked"
	EventCooldownRemaining      = "cooldown_remaining"
	EventCooldownFinished       = "cooldown_finished"
	EventAgentStateChanged      = "agent_state_changed"
	EventMainCharacterHit       = "main_character_hit"
	EventSecondaryCharacterHit  = "secondary_character_hit"
)

// ThreatChanged fires when the global "is anyone seen" flag flips.
type ThreatChanged struct {
	Threatened bool
}

// ActiveCharacterChanged fires after an atomic switch completed.
type ActiveCharacterChanged struct {
	Old      Entity
	New      Entity
	OldIndex int
	NewIndex int
	Forced   bool
}

// SwitchBlocked reports a refused switch request.
type SwitchBlocked struct {
	Reason  string
	Message string
}

// CooldownRemaining is published every tick the switch cooldown is running.
type CooldownRemaining struct {
	Seconds float64
}

// AgentStateChanged is published on every pursuit FSM transition.
type AgentStateChanged struct {
	Agent Entity
	From  string
	To    string
}

// CharacterHit reports an agent touching a controllable character.
type CharacterHit struct {
	Agent     Entity
	Character Entity
	Index     int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit pushes a typed payload.
func (q *EventQueue) Emit(typ string, data any) {
	q.Push(Event{Type: typ, Data: data})
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
