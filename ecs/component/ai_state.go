package component

// StateID identifies an AI FSM state.
type StateID string

// EventID identifies an AI FSM event.
type EventID string

const DefaultAIFSMName = "pursuit_default"

// AIState stores the current FSM state.
type AIState struct {
	Current StateID
}

// AIConfig stores the FSM configuration reference for an entity. An empty
// FSM selects the built-in pursuit machine.
type AIConfig struct {
	FSM string
}

var AIStateComponent = NewComponent[AIState]()
var AIConfigComponent = NewComponent[AIConfig]()
