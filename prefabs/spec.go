package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderSpec struct {
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	LinearDamping float64 `yaml:"linear_damping"`
}

type PerceptionSpec struct {
	SightRange  float64    `yaml:"sight_range"`
	SightAngle  float64    `yaml:"sight_angle"`
	UpdateSpeed float64    `yaml:"update_speed"`
	MinMovement float64    `yaml:"min_movement"`
	EyeOffset   VectorSpec `yaml:"eye_offset"`
}

type SteeringSpec struct {
	MoveSpeed         float64 `yaml:"move_speed"`
	Acceleration      float64 `yaml:"acceleration"`
	StoppingDistance  float64 `yaml:"stopping_distance"`
	DetectionDistance float64 `yaml:"obstacle_detection_distance"`
	AvoidanceForce    float64 `yaml:"avoidance_force"`
	RaySpread         float64 `yaml:"raycast_spread"`
	Rays              int     `yaml:"avoidance_rays"`
}

type PursuitSpec struct {
	RoamRadius        float64 `yaml:"roam_radius"`
	MinPatrolDistance float64 `yaml:"min_patrol_distance"`
	RoamInterval      float64 `yaml:"roam_interval"`
	SearchTime        float64 `yaml:"search_time"`
}

// AgentSpec is the tuning of a pursuing enemy.
type AgentSpec struct {
	Name       string         `yaml:"name"`
	Collider   ColliderSpec   `yaml:"collider"`
	Perception PerceptionSpec `yaml:"perception"`
	Steering   SteeringSpec   `yaml:"steering"`
	Pursuit    PursuitSpec    `yaml:"pursuit"`
	// FSM names a state machine prefab; empty selects the built-in one.
	FSM string `yaml:"fsm"`
}

func LoadAgentSpec() (*AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec]("agent.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// CharacterSpec is the tuning shared by every controllable character.
type CharacterSpec struct {
	Name      string       `yaml:"name"`
	MoveSpeed float64      `yaml:"move_speed"`
	Collider  ColliderSpec `yaml:"collider"`
}

func LoadCharacterSpec() (*CharacterSpec, error) {
	spec, err := LoadSpec[CharacterSpec]("character.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ArbiterSpec configures character switching.
type ArbiterSpec struct {
	SwitchCooldownAfterHit      float64 `yaml:"switch_cooldown_after_hit"`
	DisableSwitchWhenThreatened bool    `yaml:"disable_switch_when_threatened"`
}

func LoadArbiterSpec() (*ArbiterSpec, error) {
	spec, err := LoadSpec[ArbiterSpec]("arbiter.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// FSMSpec describes a state machine. Transitions are ordered per state;
// each entry maps one condition name to a target state.
type FSMSpec struct {
	Initial     string                         `yaml:"initial"`
	States      map[string]FSMStateSpec        `yaml:"states"`
	Transitions map[string][]map[string]string `yaml:"transitions"`
}

type FSMStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

func LoadFSMSpec(filename string) (*FSMSpec, error) {
	spec, err := LoadSpec[FSMSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Initial == "" {
		return nil, fmt.Errorf("prefabs: %s: missing initial state", filename)
	}
	return &spec, nil
}

// Tuning bundles every prefab a simulation needs.
type Tuning struct {
	Agent     AgentSpec
	Character CharacterSpec
	Arbiter   ArbiterSpec
}

// LoadTuning reads agent, character and arbiter prefabs.
func LoadTuning() (Tuning, error) {
	agent, err := LoadAgentSpec()
	if err != nil {
		return Tuning{}, err
	}
	character, err := LoadCharacterSpec()
	if err != nil {
		return Tuning{}, err
	}
	arbiter, err := LoadArbiterSpec()
	if err != nil {
		return Tuning{}, err
	}
	return Tuning{Agent: *agent, Character: *character, Arbiter: *arbiter}, nil
}

// DefaultTuning mirrors the embedded prefabs and is used when nothing can
// be loaded.
func DefaultTuning() Tuning {
	return Tuning{
		Agent: AgentSpec{
			Name:     "agent",
			Collider: ColliderSpec{Radius: 0.4, Mass: 1, LinearDamping: 2},
			Perception: PerceptionSpec{
				SightRange:  6,
				SightAngle:  90,
				UpdateSpeed: 5,
				MinMovement: 0.1,
			},
			Steering: SteeringSpec{
				MoveSpeed:         3,
				Acceleration:      10,
				StoppingDistance:  0.5,
				DetectionDistance: 1.5,
				AvoidanceForce:    2,
				RaySpread:         45,
				Rays:              3,
			},
			Pursuit: PursuitSpec{
				RoamRadius:        4,
				MinPatrolDistance: 1,
				RoamInterval:      3,
				SearchTime:        2,
			},
			FSM: "pursuit_fsm.yaml",
		},
		Character: CharacterSpec{
			Name:      "character",
			MoveSpeed: 6,
			Collider:  ColliderSpec{Radius: 0.4, Mass: 1, LinearDamping: 2},
		},
		Arbiter: ArbiterSpec{
			SwitchCooldownAfterHit:      3,
			DisableSwitchWhenThreatened: true,
		},
	}
}
