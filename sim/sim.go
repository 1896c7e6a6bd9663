// Package sim assembles agents, characters and the control arbiter into a
// runnable, renderer-free simulation.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/entity"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/levels"
	"github.com/milk9111/pursuit/prefabs"
)

// maxPhysicsSteps caps how many fixed steps one logic tick may run; any
// backlog beyond that is dropped.
const maxPhysicsSteps = 8

// Simulation runs the logic systems once per Update and the physics
// systems at a fixed rate in between.
type Simulation struct {
	cfg    config
	tuning prefabs.Tuning
	level  *levels.Level
	rng    *rand.Rand
	input  system.InputSource

	world   *ecs.World
	physics *ecs.PhysicsWorld
	arbiter *system.ControlArbiter
	agents  []ecs.Entity
	roster  []ecs.Entity

	logic       *ecs.Scheduler
	fixed       *ecs.Scheduler
	inputSystem *system.InputSystem
	accumulator float64

	stats     Stats
	listeners []func(ecs.Event)
}

// New loads the level and tuning and builds the first session.
func New(opts ...Option) (*Simulation, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	lvl := cfg.level
	if lvl == nil {
		loaded, err := levels.Load(cfg.levelName)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		lvl = loaded
	}

	input := cfg.input
	if cfg.script != "" {
		scripted, err := system.NewScriptedInput(cfg.script)
		if err != nil {
			return nil, fmt.Errorf("sim: input: %w", err)
		}
		input = scripted
	}

	s := &Simulation{
		cfg:    cfg,
		tuning: resolveTuning(cfg.tuning),
		level:  lvl,
		rng:    cfg.newRand(),
		input:  input,
		stats:  newStats(),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveTuning(t *prefabs.Tuning) prefabs.Tuning {
	if t != nil {
		return *t
	}
	loaded, err := prefabs.LoadTuning()
	if err != nil {
		slog.Warn("load tuning failed, using defaults", "component", "sim", "err", err)
		return prefabs.DefaultTuning()
	}
	return loaded
}

func (s *Simulation) build() error {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld()
	pw.AddBounds(s.level.Width, s.level.Height)

	for i, o := range s.level.Obstacles {
		if _, err := entity.NewObstacle(w, pw, o.X, o.Y, o.X+o.W, o.Y+o.H, o.SightOnly); err != nil {
			return fmt.Errorf("sim: obstacle %d: %w", i, err)
		}
	}

	roster := make([]ecs.Entity, 0, len(s.level.Characters))
	for i, c := range s.level.Characters {
		e, err := entity.NewCharacter(w, pw, cp.Vector{X: c.X, Y: c.Y}, i, c.Name, s.tuning.Character)
		if err != nil {
			return fmt.Errorf("sim: character %d: %w", i, err)
		}
		roster = append(roster, e)
	}

	agents := make([]ecs.Entity, 0, len(s.level.Agents))
	for i, sp := range s.level.Agents {
		spawn := cp.Vector{X: sp.X, Y: sp.Y}
		facing := cp.Vector{X: sp.FacingX, Y: sp.FacingY}
		e, err := entity.NewAgent(w, pw, spawn, facing, s.tuning.Agent)
		if err != nil {
			return fmt.Errorf("sim: agent %d: %w", i, err)
		}
		agents = append(agents, e)
	}

	arbiter := system.NewControlArbiter(w, roster, system.ArbiterConfig{
		SwitchCooldownAfterHit:      s.tuning.Arbiter.SwitchCooldownAfterHit,
		DisableSwitchWhenThreatened: s.tuning.Arbiter.DisableSwitchWhenThreatened,
	})
	inputSystem := system.NewInputSystem(s.input, arbiter)

	// Threat must see every agent's updated sight before the arbiter runs.
	s.logic = ecs.NewScheduler(
		inputSystem,
		system.NewPerceptionSystem(),
		system.NewPursuitSystem(pw, arbiter, s.rng),
		system.NewThreatSystem(pw, arbiter),
		arbiter,
	)
	s.fixed = ecs.NewScheduler(
		system.NewCharacterMotorSystem(),
		system.NewPhysicsSystem(pw, s.cfg.step),
		system.NewContactSystem(pw, arbiter),
	)

	s.teardown()
	s.world = w
	s.physics = pw
	s.arbiter = arbiter
	s.agents = agents
	s.roster = roster
	s.inputSystem = inputSystem
	s.accumulator = 0

	slog.Info("simulation built",
		"component", "sim",
		"level", s.level.Name,
		"agents", len(agents),
		"characters", len(roster),
		"obstacles", len(s.level.Obstacles),
	)
	return nil
}

// teardown destroys every entity of the previous session so handles kept
// by listeners stop resolving.
func (s *Simulation) teardown() {
	if s.world == nil {
		return
	}
	destroyed := 0
	for _, e := range s.world.Entities() {
		if s.world.DestroyEntity(e) {
			destroyed++
		}
	}
	slog.Debug("session torn down", "component", "sim", "entities", destroyed)
}

// Update runs one logic tick of dt seconds followed by as many fixed
// physics steps as the accumulated time allows.
func (s *Simulation) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.world.BeginTick(dt)
	s.logic.Update(s.world)

	s.accumulator += dt
	steps := 0
	for s.accumulator >= s.cfg.step && steps < maxPhysicsSteps {
		s.fixed.Update(s.world)
		s.accumulator -= s.cfg.step
		steps++
	}
	if s.accumulator >= s.cfg.step {
		slog.Debug("dropping physics backlog", "component", "sim", "seconds", s.accumulator)
		s.accumulator = 0
	}

	s.stats.Ticks++
	s.stats.PhysicsSteps += uint64(steps)
	if s.arbiter.Threatened() {
		s.stats.ThreatenedTime += dt
	}
	s.dispatch()
}

// Run advances ticks logic ticks of dt seconds each.
func (s *Simulation) Run(ticks int, dt float64) {
	for i := 0; i < ticks; i++ {
		s.Update(dt)
	}
}

func (s *Simulation) dispatch() {
	mainHit := false
	for _, ev := range s.world.Events().Drain() {
		s.stats.record(s.stats.Ticks, ev)
		for _, fn := range s.listeners {
			fn(ev)
		}
		if ev.Type == ecs.EventMainCharacterHit {
			mainHit = true
		}
	}
	if mainHit && s.cfg.restart {
		if err := s.Restart(); err != nil {
			slog.Error("restart failed", "component", "sim", "err", err)
		}
	}
}

// Restart rebuilds the level from scratch. Stats and the RNG carry over.
func (s *Simulation) Restart() error {
	if err := s.build(); err != nil {
		return err
	}
	s.stats.Restarts++
	slog.Info("simulation restarted", "component", "sim", "level", s.level.Name, "restarts", s.stats.Restarts)
	return nil
}

// Reload swaps in new tuning and restarts.
func (s *Simulation) Reload(t prefabs.Tuning) error {
	s.tuning = t
	return s.Restart()
}

// SetInputSource replaces the input source for this and later sessions.
func (s *Simulation) SetInputSource(src system.InputSource) {
	s.input = src
	s.inputSystem.SetSource(src)
}

// OnEvent registers fn to receive every event published by the world.
func (s *Simulation) OnEvent(fn func(ecs.Event)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *Simulation) World() *ecs.World {
	return s.world
}

func (s *Simulation) Physics() *ecs.PhysicsWorld {
	return s.physics
}

func (s *Simulation) Arbiter() *system.ControlArbiter {
	return s.arbiter
}

func (s *Simulation) Level() *levels.Level {
	return s.level
}

func (s *Simulation) Tuning() prefabs.Tuning {
	return s.tuning
}

func (s *Simulation) Agents() []ecs.Entity {
	return append([]ecs.Entity(nil), s.agents...)
}

func (s *Simulation) Roster() []ecs.Entity {
	return append([]ecs.Entity(nil), s.roster...)
}

// Stats returns a snapshot of the run statistics.
func (s *Simulation) Stats() Stats {
	return s.stats.Clone()
}
