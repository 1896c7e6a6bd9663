package system

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// SwitchBlockReason explains why a switch request was refused.
type SwitchBlockReason int

const (
	SwitchAllowed SwitchBlockReason = iota
	SwitchBlockedNotEnoughCharacters
	SwitchBlockedOnCooldown
	SwitchBlockedThreatened
)

func (r SwitchBlockReason) String() string {
	switch r {
	case SwitchAllowed:
		return "none"
	case SwitchBlockedNotEnoughCharacters:
		return "not-enough-characters"
	case SwitchBlockedOnCooldown:
		return "on-cooldown"
	case SwitchBlockedThreatened:
		return "threatened"
	default:
		return fmt.Sprintf("SwitchBlockReason(%d)", int(r))
	}
}

// ArbiterConfig tunes the control arbiter.
type ArbiterConfig struct {
	SwitchCooldownAfterHit      float64
	DisableSwitchWhenThreatened bool
}

// ControlArbiter owns which roster character is player-controlled. Index 0
// of the roster is the main character.
type ControlArbiter struct {
	world  *ecs.World
	roster []ecs.Entity
	cfg    ArbiterConfig

	active     int
	cooldown   float64
	threatened bool
	queued     bool
	disabled   bool
}

// NewControlArbiter activates roster[0] and deactivates the rest. An empty
// roster yields a disabled arbiter that ignores every request.
func NewControlArbiter(w *ecs.World, roster []ecs.Entity, cfg ArbiterConfig) *ControlArbiter {
	a := &ControlArbiter{
		world:  w,
		roster: append([]ecs.Entity(nil), roster...),
		cfg:    cfg,
	}
	if w == nil || len(a.roster) == 0 {
		a.disabled = true
		slog.Error("control arbiter has no characters, disabling", "system", "arbiter")
		return a
	}
	for i, e := range a.roster {
		if i == 0 {
			a.activate(e)
		} else {
			a.deactivate(e)
		}
	}
	slog.Info("control arbiter ready", "system", "arbiter", "roster", len(a.roster))
	return a
}

// Disabled reports whether the arbiter was built without characters.
func (a *ControlArbiter) Disabled() bool {
	return a == nil || a.disabled
}

func (a *ControlArbiter) RosterSize() int {
	if a == nil {
		return 0
	}
	return len(a.roster)
}

// Roster returns the characters in roster order.
func (a *ControlArbiter) Roster() []ecs.Entity {
	if a == nil {
		return nil
	}
	return append([]ecs.Entity(nil), a.roster...)
}

// Active returns the controlled character.
func (a *ControlArbiter) Active() (ecs.Entity, bool) {
	if a.Disabled() {
		return 0, false
	}
	return a.roster[a.active], true
}

func (a *ControlArbiter) ActiveIndex() int {
	if a.Disabled() {
		return -1
	}
	return a.active
}

// IsMain reports whether the main character is the one being controlled.
func (a *ControlArbiter) IsMain() bool {
	return !a.Disabled() && a.active == 0
}

// IndexOf returns the roster index of e, or -1.
func (a *ControlArbiter) IndexOf(e ecs.Entity) int {
	if a == nil {
		return -1
	}
	for i, r := range a.roster {
		if r == e {
			return i
		}
	}
	return -1
}

func (a *ControlArbiter) Threatened() bool {
	return a != nil && a.threatened
}

func (a *ControlArbiter) OnCooldown() bool {
	return a != nil && a.cooldown > 0
}

func (a *ControlArbiter) CooldownRemaining() float64 {
	if a == nil {
		return 0
	}
	return a.cooldown
}

// BlockReason returns why a switch would be refused right now.
func (a *ControlArbiter) BlockReason() SwitchBlockReason {
	switch {
	case a.Disabled() || len(a.roster) < 2:
		return SwitchBlockedNotEnoughCharacters
	case a.cooldown > 0:
		return SwitchBlockedOnCooldown
	case a.threatened && a.cfg.DisableSwitchWhenThreatened:
		return SwitchBlockedThreatened
	default:
		return SwitchAllowed
	}
}

// BlockMessage is a player-facing explanation of reason.
func (a *ControlArbiter) BlockMessage(reason SwitchBlockReason) string {
	switch reason {
	case SwitchBlockedNotEnoughCharacters:
		return "no other character to switch to"
	case SwitchBlockedOnCooldown:
		return fmt.Sprintf("cooldown active (%.1fs remaining)", a.CooldownRemaining())
	case SwitchBlockedThreatened:
		return "cannot switch while an enemy sees you"
	default:
		return ""
	}
}

func (a *ControlArbiter) CanSwitch() bool {
	return a.BlockReason() == SwitchAllowed
}

// SetThreatened stores the threat flag computed for this tick.
func (a *ControlArbiter) SetThreatened(threatened bool) {
	if a.Disabled() || a.threatened == threatened {
		return
	}
	a.threatened = threatened
	slog.Debug("threat changed", "system", "arbiter", "threatened", threatened)
	a.world.Events().Emit(ecs.EventThreatChanged, ecs.ThreatChanged{Threatened: threatened})
}

// QueueSwitch records a switch request to be resolved on the next Update.
func (a *ControlArbiter) QueueSwitch() {
	if a.Disabled() {
		return
	}
	a.queued = true
}

// RequestSwitch cycles control to the next roster character if allowed.
// Refused requests change nothing and report the reason.
func (a *ControlArbiter) RequestSwitch() SwitchBlockReason {
	reason := a.BlockReason()
	if reason != SwitchAllowed {
		msg := a.BlockMessage(reason)
		slog.Debug("switch blocked", "system", "arbiter", "reason", reason.String(), "message", msg)
		if !a.Disabled() {
			a.world.Events().Emit(ecs.EventSwitchBlocked, ecs.SwitchBlocked{Reason: reason.String(), Message: msg})
		}
		return reason
	}
	a.switchTo((a.active+1)%len(a.roster), false)
	return SwitchAllowed
}

// OnSecondaryHit hands control back to the main character and starts the
// switch cooldown, whatever the current state.
func (a *ControlArbiter) OnSecondaryHit() {
	if a.Disabled() {
		return
	}
	if a.active != 0 {
		a.switchTo(0, true)
	}
	a.cooldown = a.cfg.SwitchCooldownAfterHit
	a.queued = false
	slog.Info("secondary character hit", "system", "arbiter", "cooldown", a.cooldown)
}

// OnMainHit only reports the hit; ending the run is up to the caller.
func (a *ControlArbiter) OnMainHit() {
	if a.Disabled() {
		return
	}
	slog.Info("main character hit", "system", "arbiter")
}

// Update decays the cooldown and resolves a queued switch request.
func (a *ControlArbiter) Update(w *ecs.World) {
	if a.Disabled() || w == nil {
		return
	}
	if a.cooldown > 0 {
		a.cooldown -= w.DeltaTime()
		if a.cooldown <= 0 {
			a.cooldown = 0
			w.Events().Emit(ecs.EventCooldownFinished, nil)
		} else {
			w.Events().Emit(ecs.EventCooldownRemaining, ecs.CooldownRemaining{Seconds: a.cooldown})
		}
	}
	if a.queued {
		a.queued = false
		a.RequestSwitch()
	}
}

func (a *ControlArbiter) switchTo(next int, forced bool) {
	prevIndex := a.active
	prev := a.roster[prevIndex]
	nextEnt := a.roster[next]

	a.deactivate(prev)
	a.active = next
	a.activate(nextEnt)

	slog.Info("active character changed", "system", "arbiter", "from", prevIndex, "to", next, "forced", forced)
	a.world.Events().Emit(ecs.EventActiveCharacterChanged, ecs.ActiveCharacterChanged{
		Old:      prev,
		New:      nextEnt,
		OldIndex: prevIndex,
		NewIndex: next,
		Forced:   forced,
	})
}

func (a *ControlArbiter) activate(e ecs.Entity) {
	if c, ok := ecs.Get(a.world, e, component.CharacterComponent); ok {
		c.Active = true
	}
}

func (a *ControlArbiter) deactivate(e ecs.Entity) {
	if c, ok := ecs.Get(a.world, e, component.CharacterComponent); ok {
		c.Active = false
	}
	if in, ok := ecs.Get(a.world, e, component.InputComponent); ok {
		*in = component.Input{}
	}
	if pb, ok := ecs.Get(a.world, e, component.PhysicsBodyComponent); ok && pb.Body != nil {
		pb.Body.SetVelocityVector(cp.Vector{})
	}
}
