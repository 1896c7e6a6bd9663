package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/prefabs"
	"github.com/milk9111/pursuit/sim"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// messageTicks is how long a HUD notice stays up at 60 TPS.
	messageTicks = 120
)

type Game struct {
	frames int
	debug  bool
	script string

	sim     *sim.Simulation
	watcher *prefabs.Watcher

	message      string
	messageTicks int
}

// GameOptions are the command-line choices for the demo.
type GameOptions struct {
	Level  string
	Seed   int64
	Script string
	Debug  bool
	Watch  bool
}

func NewGame(opts GameOptions) (*Game, error) {
	simOpts := []sim.Option{sim.WithLevel(opts.Level), sim.WithSeed(opts.Seed)}
	if opts.Script != "" {
		simOpts = append(simOpts, sim.WithScript(opts.Script))
	} else {
		simOpts = append(simOpts, sim.WithInputSource(&KeyboardInput{}))
	}
	s, err := sim.New(simOpts...)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:  opts.Debug,
		script: opts.Script,
		sim:    s,
	}
	s.OnEvent(g.onEvent)

	if opts.Watch {
		w, err := prefabs.WatchPrefabs()
		if err != nil {
			slog.Warn("prefab hot reload disabled", "component", "game", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) onEvent(ev ecs.Event) {
	switch ev.Type {
	case ecs.EventSwitchBlocked:
		if data, ok := ev.Data.(ecs.SwitchBlocked); ok {
			g.flash(data.Message)
		}
	case ecs.EventSecondaryCharacterHit:
		g.flash("caught! control returns to the main character")
	case ecs.EventMainCharacterHit:
		g.flash("main character caught, restarting")
	}
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTicks = messageTicks
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if g.watcher != nil {
			_ = g.watcher.Close()
		}
		os.Exit(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.sim.Restart(); err != nil {
			slog.Error("restart failed", "component", "game", "err", err)
		}
	}
	g.pollReload()

	g.sim.Update(1 / float64(ebiten.TPS()))

	if g.messageTicks > 0 {
		g.messageTicks--
	}
	return nil
}

// pollReload restarts the level when prefab files change on disk.
func (g *Game) pollReload() {
	changes := g.watcher.Poll()
	if len(changes) == 0 {
		return
	}

	paths := make([]string, 0, len(changes))
	scriptChanged := false
	for _, c := range changes {
		paths = append(paths, c.Path)
		if c.Kind == prefabs.ChangeScript {
			scriptChanged = true
		}
	}
	slog.Info("prefabs changed", "component", "game", "paths", paths)

	if scriptChanged && g.script != "" {
		in, err := system.NewScriptedInput(g.script)
		if err != nil {
			slog.Error("reload script failed", "component", "game", "script", g.script, "err", err)
		} else {
			g.sim.SetInputSource(in)
		}
	}

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		slog.Error("reload prefabs failed", "component", "game", "err", err)
		g.flash("prefab reload failed, see log")
		return
	}
	if err := g.sim.Reload(tuning); err != nil {
		slog.Error("restart after reload failed", "component", "game", "err", err)
		return
	}
	g.flash("prefabs reloaded")
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := newView(g.sim.Level(), baseWidth, baseHeight)
	drawOverlay(screen, g.sim, v)
	if g.debug {
		drawPhysicsDebug(screen, g.sim.Physics(), v)
	}
	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) hud() string {
	a := g.sim.Arbiter()
	stats := g.sim.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  level: %s  restarts: %d\n", ebiten.ActualFPS(), g.sim.Level().Name, stats.Restarts)
	if a.Disabled() {
		b.WriteString("no characters in level\n")
	} else {
		fmt.Fprintf(&b, "active: %d/%d  threatened: %v", a.ActiveIndex()+1, a.RosterSize(), a.Threatened())
		if a.OnCooldown() {
			fmt.Fprintf(&b, "  cooldown: %.1fs", a.CooldownRemaining())
		}
		b.WriteString("\n")
	}
	if g.messageTicks > 0 {
		b.WriteString(g.message + "\n")
	}
	b.WriteString("WASD move  C switch  R restart  F3 physics  F12 quit")
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
