package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/pursuit/sim"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the physics overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", sim.DefaultLevel, "level name in levels/ (basename, .json optional)")
	seed := flag.Int64("seed", 0, "RNG seed (0 picks one from the clock)")
	script := flag.String("script", "", "drive characters from prefabs/scripts/<name>.tengo instead of the keyboard")
	watch := flag.Bool("watch", true, "restart the level when prefab files change on disk")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	slog.Info("starting", "level", *levelName, "seed", *seed, "script", *script)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("pursuit")

	game, err := NewGame(GameOptions{
		Level:  *levelName,
		Seed:   *seed,
		Script: *script,
		Debug:  *debug,
		Watch:  *watch,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
