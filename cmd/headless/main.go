package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/milk9111/pursuit/prefabs"
	"github.com/milk9111/pursuit/sim"
)

type runResult struct {
	runIndex int
	seed     int64
	stats    sim.Stats
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var level string
	var script string
	var tps int
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "logic ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&level, "level", sim.DefaultLevel, "level name in levels/")
	flag.StringVar(&script, "script", "circle", "input script in prefabs/scripts")
	flag.IntVar(&tps, "tps", 60, "logic ticks per simulated second")
	flag.BoolVar(&verbose, "v", false, "log simulation events")
	flag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 || tps <= 0 {
		fmt.Println("error: -ticks and -tps must be > 0")
		os.Exit(2)
	}
	if !slices.Contains(prefabs.Scripts(), script) {
		fmt.Printf("error: unknown script %q (have %s)\n", script, strings.Join(prefabs.Scripts(), ", "))
		os.Exit(2)
	}

	fmt.Printf("=== Headless Pursuit Report ===\n")
	fmt.Printf("level=%s script=%s runs=%d ticks=%d tps=%d seed_base=%d seed_step=%d\n\n",
		level, script, runs, ticks, tps, seedBase, seedStep)

	dt := 1 / float64(tps)
	results := make([]runResult, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		s, err := sim.New(sim.WithLevel(level), sim.WithSeed(seed), sim.WithScript(script))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		s.Run(ticks, dt)
		r := runResult{runIndex: i + 1, seed: seed, stats: s.Stats()}
		results = append(results, r)
		printRun(r, dt)
	}

	printAggregate(results, dt)
}

func printRun(r runResult, dt float64) {
	st := r.stats
	fmt.Printf("--- run %d (seed %d) ---\n", r.runIndex, r.seed)
	if st.FirstChaseTick > 0 {
		fmt.Printf("first chase: tick %d (%.2fs)\n", st.FirstChaseTick, float64(st.FirstChaseTick)*dt)
	} else {
		fmt.Printf("first chase: never\n")
	}
	fmt.Printf("threatened: %.1fs of %.1fs (%d flips)\n", st.ThreatenedTime, float64(st.Ticks)*dt, st.ThreatChanges)
	fmt.Printf("switches: %d (forced %d)  blocked: %s\n", st.Switches, st.ForcedSwitches, formatCounts(st.Blocked))
	fmt.Printf("hits: main %d secondary %d  restarts: %d\n", st.MainHits, st.SecondaryHits, st.Restarts)
	fmt.Printf("transitions: %s\n\n", formatCounts(st.Transitions))
}

func printAggregate(results []runResult, dt float64) {
	var chased, restarts, switches, blocked int
	var threatened, total float64
	transitions := make(map[string]int)
	for _, r := range results {
		if r.stats.FirstChaseTick > 0 {
			chased++
		}
		restarts += r.stats.Restarts
		switches += r.stats.Switches
		for _, n := range r.stats.Blocked {
			blocked += n
		}
		threatened += r.stats.ThreatenedTime
		total += float64(r.stats.Ticks) * dt
		for k, n := range r.stats.Transitions {
			transitions[k] += n
		}
	}

	fmt.Printf("=== Aggregate ===\n")
	fmt.Printf("runs with a chase: %d/%d\n", chased, len(results))
	if total > 0 {
		fmt.Printf("threatened share: %.1f%%\n", 100*threatened/total)
	}
	fmt.Printf("restarts: %d  switches: %d  blocked requests: %d\n", restarts, switches, blocked)
	fmt.Printf("transitions: %s\n", formatCounts(transitions))
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", k, m[k])
	}
	return out
}
