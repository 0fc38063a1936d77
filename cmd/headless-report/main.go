package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"

	"github.com/Garsondee/Radar-Scope/internal/radar"
)

// runStats summarises one headless run of the placement engine.
type runStats struct {
	runIndex int
	seed     int64
	frames   int
	aircraft int

	kindChanges    int // placement-kind flips across the whole run
	clusterChanges int // cluster-key reassignments
	hiddenChanges  int // hidden-count transitions

	maxHidden    int
	finalHidden  int
	finalDirect  int
	finalLeader  int
	finalCallout int
}

func main() {
	var runs int
	var frames int
	var aircraft int
	var seedBase int64
	var seedStep int64
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&frames, "frames", 600, "frames per run")
	flag.IntVar(&aircraft, "aircraft", 80, "aircraft per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&verbose, "verbose", false, "print the full stability log per run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if aircraft <= 0 {
		fmt.Println("error: -aircraft must be > 0")
		return
	}

	fmt.Printf("=== Headless Placement Stability Report ===\n")
	fmt.Printf("runs=%d frames=%d aircraft=%d seed_base=%d seed_step=%d\n\n",
		runs, frames, aircraft, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(i+1, seed, frames, aircraft, verbose)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runScenario drives one TestScope full of randomly routed aircraft and
// collects flicker statistics from its stability log.
func runScenario(runIndex int, seed int64, frames, aircraft int, verbose bool) runStats {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- synthetic scenario only
	opts := []radar.ScopeOption{
		radar.WithViewport(1280, 720),
		radar.WithCamera(640, 360, 1),
	}
	for i := 0; i < aircraft; i++ {
		heading := rng.Float64() * 2 * math.Pi
		speed := 0.3 + rng.Float64()*1.0
		priority := 0.0
		if rng.Float64() < 0.08 {
			priority = 10
		}
		opts = append(opts, radar.WithMovingAircraft(
			fmt.Sprintf("ac-%03d", i),
			fmt.Sprintf("TS%04d", 1000+i),
			rng.Float64()*1280, rng.Float64()*720,
			math.Cos(heading)*speed, math.Sin(heading)*speed,
			priority,
		))
	}

	ts := radar.NewTestScope(opts...)
	ts.RunFrames(frames)

	if verbose {
		fmt.Print(ts.Log.Format())
	}

	stats := runStats{
		runIndex:     runIndex,
		seed:         seed,
		frames:       frames,
		aircraft:     aircraft,
		finalHidden:  ts.LastResult.HiddenCount,
		finalDirect:  len(ts.LastResult.DirectLabels),
		finalLeader:  len(ts.LastResult.LeaderLabels),
		finalCallout: len(ts.LastResult.Callouts),
	}
	stats.kindChanges = ts.Log.Count("placement", "kind_change")
	stats.clusterChanges = ts.Log.Count("cluster", "key_change")
	stats.hiddenChanges = ts.Log.Count("hidden", "count_change")
	for _, ev := range ts.Log.Filter("hidden", "count_change") {
		if int(ev.NumVal) > stats.maxHidden {
			stats.maxHidden = int(ev.NumVal)
		}
	}
	return stats
}

// flickerRate returns placement-kind changes per aircraft per 100 frames,
// the headline stability number.
func flickerRate(rs runStats) float64 {
	if rs.aircraft == 0 || rs.frames == 0 {
		return 0
	}
	return float64(rs.kindChanges) / float64(rs.aircraft) / float64(rs.frames) * 100
}

// stabilityGrade buckets a flicker rate into a coarse human-readable grade.
func stabilityGrade(rate float64) string {
	switch {
	case rate < 0.5:
		return "steady"
	case rate < 2.0:
		return "acceptable"
	default:
		return "flickering"
	}
}

func printRun(rs runStats) {
	rate := flickerRate(rs)
	fmt.Printf("--- run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("kind_changes=%d cluster_changes=%d hidden_changes=%d max_hidden=%d\n",
		rs.kindChanges, rs.clusterChanges, rs.hiddenChanges, rs.maxHidden)
	fmt.Printf("final: direct=%d leader=%d callouts=%d hidden=%d\n",
		rs.finalDirect, rs.finalLeader, rs.finalCallout, rs.finalHidden)
	fmt.Printf("flicker_rate=%.2f per aircraft per 100 frames [%s]\n\n",
		rate, stabilityGrade(rate))
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	var totalRate float64
	worst := all[0]
	worstRate := flickerRate(all[0])
	for _, rs := range all {
		rate := flickerRate(rs)
		totalRate += rate
		if rate > worstRate {
			worst = rs
			worstRate = rate
		}
	}
	fmt.Printf("=== aggregate over %d runs ===\n", len(all))
	fmt.Printf("mean_flicker_rate=%.2f worst_run=%d (seed=%d, %.2f)\n",
		totalRate/float64(len(all)), worst.runIndex, worst.seed, worstRate)
}
