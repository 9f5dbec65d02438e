// Package main runs scenarios without a window and prints combat reports.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Garsondee/skirmish/internal/config"
	"github.com/Garsondee/skirmish/internal/game"
	"github.com/Garsondee/skirmish/internal/logger"
)

type runStats struct {
	runIndex int
	seed     int64
	endTick  int

	firstStrikeTick int
	firstDeathTick  int

	strikes      int
	abandoned    int
	bufferBreaks int
	deaths       int

	redTotal      int
	redSurvivors  int
	blueTotal     int
	blueSurvivors int

	outcome game.BattleOutcomeReason
	window  *game.WindowReport
}

// reportSampleTicks is how often a run samples the behaviour reporter.
const reportSampleTicks = 60

var (
	cfgFile     string
	runs        int
	seedStep    int64
	showWindows bool
)

var rootCmd = &cobra.Command{
	Use:   "headless-report",
	Short: "Run scenarios headless and report on the fighting",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario once per seed and print per-run and aggregate results",
	RunE:  runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("scenario", "", "scenario file (default: built-in)")
	rootCmd.PersistentFlags().String("catalog", "", "unit catalog file (default: built-in)")
	_ = viper.BindPFlag("scenario", rootCmd.PersistentFlags().Lookup("scenario"))
	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))

	runCmd.Flags().IntVar(&runs, "runs", 5, "number of headless simulation runs")
	runCmd.Flags().Int("ticks", 3600, "maximum ticks per run")
	runCmd.Flags().Int64("seed-base", 42, "seed for run 1")
	runCmd.Flags().Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	runCmd.Flags().BoolVar(&showWindows, "behaviour", false, "print the final behaviour window of each run")
	_ = viper.BindPFlag("sim.ticks", runCmd.Flags().Lookup("ticks"))
	_ = viper.BindPFlag("sim.seed", runCmd.Flags().Lookup("seed-base"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pathCmd)
}

func setup() (*config.Config, *config.Catalog, *config.Scenario, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	cat, sc, err := cfg.Resolve()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, cat, sc, nil
}

func runReport(_ *cobra.Command, _ []string) error {
	if runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	cfg, cat, sc, err := setup()
	if err != nil {
		return err
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d tps=%d seed_base=%d seed_step=%d\n\n",
		sc.Name, runs, cfg.Sim.Ticks, cfg.Sim.TPS, cfg.Sim.Seed, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := cfg.Sim.Seed + int64(i)*seedStep
		rs, err := runScenario(sc, cat, i+1, seed, cfg.Sim.Ticks, cfg.Timestep())
		if err != nil {
			return err
		}
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
	return nil
}

// runScenario plays one seed until a side is wiped out or ticks run out.
func runScenario(sc *config.Scenario, cat *config.Catalog, runIndex int, seed int64, ticks int, dt float64) (runStats, error) {
	log := game.NewSimLog(false)
	sim, err := sc.Build(cat, seed, log)
	if err != nil {
		return runStats{}, err
	}
	reporter := game.NewSimReporter(0)
	for sim.Tick() < ticks {
		sim.Step(dt)
		if sim.Tick()%reportSampleTicks == 0 {
			reporter.Collect(sim)
		}
		if o := game.DetermineBattleOutcome(sim).Outcome; o != game.OutcomeInconclusive {
			break
		}
	}
	reporter.Collect(sim)
	rs := collectStats(runIndex, seed, sim)
	rs.window = reporter.WindowSummary()
	return rs, nil
}

func collectStats(runIndex int, seed int64, sim *game.Sim) runStats {
	entries := sim.SimLog.Entries()
	outcome := game.DetermineBattleOutcome(sim)
	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		endTick:         sim.Tick(),
		firstStrikeTick: firstTick(entries, "ability", "strike", ""),
		firstDeathTick:  firstTick(entries, "health", "destroyed", ""),
		strikes:         sim.SimLog.CountCategory("ability", "strike"),
		abandoned:       sim.SimLog.CountCategory("ability", "abandon"),
		bufferBreaks:    sim.SimLog.CountCategory("ability", "motion_buffer_exceeded"),
		deaths:          sim.SimLog.CountCategory("health", "destroyed"),
		redTotal:        outcome.RedTotal,
		redSurvivors:    outcome.RedSurvivors,
		blueTotal:       outcome.BlueTotal,
		blueSurvivors:   outcome.BlueSurvivors,
		outcome:         outcome,
	}
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags runs where both sides kept most of their units.
func detectStalemate(rs runStats) (bool, string) {
	if rs.redTotal == 0 || rs.blueTotal == 0 {
		return false, "one_side_empty"
	}
	if rs.redSurvivors == 0 || rs.blueSurvivors == 0 {
		return false, "decisive"
	}
	redRate := float64(rs.redSurvivors) / float64(rs.redTotal)
	blueRate := float64(rs.blueSurvivors) / float64(rs.blueTotal)
	var reasons []string
	if rs.strikes == 0 {
		reasons = append(reasons, "no_contact")
	}
	if redRate >= 0.5 && blueRate >= 0.5 {
		reasons = append(reasons, fmt.Sprintf("high_mutual_survival(red=%.2f,blue=%.2f)", redRate, blueRate))
	}
	if len(reasons) == 0 {
		return false, "attrition_ongoing"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_strike=%d first_death=%d end=%d\n",
		rs.firstStrikeTick, rs.firstDeathTick, rs.endTick)
	fmt.Printf("event_totals: strike=%d abandon=%d motion_buffer_exceeded=%d destroyed=%d\n",
		rs.strikes, rs.abandoned, rs.bufferBreaks, rs.deaths)
	fmt.Printf("survivors: red=%d/%d blue=%d/%d\n", rs.redSurvivors, rs.redTotal, rs.blueSurvivors, rs.blueTotal)
	stalemate, reason := detectStalemate(rs)
	fmt.Printf("outcome: %s (%s) stalemate=%v reason=%s\n", rs.outcome.Outcome, rs.outcome.Description, stalemate, reason)
	if showWindows {
		fmt.Print(rs.window.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalStrikes, totalDeaths := 0, 0
	strikeTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	endTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	for _, rs := range all {
		totalStrikes += rs.strikes
		totalDeaths += rs.deaths
		if rs.firstStrikeTick >= 0 {
			strikeTicks = append(strikeTicks, rs.firstStrikeTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		endTicks = append(endTicks, rs.endTick)
		outcomes[rs.outcome.Outcome.String()]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: strike=%.1f destroyed=%.1f\n",
		avg(totalStrikes, len(all)), avg(totalDeaths, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_strike=%s first_death=%s end=%s\n",
		avgTickString(strikeTicks), avgTickString(deathTicks), avgTickString(endTicks))
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
