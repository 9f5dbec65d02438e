// Package main opens the skirmish viewer on a scenario.
package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Garsondee/skirmish/internal/config"
	"github.com/Garsondee/skirmish/internal/game"
	"github.com/Garsondee/skirmish/internal/logger"
	"github.com/Garsondee/skirmish/internal/viewer"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Watch and command a skirmish",
	Long:  `Opens a window on a scenario. Drag to select red units, right-click to move or attack.`,
	RunE:  runGame,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.Flags().String("scenario", "", "scenario file (default: built-in)")
	rootCmd.Flags().String("catalog", "", "unit catalog file (default: built-in)")
	rootCmd.Flags().Int64("seed", 1, "spawn jitter seed")
	rootCmd.Flags().Int("tps", 60, "simulation ticks per second")
	rootCmd.Flags().Bool("verbose", false, "record per-tick movement and override events")

	_ = viper.BindPFlag("scenario", rootCmd.Flags().Lookup("scenario"))
	_ = viper.BindPFlag("catalog", rootCmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("sim.seed", rootCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("sim.tps", rootCmd.Flags().Lookup("tps"))
}

func runGame(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log := logger.For("main")

	cat, sc, err := cfg.Resolve()
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	sim, err := sc.Build(cat, cfg.Sim.Seed, game.NewSimLog(verbose))
	if err != nil {
		return err
	}
	log.WithField("scenario", sc.Name).WithField("units", len(sim.Units())).Info("scenario loaded")

	ebiten.SetWindowTitle(fmt.Sprintf("Skirmish - %s", sc.Name))
	ebiten.SetWindowSize(viewer.WindowSize())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Sim.TPS)
	return ebiten.RunGame(viewer.New(sim, cfg.Timestep()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
