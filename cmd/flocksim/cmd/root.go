package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	golog "github.com/tochemey/goakt/v3/log"
)

var (
	logLevel string
	noColor  bool
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flocksim",
	Short: "3D flocking simulation",
	Long: `flocksim runs a flock of boids steering by repulsion, alignment and
attraction. It can run headless, stream snapshots over a websocket or draw
the flock in the terminal.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "flock config file, YAML or JSON (env FLOCK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Config overrides, also read from FLOCK_BOIDS, FLOCK_SEED, ...
	rootCmd.PersistentFlags().Int("boids", 0, "number of boids to spawn (one more is created)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "spawn seed, 0 picks a random one")
	rootCmd.PersistentFlags().Int("workers", 0, "sensing goroutines")
	rootCmd.PersistentFlags().Float64("tick-rate", 0, "ticks per second")
	for _, name := range []string{"config", "boids", "seed", "workers", "tick-rate"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(initCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig wires environment variables into viper
func initConfig() {
	color.NoColor = color.NoColor || noColor

	viper.SetEnvPrefix("FLOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file, if any, then applies flag and
// environment overrides.
func loadConfig() (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if path := viper.GetString("config"); path != "" {
		loaded, err := simulation.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if viper.IsSet("boids") {
		cfg.NumBoids = viper.GetInt("boids")
	}
	if viper.IsSet("seed") {
		cfg.Seed = viper.GetUint64("seed")
	}
	if viper.IsSet("workers") {
		cfg.Workers = viper.GetInt("workers")
	}
	if viper.IsSet("tick-rate") {
		cfg.TickRate = viper.GetFloat64("tick-rate")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLevel(level string) (golog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return golog.DebugLevel, nil
	case "info":
		return golog.InfoLevel, nil
	case "warn", "warning":
		return golog.WarningLevel, nil
	case "error":
		return golog.ErrorLevel, nil
	default:
		return golog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// newLogger builds the logger shared by the actor system and the simulation.
func newLogger() (golog.Logger, error) {
	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return golog.New(level, os.Stdout), nil
}

func printConfig(cfg *simulation.Config) {
	titleColor.Println("Flock")
	fmt.Printf("  boids       %d (+1)\n", cfg.NumBoids)
	fmt.Printf("  zones       repulsion %.1f | alignment %.1f | attraction %.1f\n",
		cfg.RepulsionDistance, cfg.AlignmentDistance, cfg.AttractionDistance)
	fmt.Printf("  forces      repulsion %.1f | alignment %.1f | attraction %.1f\n",
		cfg.RepulsionForce, cfg.AlignmentForce, cfg.AttractionForce)
	fmt.Printf("  max speed   %.1f\n", cfg.MaxSpeed)
	fmt.Printf("  tick rate   %.0f/s with %d worker(s)\n", cfg.TickRate, max(cfg.Workers, 1))
}
