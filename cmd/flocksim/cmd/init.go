package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a flock config file",
	Long: `Prompt for the flock settings and write them to a config file
(flock.yaml by default, JSON when the name ends in .json).`,
	Args: cobra.MaximumNArgs(1),
	RunE: initConfigFile,
}

func init() {
	initCmd.Flags().BoolP("yes", "y", false, "write the defaults without prompting")
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
}

func initConfigFile(cmd *cobra.Command, args []string) error {
	path := "flock.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := simulation.WriteConfig(path, cfg); err != nil {
		return err
	}
	successColor.Printf("Wrote %s\n", path)
	return nil
}

func promptConfig(cfg *simulation.Config) error {
	titleColor.Println("Zones")
	if err := promptFloat("Repulsion distance:", &cfg.RepulsionDistance); err != nil {
		return err
	}
	if err := promptFloat("Alignment distance:", &cfg.AlignmentDistance); err != nil {
		return err
	}
	if err := promptFloat("Attraction distance:", &cfg.AttractionDistance); err != nil {
		return err
	}

	titleColor.Println("Forces")
	if err := promptFloat("Repulsion force:", &cfg.RepulsionForce); err != nil {
		return err
	}
	if err := promptFloat("Alignment force:", &cfg.AlignmentForce); err != nil {
		return err
	}
	if err := promptFloat("Attraction force:", &cfg.AttractionForce); err != nil {
		return err
	}
	if err := promptFloat("Max speed:", &cfg.MaxSpeed); err != nil {
		return err
	}

	titleColor.Println("Flock")
	boids := strconv.Itoa(cfg.NumBoids)
	if err := survey.AskOne(&survey.Input{
		Message: "Number of boids:",
		Default: boids,
	}, &boids, survey.WithValidator(func(val interface{}) error {
		n, err := strconv.Atoi(val.(string))
		if err != nil || n < 0 {
			return errors.New("enter a non-negative integer")
		}
		return nil
	})); err != nil {
		return err
	}
	cfg.NumBoids, _ = strconv.Atoi(boids)
	if err := promptFloat("Spawn spread:", &cfg.Spread); err != nil {
		return err
	}
	return promptFloat("Start speed:", &cfg.StartSpeed)
}

// promptFloat asks for a non-negative number, defaulting to the current value.
func promptFloat(message string, value *float64) error {
	result := strconv.FormatFloat(*value, 'g', -1, 64)
	err := survey.AskOne(&survey.Input{
		Message: message,
		Default: result,
	}, &result, survey.WithValidator(func(val interface{}) error {
		f, err := strconv.ParseFloat(val.(string), 64)
		if err != nil || f < 0 {
			return errors.New("enter a non-negative number")
		}
		return nil
	}))
	if err != nil {
		return err
	}
	*value, _ = strconv.ParseFloat(result, 64)
	return nil
}
