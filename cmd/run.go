package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/auvsim/app"
	"github.com/kilianp07/auvsim/config"
	"github.com/kilianp07/auvsim/core/factory"
	"github.com/kilianp07/auvsim/infra/logger"
)

// ErrMissionFailed is returned by the run command when the mission ends in
// the FAILED phase.
var ErrMissionFailed = errors.New("mission failed")

var (
	realtime   bool
	renderPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dive, transit to the goal and surface",
	RunE:  run,
}

func init() {
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace the control loop with the wall clock")
	runCmd.Flags().StringVar(&renderPath, "render", "", "write the trajectory plot to this PNG file")
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("realtime") {
		cfg.Mission.Realtime = realtime
	}
	if renderPath != "" {
		cfg.Observers = append(cfg.Observers, factory.ModuleConfig{
			Type: "render",
			Conf: map[string]any{"path": renderPath, "target_depth": cfg.Mission.TargetDepth},
		})
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res := svc.Run(ctx)
	out := cmd.OutOrStdout()
	f := res.Final
	fmt.Fprintf(out, "mission %s: %s after %d steps (%.1fs)\n", res.MissionID, res.Phase, res.Steps, res.Duration.Seconds())
	fmt.Fprintf(out, "final position (%.2f, %.2f) depth %.2fm heading %.1f battery %.1f%%\n",
		f.Position.X, f.Position.Y, f.Depth, f.Heading, f.BatteryLevel)
	if !res.Success() {
		fmt.Fprintln(out, "Mission failed!")
		return fmt.Errorf("%w: %w", ErrMissionFailed, res.Err)
	}
	fmt.Fprintln(out, "Mission completed successfully!")
	return nil
}
