package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/auvsim/config"
	"github.com/kilianp07/auvsim/infra/observers"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running a mission",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		m := cfg.Mission.Mission()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "target depth %.2fm within [%.2f, %.2f], max mission time %s\n",
			m.TargetDepth, m.MinDepth, m.MaxDepth, m.MaxMissionTime)
		known := make(map[string]bool)
		for _, n := range observers.Names() {
			known[n] = true
		}
		for i, o := range cfg.Observers {
			if !known[o.Type] {
				return fmt.Errorf("observers[%d]: unknown type %q (known: %s)", i, o.Type, strings.Join(observers.Names(), ", "))
			}
		}
		fmt.Fprintln(out, "configuration OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
