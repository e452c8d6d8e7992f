package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/josephlewis42/smallsh/core/logger"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell's event log.",
}

// withAppLog opens the recorded event log and hands it to fn.
func withAppLog(fn func(le *logger.LogEntry)) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := config.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, fn)
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Summarize recorded events into usage counts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.Report
		if err := withAppLog(report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

var dumpCommand = &cobra.Command{
	Use:   "dump",
	Short: "Print every recorded event, one line each.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		out := cmd.OutOrStdout()
		return withAppLog(func(le *logger.LogEntry) {
			fmt.Fprintln(out, le.Describe())
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(dumpCommand)
}
