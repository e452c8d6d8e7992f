package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/shell"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("No config.yaml found, using built-in defaults. Run init to create one.")
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands.
// Running it starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell with background job control.",
	Long: `smallsh reads commands from the terminal and runs them in the
foreground or, with a trailing &, in the background. Background jobs are
reaped between prompts and Ctrl-Z toggles a foreground-only mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		eventLog := logger.NewNopLogger()
		if configuration.LogEvents {
			fd, err := configuration.OpenAppLog()
			if err != nil {
				log.Printf("Couldn't open event log: %v", err)
			} else {
				defer fd.Close()
				eventLog = logger.NewJSONLinesLogRecorder(fd)
			}
		}

		sh := shell.New(configuration, os.Stdin, os.Stdout, os.Stderr, eventLog.NewSession())
		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
