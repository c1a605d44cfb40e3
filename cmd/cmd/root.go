package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/internal/logger"
)

const AppName = "digls"

var logLevel string

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - read-only block-image browser (ext4/FAT/MBR/JSON)",
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(DefineFindCommand())
	rootCmd.AddCommand(DefineCatCommand())
	rootCmd.AddCommand(DefineDuCommand())
	rootCmd.AddCommand(DefineDuParallelCommand())
	rootCmd.AddCommand(DefineMkfsVfatCommand())
	rootCmd.AddCommand(DefineSizeVfatCommand())

	return rootCmd.Execute()
}

// rootLogger builds a *logger.Logger configured from the persistent
// --log-level flag; du-parallel is the subcommand that logs through it.
func rootLogger() *logger.Logger {
	return logger.New(os.Stderr, logger.ParseLevel(logLevel))
}
