// Package cli wires forgecrack's cobra command tree together, binding
// each subcommand's flags to viper the way go-i2p/newsgo's cmd package
// does: PersistentFlags on the root for cross-cutting settings, plain
// Flags per subcommand for its own parameters, one BindPFlags call per
// command in its init().
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"forgecrack/internal/config"
	"forgecrack/internal/logging"
)

var (
	cfgFile string
	v       = viper.New()
	log     = logging.New(logging.ParseLevel("info"), os.Stderr, false)
)

var rootCmd = &cobra.Command{
	Use:   "forgecrack",
	Short: "Detect and crack password-protected ZIP, PDF, Office, BitLocker, and LUKS containers",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It only needs to happen once, in main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the command tree against args instead of
// os.Args, for tests that invoke specific subcommands.
func ExecuteWithArgs(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogger)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.forgecrack.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON instead of text")
	v.BindPFlags(rootCmd.PersistentFlags())
}

func initLogger() {
	c, err := config.BindAndLoad(v, cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "forgecrack: config:", err)
		return
	}
	log = logging.New(logging.ParseLevel(c.LogLevel), os.Stderr, c.LogJSON)
}
