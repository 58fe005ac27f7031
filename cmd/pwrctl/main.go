// Pwrctl is a command line utility for network-attached multi-outlet
// power controllers.
//
// It discovers controllers on the local network, switches individual
// outlets on and off by name, power-cycles whole devices, and persists
// the learned device/outlet topology to a per-user configuration file
// so later invocations can skip discovery.
//
// Usage:
//
//	pwrctl [flags] <command> [args...]
//
// See 'pwrctl --list' for the command table or 'pwrctl --help' for
// full flag documentation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netpwr/pwrctl/internal/logging"
	"github.com/netpwr/pwrctl/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Sync()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pwrctl",
	Short: "Network power controller utility",
	Long: `A command line utility for network-attached multi-outlet power
controllers.

Outlets are addressed by name: 'pwrctl on Lamp' switches every plug
whose name matches "Lamp", optionally scoped to one device with
'pwrctl on Strip1 Lamp'. Devices come either from the saved
configuration or, with --discover, from a live network scan.`,
	Version: version.Version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagList {
			printCommandList(os.Stdout, cmd)
			return nil
		}
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q, see --list", args[0])
		}
		return fmt.Errorf("command missing, please add one")
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pwrctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
