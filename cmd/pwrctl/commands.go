package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netpwr/pwrctl/internal/anel"
	"github.com/netpwr/pwrctl/internal/configfile"
	"github.com/netpwr/pwrctl/internal/registry"
)

// Persistent flags. Credentials and ports fall back from flag to
// configuration file to built-in default.
var (
	flagUser     string
	flagPassword string
	flagPortIn   int
	flagPortOut  int
	flagDiscover bool
	flagList     bool
	flagConfig   string
	flagTimeout  int
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagUser, "user", "u", "", "Username on device (default from config or \"admin\")")
	pf.StringVarP(&flagPassword, "password", "p", "", "Password on device (default from config or \"anel\")")
	pf.IntVarP(&flagPortIn, "in", "i", 0, "Port to use for receiving device responses (default from config or 75)")
	pf.IntVarP(&flagPortOut, "out", "o", 0, "Port to use for sending commands (default from config or 77)")
	pf.BoolVarP(&flagDiscover, "discover", "d", false, "Discover devices on the network instead of loading the saved configuration")
	pf.StringVar(&flagConfig, "config", "", "Path to the configuration file (default: per-user config directory)")
	pf.IntVar(&flagTimeout, "timeout", 3, "Discovery window in seconds")

	rootCmd.Flags().BoolVarP(&flagList, "list", "l", false, "List available commands")

	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(saveCmd)
}

// configPath returns the configuration file to use for this invocation.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return configfile.DefaultPath()
}

// newMaster bootstraps the registry for one command: settings from the
// configuration file with flag overrides on top, devices either from
// the file or, with --discover, from a live scan. The two sources are
// mutually exclusive per invocation.
func newMaster(loadDevices bool) (*registry.Registry, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate configuration: %w", err)
	}

	settings, entries, err := configfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	settings = applyFlagOverrides(settings)

	client := anel.NewClient()
	client.Window = time.Duration(flagTimeout) * time.Second

	master := registry.New(client, settings.User, settings.Password, settings.PortIn, settings.PortOut)

	if flagDiscover {
		if err := master.Discover(context.Background()); err != nil {
			return nil, err
		}
		return master, nil
	}

	if loadDevices {
		for _, entry := range entries {
			if _, err := master.CreateDevice(entry.Address, entry.Name, entry.Plugs); err != nil {
				return nil, fmt.Errorf("configuration section %s: %w", entry.Address, err)
			}
		}
	}

	return master, nil
}

// applyFlagOverrides layers explicitly set flags over the file values,
// completing the flag -> config file -> built-in fallback chain (Load
// already merged the built-in defaults underneath the file).
func applyFlagOverrides(settings configfile.Settings) configfile.Settings {
	if flagUser != "" {
		settings.User = flagUser
	}
	if flagPassword != "" {
		settings.Password = flagPassword
	}
	if flagPortIn != 0 {
		settings.PortIn = flagPortIn
	}
	if flagPortOut != 0 {
		settings.PortOut = flagPortOut
	}
	return settings
}

// onCmd and offCmd switch plugs by name. With one argument the whole
// registry is searched; with two the first argument narrows the search
// to matching devices.
var onCmd = &cobra.Command{
	Use:   "on [device] <plug>",
	Short: "Switch a plug on",
	Example: `  # Switch every plug named "Lamp"
  pwrctl on Lamp

  # Only on the device named "Strip1"
  pwrctl on Strip1 Lamp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(args, true)
	},
}

var offCmd = &cobra.Command{
	Use:   "off [device] <plug>",
	Short: "Switch a plug off",
	Example: `  # Switch every plug named "Lamp" off
  pwrctl off Lamp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(args, false)
	},
}

func runSwitch(args []string, on bool) error {
	master, err := newMaster(true)
	if err != nil {
		return err
	}
	return switchPlugs(master, args, on, os.Stderr)
}

// switchPlugs resolves the plug arguments and switches every match.
// More than one match is a warning, not an error; zero matches abort
// before any network traffic.
func switchPlugs(master *registry.Registry, args []string, on bool, warn io.Writer) error {
	var plugs []*registry.Plug
	if len(args) == 1 {
		plugs = master.SearchPlugs(args[0])
	} else {
		for _, device := range master.SearchDevices(args[0]) {
			plugs = append(plugs, device.SearchPlugs(args[1])...)
		}
	}

	if len(plugs) == 0 {
		return errors.New("no matching plugs found")
	}
	if len(plugs) > 1 {
		fmt.Fprintln(warn, "Warning: setting multiple matching plugs")
	}

	for _, plug := range plugs {
		if err := plug.Switch(context.Background(), on); err != nil {
			return err
		}
	}
	return nil
}

var resetCmd = &cobra.Command{
	Use:   "reset <device>",
	Short: "Power-cycle a device",
	Example: `  # Power-cycle the device named "Strip1"
  pwrctl reset Strip1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		master, err := newMaster(true)
		if err != nil {
			return err
		}
		return resetDevices(master, args, os.Stderr)
	},
}

// resetDevices resolves the device argument and resets every match,
// with the same zero/multiple match policy as switching.
func resetDevices(master *registry.Registry, args []string, warn io.Writer) error {
	devices := master.SearchDevices(args[0])

	if len(devices) == 0 {
		return errors.New("no matching devices found")
	}
	if len(devices) > 1 {
		fmt.Fprintln(warn, "Warning: resetting multiple matching devices")
	}

	for _, device := range devices {
		if err := device.Reset(context.Background()); err != nil {
			return err
		}
	}
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all discovered or saved devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		master, err := newMaster(true)
		if err != nil {
			return err
		}

		devices, plugs := printMaster(os.Stdout, master)
		fmt.Printf("There are %d device(s) and %d plug(s)\n", devices, plugs)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save options and discovered devices",
	Long: `Write the current settings and device topology to the configuration
file, replacing its previous content. Combine with --discover to save a
fresh network scan; without it only the settings are rewritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without --discover there is nothing to learn from the file
		// that is not already in it, so saved devices are not loaded
		// back first.
		master, err := newMaster(false)
		if err != nil {
			return err
		}

		path, err := configPath()
		if err != nil {
			return fmt.Errorf("failed to locate configuration: %w", err)
		}
		if err := configfile.Save(master, path); err != nil {
			return err
		}

		devices, plugs := printMaster(os.Stdout, master)
		if devices > 0 {
			fmt.Printf("Saved config with %d device(s) and %d plugs\n", devices, plugs)
		} else {
			fmt.Println("Saved config without any devices")
		}
		return nil
	},
}

// printMaster writes the device/plug listing and returns the counts.
func printMaster(w io.Writer, master *registry.Registry) (devices, plugs int) {
	for _, device := range master.Devices {
		fmt.Fprintf(w, "%s:\n", device)
		for _, plug := range device.Plugs {
			fmt.Fprintf(w, "- %s\n", plug)
		}
		fmt.Fprintln(w)
	}
	return master.Summary()
}

// printCommandList renders the command table for --list.
func printCommandList(w io.Writer, root *cobra.Command) {
	fmt.Fprintln(w, "The following commands are available:")
	for _, cmd := range root.Commands() {
		if cmd.Hidden {
			continue
		}
		fmt.Fprintf(w, "- %s (%s)\n", cmd.Use, cmd.Short)
	}
}
