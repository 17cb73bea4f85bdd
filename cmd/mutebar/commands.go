package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yok-tottii/MuteBar/internal/device"
	"github.com/yok-tottii/MuteBar/internal/mute"
)

// statusCmd prints the aggregate mute state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the microphones are muted",
	Long: `Show the aggregate mute state. The microphones count as muted only
when every input device reports muted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := openAggregator()
		if err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), agg)
		return nil
	},
}

// devicesCmd lists the controlled input devices.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input devices and their mute state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver := newDriver()
		agg, err := mute.New(driver, appLogger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, dev := range agg.Devices() {
			state := "unmuted"
			muted, err := driver.IsMuted(dev)
			switch {
			case err != nil:
				state = "unknown"
			case muted:
				state = "muted"
			}
			fmt.Fprintf(out, "%-8d %-8s %s\n", dev.ID, state, dev.Name)
		}
		return nil
	},
}

// muteCmd mutes every input device.
var muteCmd = &cobra.Command{
	Use:   "mute",
	Short: "Mute every input device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAll(cmd, true)
	},
}

// unmuteCmd unmutes every input device.
var unmuteCmd = &cobra.Command{
	Use:   "unmute",
	Short: "Unmute every input device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAll(cmd, false)
	},
}

// toggleCmd flips the aggregate state.
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the microphone mute state",
	Long: `Toggle the aggregate mute state: unmute everything if all devices are
muted, otherwise mute everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := openAggregator()
		if err != nil {
			return err
		}
		if _, err := agg.Toggle(); err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), agg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, devicesCmd, muteCmd, unmuteCmd, toggleCmd)
}

func openAggregator() (*mute.Aggregator, error) {
	return mute.New(newDriver(), appLogger)
}

func setAll(cmd *cobra.Command, muted bool) error {
	agg, err := openAggregator()
	if err != nil {
		return err
	}
	if err := agg.SetAll(muted); err != nil {
		return err
	}
	printState(cmd.OutOrStdout(), agg)
	return nil
}

func printState(out io.Writer, agg *mute.Aggregator) {
	state := "unmuted"
	if agg.Muted() {
		state = "muted"
	}
	fmt.Fprintf(out, "%s (%d devices)\n", state, len(agg.Devices()))
}

// describeDevices returns display names for the tray submenu
func describeDevices(devices []device.Device) []string {
	names := make([]string, len(devices))
	for i, dev := range devices {
		names[i] = dev.Name
	}
	return names
}
