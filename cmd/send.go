// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

var sendYes bool

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Publish a single printer command and exit",
	Long: `Publish one command to the printer's request topic and exit.

Commands:
  pushall       request a full status dump
  light-on      chamber light on
  light-off     chamber light off
  pause         pause the active print (requires --yes)
  resume        resume a paused print
  stop          abort the active print (requires --yes)
  speed <1-4>   speed preset: 1 silent, 2 standard, 3 sport, 4 ludicrous

Pause and stop interrupt a running job, so they need the --yes flag;
there is no interactive confirmation here.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&sendYes, "yes", false, "Confirm a destructive command (pause, stop)")
}

// buildRequest maps command-line arguments to an envelope.
func buildRequest(args []string) (*bambu.Request, error) {
	name := args[0]
	if name == "speed" {
		if len(args) != 2 {
			return nil, fmt.Errorf("speed requires a level: speed <1-4>")
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid speed level %q", args[1])
		}
		req := bambu.NewSpeedPreset(level)
		if req == nil {
			return nil, fmt.Errorf("invalid speed level %d (use 1-4)", level)
		}
		return req, nil
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("unexpected argument %q after %q", args[1], name)
	}

	switch name {
	case "pushall":
		return bambu.NewPushAll(), nil
	case "light-on":
		return bambu.NewLightCtrl(true), nil
	case "light-off":
		return bambu.NewLightCtrl(false), nil
	case "pause":
		if !sendYes {
			return nil, fmt.Errorf("pause interrupts the active print; re-run with --yes")
		}
		return bambu.NewPause(), nil
	case "resume":
		return bambu.NewResume(), nil
	case "stop":
		if !sendYes {
			return nil, fmt.Errorf("stop aborts the active print; re-run with --yes")
		}
		return bambu.NewStop(), nil
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func runSend(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	sess, err := dialPrinter(cfg, fmt.Sprintf("bambu-send-%d", os.Getpid()), nil)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.publish(req); err != nil {
		return err
	}
	fmt.Printf("Sent: %s\n", req.Label())
	return nil
}
