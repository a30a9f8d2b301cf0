package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wgergely0/bookmarks-core/internal/copypath"
)

var copyPathMode string

var copyPathCmd = &cobra.Command{
	Use:   "copy-path <path>",
	Short: "Render a path in one of the windows/unix/slack/macos presentation forms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseCopyPathMode(copyPathMode)
		if err != nil {
			return err
		}
		fmt.Println(copypath.Convert(args[0], mode))
		return nil
	},
}

func parseCopyPathMode(s string) (copypath.Mode, error) {
	switch strings.ToLower(s) {
	case "windows":
		return copypath.ModeWindows, nil
	case "unix", "":
		return copypath.ModeUnix, nil
	case "slack":
		return copypath.ModeSlack, nil
	case "macos":
		return copypath.ModeMacOS, nil
	default:
		return 0, fmt.Errorf("unknown copy-path mode %q", s)
	}
}

func init() {
	copyPathCmd.Flags().StringVar(&copyPathMode, "mode", "unix", "one of windows, unix, slack, macos")
	rootCmd.AddCommand(copyPathCmd)
}
