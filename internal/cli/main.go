package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "timetag [flags] FILE...",
		Short: "Burn the recording date and a running clock into video files",
		Long: "timetag reads each video's creation_time tag and renders a copy named\n" +
			"YYYYMMDD_HHMMSS_<name> next to it, with the date and elapsed time drawn\n" +
			"in the lower-left corner.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("start", "s", "", "Trim start offset (e.g. 10, 1:30, 00:01:30.5)")
	root.Flags().StringP("end", "e", "", "Trim end offset")
	root.Flags().Bool("dry-run", false, "Print the ffmpeg command for each file instead of running it")
	root.Flags().BoolP("verbose", "v", false, "Debug logging and ffmpeg output on stderr")
	root.Flags().String("config", "", "Path to a TOML config file (default $TIMETAG_CONFIG)")
	root.Flags().Duration("timeout", 0, "Per-file limit for each ffprobe/ffmpeg call (0 = none)")
	root.Flags().String("log-format", "", "Log format: console or json")

	return root
}
