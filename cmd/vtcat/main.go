// Command vtcat is a small demonstration CLI for the ring and sixel
// packages. It decodes captured DEC SIXEL streams to BMP previews and
// drives a ring.Ring through a synthetic eviction demo.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vtcat",
		Short:         "Decode SIXEL streams and exercise the scrollback ring",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log decode diagnostics")
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newRingDemoCmd())
	return root
}
