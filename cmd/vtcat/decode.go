package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phroun/vtcore/ring"
	"github.com/phroun/vtcore/sixel"
)

func newDecodeCmd() *cobra.Command {
	var outPath string
	var page bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a captured DCS/SIXEL stream and report its dimensions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args, outPath, page)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write a BMP preview to this path")
	cmd.Flags().BoolVarP(&page, "page", "p", false, "page through the frame history one entry per keypress")
	return cmd
}

func runDecode(args []string, outPath string, page bool) error {
	in, closeIn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeIn()

	p := sixel.NewParser(0, 0, true)
	p.OnTruncate = func() {
		logger.Warn().Msg("sixel stream truncated past the height limit; remaining rows ignored")
	}

	history := ring.New[string](64, nil)
	buf := make([]byte, 1)
	frames := 0

	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			// Fed one byte at a time to exercise Parse's resumability across
			// call boundaries rather than handing it the whole stream at once.
			if err := p.Parse(buf[:n]); err != nil {
				return errors.Wrap(err, "decode")
			}
			frames++
			history.Append(fmt.Sprintf("byte %d consumed, state advanced", frames))
			logger.Debug().Int("byte", frames).Msg("parsed")
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(readErr, "read input")
		}
	}

	pixels, width, height, err := p.Finalize()
	if err != nil {
		return errors.Wrap(err, "finalize")
	}

	fmt.Printf("decoded %dx%d (%d bytes fed, %d frame-history entries retained of %d)\n",
		width, height, frames, history.Length(), frames)

	if page {
		if err := pageHistory(history); err != nil {
			return errors.Wrap(err, "page")
		}
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		if err := sixel.EncodePreview(f, pixels, width, height); err != nil {
			return errors.Wrap(err, "encode bmp")
		}
		fmt.Printf("wrote %s\n", outPath)
	}

	return nil
}

// pageHistory walks the ring's live window one entry per keypress, putting
// the controlling terminal into raw mode for the duration so a single
// keystroke (rather than a line) advances the page. It is a no-op, with a
// warning, when stdin is not an interactive terminal.
func pageHistory(history *ring.Ring[string]) error {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(uintptr(fd)) {
		logger.Warn().Msg("stdin is not a terminal; skipping paged history view")
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "enter raw mode")
	}
	defer term.Restore(fd, oldState)

	fmt.Print("-- frame history (any key to advance, q to quit) --\r\n")
	key := make([]byte, 1)
	for p := history.Delta(); p < history.Next(); p++ {
		fmt.Printf("[%d] %s\r\n", p, history.Index(p))
		if _, err := os.Stdin.Read(key); err != nil {
			return errors.Wrap(err, "read key")
		}
		if key[0] == 'q' || key[0] == 'Q' || key[0] == 0x03 {
			break
		}
	}
	return nil
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			logger.Warn().Msg("reading sixel bytes from an interactive terminal; pipe a capture file instead")
		}
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", args[0])
	}
	return f, func() { f.Close() }, nil
}
