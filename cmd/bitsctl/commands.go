package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/branched-services/go-packet"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// readInput returns the transmission from the first argument, the file, or
// the first line of stdin, with surrounding whitespace removed.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		stdin = f
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no transmission given")
	}
	return line, nil
}

// session is the per-invocation state shared by the decoding subcommands.
type session struct {
	cfg settings
	log zerolog.Logger
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := resolveSettings(cmd, opts)
	if err != nil {
		return nil, err
	}
	logger, err := initLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: logger}, nil
}

// decode reads and decodes the transmission.
func (s *session) decode(cmd *cobra.Command, args []string, file string) (*packet.DecodeResult, error) {
	hex, err := readInput(args, file, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int("digits", len(hex)).Int("max_depth", s.cfg.MaxDepth).
		Bool("strict", s.cfg.StrictPadding).Msg("decoding transmission")

	res, err := packet.NewDecoder(s.cfg.decoderOptions()...).DecodeHex(hex)
	if err != nil {
		s.log.Error().Err(err).Msg("decode failed")
		return nil, err
	}

	s.log.Debug().Int("packets", res.Root.Count()).Int("depth", res.Root.Depth()).
		Int("trailing_bits", res.TrailingBits).Msg("decoded transmission")
	if !res.TrailingZero {
		s.log.Warn().Int("trailing_bits", res.TrailingBits).Msg("trailing bits are not zero padding")
	}
	return res, nil
}

func decodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Print the packet tree of a transmission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			res, err := s.decode(cmd, args, opts.file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, res.Root.String())

			padding := "zero padding"
			if !res.TrailingZero {
				padding = "non-zero"
			}
			fmt.Fprintf(out, "trailing bits: %d (%s)\n", res.TrailingBits, padding)
			fmt.Fprintf(out, "version sum:   %d\n", res.Root.VersionSum())

			v, err := res.Root.Value()
			if err != nil {
				s.log.Error().Err(err).Msg("evaluation failed")
				return err
			}
			fmt.Fprintf(out, "value:         %s\n", v.Dec())
			return nil
		},
	}
}

func sumCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sum [hex]",
		Short: "Print the sum of all version fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			res, err := s.decode(cmd, args, opts.file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Root.VersionSum())
			return nil
		},
	}
}

func evalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [hex]",
		Short: "Print the value the transmission evaluates to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			res, err := s.decode(cmd, args, opts.file)
			if err != nil {
				return err
			}
			v, err := res.Root.Value()
			if err != nil {
				s.log.Error().Err(err).Msg("evaluation failed")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Dec())
			return nil
		},
	}
}

func encodeLiteralCmd(opts *rootOptions) *cobra.Command {
	var (
		pktVersion uint8
		nibble     bool
	)

	cmd := &cobra.Command{
		Use:   "encode-literal <value>",
		Short: "Encode a decimal value as a literal packet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			v, err := uint256.FromDecimal(args[0])
			if err != nil {
				return fmt.Errorf("parse value %q: %w", args[0], err)
			}
			p, err := packet.NewLiteral(pktVersion, v)
			if err != nil {
				return err
			}

			padding := packet.PadByte
			if nibble {
				padding = packet.PadNibble
			}
			hex, err := packet.NewEncoder(packet.WithPadding(padding)).EncodeHex(p)
			if err != nil {
				return err
			}

			s.log.Debug().Str("value", v.Dec()).Uint8("version", pktVersion).
				Str("hex", hex).Msg("encoded literal")
			fmt.Fprintln(cmd.OutOrStdout(), hex)
			return nil
		},
	}

	cmd.Flags().Uint8Var(&pktVersion, "packet-version", 0, "packet version (0-"+strconv.Itoa(packet.MaxVersion)+")")
	cmd.Flags().BoolVar(&nibble, "nibble", false, "pad to a hex digit instead of a byte")

	return cmd
}
