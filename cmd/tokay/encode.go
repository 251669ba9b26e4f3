package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
)

func encodeCmd() *cli.Command {
	var noSpecial bool

	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode text to token ids",
		ArgsUsage: "<text>",
		Flags: append(tokenizerFlags(),
			&cli.BoolFlag{
				Name:        "no-special",
				Usage:       "do not add bos/eos tokens",
				Destination: &noSpecial,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}
			text := strings.Join(cmd.Args().Slice(), " ")
			ids := tok.Encode(text, !noSpecial)
			out := make([]string, len(ids))
			for i, id := range ids {
				out[i] = strconv.Itoa(id)
			}
			fmt.Println(strings.Join(out, " "))
			return nil
		},
	}
}

func decodeCmd() *cli.Command {
	var keepSpecial bool

	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode token ids back to text",
		ArgsUsage: "<id>...",
		Flags: append(tokenizerFlags(),
			&cli.BoolFlag{
				Name:        "keep-special",
				Usage:       "keep special tokens in the output",
				Destination: &keepSpecial,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}
			args := cmd.Args().Slice()
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("not a token id: %q", a)
				}
				ids = append(ids, id)
			}
			fmt.Println(tok.Decode(ids, !keepSpecial))
			return nil
		},
	}
}
