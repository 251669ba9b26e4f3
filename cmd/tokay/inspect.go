package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func inspectCmd() *cli.Command {
	var showAdded bool

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show tokenizer vocabulary size, special tokens, and added tokens",
		Flags: append(tokenizerFlags(),
			&cli.BoolFlag{
				Name:        "added",
				Usage:       "list the added-token registry",
				Destination: &showAdded,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("vocab size:  %d\n", tok.VocabSize())
			printSlot := func(name string, id int) {
				if id == -1 {
					fmt.Printf("%s    -\n", name)
					return
				}
				fmt.Printf("%s    %d  %q\n", name, id, tok.IDToToken(id))
			}
			printSlot("bos:      ", tok.BosTokenID())
			printSlot("eos:      ", tok.EosTokenID())
			printSlot("pad:      ", tok.PadTokenID())
			printSlot("unk:      ", tok.UnkTokenID())
			if tok.ChatTemplate() != "" {
				fmt.Println("chat template: yes")
			}

			if showAdded {
				for _, at := range tok.AddedTokens() {
					fmt.Printf("added %6d  %q special=%v lstrip=%v rstrip=%v\n",
						at.ID, at.Content, at.Special, at.LStrip, at.RStrip)
				}
			}
			return nil
		},
	}
}
