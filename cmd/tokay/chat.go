package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tokay-ml/tokay/internal/tokenizer"
)

func chatCmd() *cli.Command {
	var (
		messagesPath     string
		generationPrompt bool
		showIDs          bool
	)

	return &cli.Command{
		Name:  "chat",
		Usage: "Render a chat template and optionally encode the prompt",
		Flags: append(tokenizerFlags(),
			&cli.StringFlag{
				Name:        "messages",
				Usage:       "path to a messages JSON file",
				Required:    true,
				Destination: &messagesPath,
			},
			&cli.BoolFlag{
				Name:        "generation-prompt",
				Usage:       "append the generation prompt",
				Destination: &generationPrompt,
			},
			&cli.BoolFlag{
				Name:        "ids",
				Usage:       "also print the encoded prompt ids",
				Destination: &showIDs,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}
			msgs, err := loadMessages(messagesPath)
			if err != nil {
				return err
			}
			if tok.ChatTemplate() == "" {
				return fmt.Errorf("tokenizer has no chat template; load a bundle directory with tokenizer_config.json")
			}
			prompt := tok.ApplyChatTemplate(msgs, generationPrompt)
			fmt.Println(prompt)
			if showIDs {
				fmt.Println(tok.Encode(prompt, false))
			}
			return nil
		},
	}
}

// loadMessages reads a JSON file that is either a messages array or an
// object with a "messages" field.
func loadMessages(path string) ([]tokenizer.Message, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var direct []tokenizer.Message
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}
	var wrapped struct {
		Messages []tokenizer.Message `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse messages json: %w", err)
	}
	if wrapped.Messages == nil {
		return nil, fmt.Errorf("messages json must be an array or an object with a messages field")
	}
	return wrapped.Messages, nil
}
