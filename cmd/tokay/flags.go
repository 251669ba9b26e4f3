package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tokay-ml/tokay/internal/logger"
	"github.com/tokay-ml/tokay/internal/tokenizer"
)

var (
	tokenizerPath string
	logLevel      string
	logFormat     string
)

func tokenizerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tokenizer",
			Aliases:     []string{"t"},
			Usage:       "path to tokenizer.json or a bundle directory",
			Destination: &tokenizerPath,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func buildLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

// loadTokenizer resolves the tokenizer path from the flag or the config
// file and loads the bundle.
func loadTokenizer(cfg Config) (*tokenizer.Tokenizer, error) {
	path := tokenizerPath
	if path == "" {
		path = cfg.TokenizerPath
	}
	if path == "" {
		return nil, fmt.Errorf("no tokenizer given: pass --tokenizer or set tokenizer_path in %s", configPath())
	}
	return tokenizer.LoadFile(path)
}
