package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/line-index/internal/common"
	"github.com/dtnitsch/line-index/internal/index"
	"github.com/dtnitsch/line-index/internal/split"
	"github.com/dtnitsch/line-index/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "line-index",
		Usage: "find the lines on which query words appear in a large document",
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "build the word to line-number index",
				ArgsUsage: "[document]",
				Flags:     index.Flags(),
				Action:    index.IndexAction,
			},
			{
				Name:      "split",
				Usage:     "show how a document would be chunked",
				ArgsUsage: "[document]",
				Flags:     split.Flags(),
				Action:    split.SplitAction,
			},
			{
				Name:  "quickstart",
				Usage: "print a short usage guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(common.ExitCode(err))
	}
}
