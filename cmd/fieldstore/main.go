// Command fieldstore inspects and verifies field archives.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/meigma/fieldstore"
)

func main() {
	app := &cli.App{
		Name:      "fieldstore",
		Usage:     "inspect and verify field archives",
		ArgsUsage: "<directory>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			fieldsCommand(),
			inspectCommand(),
			verifyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "fieldstore:", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func openArchive(c *cli.Context) (*fieldstore.Archive, error) {
	dir := c.Args().First()
	if dir == "" {
		return nil, fmt.Errorf("missing archive directory argument")
	}
	return fieldstore.Open(dir, fieldstore.ModeRead, fieldstore.WithLogger(newLogger(c)))
}

func fieldsCommand() *cli.Command {
	return &cli.Command{
		Name:      "fields",
		Usage:     "list archived fields and their snapshot counts",
		ArgsUsage: "<directory>",
		Action: func(c *cli.Context) error {
			a, err := openArchive(c)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range a.Fields() {
				n, _ := a.Snapshots(name)
				fmt.Printf("%s\t%d\n", name, n)
			}
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "dump the archive state including all offsets and checksums",
		ArgsUsage: "<directory>",
		Action: func(c *cli.Context) error {
			a, err := openArchive(c)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Print(a)
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "re-hash every snapshot and compare against the manifest",
		ArgsUsage: "<directory>",
		Action: func(c *cli.Context) error {
			a, err := openArchive(c)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Verify(c.Context); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}
