package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/db"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	outputFlag := &cli.StringFlag{
		Name:  "output",
		Value: "json",
		Usage: "output encoding, json or yaml",
	}

	return &cli.App{
		Name:      "bracketctl",
		Usage:     "inspect bracket layouts without a running server",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "seeds",
				Usage: "print the seed order of a power-of-two bracket",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Required: true, Usage: "bracket size, a power of two"},
					outputFlag,
				},
				Action: func(c *cli.Context) error {
					order, err := brackets.SeedOrder(c.Int("size"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return render(out, c.String("output"), order)
				},
			},
			{
				Name:  "byes",
				Usage: "print the bracket size and bye count for a participant count",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "participants", Required: true},
					outputFlag,
				},
				Action: func(c *cli.Context) error {
					info, err := brackets.NormalizeByes(c.Int("participants"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return render(out, c.String("output"), info)
				},
			},
			{
				Name:  "build",
				Usage: "build a full bracket and print its matches",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "participants", Required: true},
					&cli.StringFlag{Name: "format", Value: string(models.FormatSingleElimination), Usage: "single_elimination, double_elimination or round_robin"},
					&cli.StringFlag{Name: "names", Usage: "comma separated names bound to seeds 1..n"},
					outputFlag,
				},
				Action: func(c *cli.Context) error {
					format, err := models.ParseFormat(c.String("format"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}

					var names []string
					if raw := c.String("names"); raw != "" {
						for _, n := range strings.Split(raw, ",") {
							names = append(names, strings.TrimSpace(n))
						}
					}

					matches, err := brackets.Build(c.Int("participants"), format, brackets.WithParticipantNames(names))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return render(out, c.String("output"), matches)
				},
			},
			{
				Name:  "migrate",
				Usage: "create the bracket tables if they do not exist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database-url", EnvVars: []string{"DATABASE_URL"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					conn, err := db.Connect(c.Context, c.String("database-url"))
					if err != nil {
						return err
					}
					defer conn.Close()

					ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
					defer cancel()
					if err := db.Migrate(ctx, conn); err != nil {
						return err
					}
					fmt.Fprintln(out, "schema up to date")
					return nil
				},
			},
		},
	}
}

// render writes v as indented JSON or as YAML. YAML output goes through JSON first so both
// encodings use the same field names.
func render(out io.Writer, encoding string, v interface{}) error {
	switch strings.ToLower(encoding) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return cli.Exit(fmt.Sprintf("unknown output %q, want json or yaml", encoding), 1)
	}
}
