package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/betternotes/internal"
	"github.com/starford/betternotes/internal/noteservice"
	pkgconfig "github.com/starford/betternotes/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if dir := cmd.String("data-dir"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	return cfg, nil
}

// openService is shared by the one-shot commands; they log to stderr so
// stdout carries only command output.
func openService(cmd *cli.Command) (*noteservice.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svc, _, err := internal.OpenService(cfg, internal.NewLogger(cfg, true))
	return svc, err
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func runSave(ctx context.Context, cmd *cli.Command) error {
	svc, err := openService(cmd)
	if err != nil {
		return err
	}

	var content string
	if cmd.Args().Len() > 0 {
		content = cmd.Args().First()
	} else {
		data, err := io.ReadAll(stdin(cmd))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	id := cmd.String("id")
	if id == "" {
		id, err = svc.CreateNote(ctx, content)
	} else {
		err = svc.SaveNote(ctx, id, content)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(cmd), id)
	return err
}

func runList(ctx context.Context, cmd *cli.Command) error {
	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	notes, err := svc.LoadNotes(ctx)
	if err != nil {
		return err
	}
	w := stdout(cmd)
	if cmd.Bool("json") {
		return json.NewEncoder(w).Encode(notes)
	}
	for _, n := range notes {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("delete: exactly one note id is required")
	}
	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	return svc.DeleteNote(ctx, cmd.Args().First())
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "betternotes",
		Usage:   "Note store for the BetterNotes desktop app: one JSON file per note",
		Version: version,
		Action:  runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Application data directory (notes live in its notes/ subdirectory)",
				Sources: cli.EnvVars("BETTERNOTES_DATA_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and change events for the UI shell",
				Action: runServe,
			},
			{
				Name:      "save",
				Usage:     "Save a note; content comes from the argument or stdin",
				ArgsUsage: "[CONTENT]",
				Action:    runSave,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Note id (generated when omitted)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "Print the content of every note, one per line",
				Action: runList,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print a JSON array instead",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a note",
				ArgsUsage: "ID",
				Action:    runDelete,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the note tools over MCP stdio",
				Action: runMCP,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
