package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/config"
	"github.com/AdamBeresnev/bracket-board/internal/db"
	"github.com/AdamBeresnev/bracket-board/internal/store"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(config.Load()).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg *config.Config) *cli.App {
	dbFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "db", Usage: "path to the SQLite database", Value: cfg.DatabasePath}
	}

	return &cli.App{
		Name:  "bracketctl",
		Usage: "operate bracket-board tournaments",
		Commands: []*cli.Command{
			newGenerateCommand(),
			newMigrateCommand(dbFlag, cfg.MigrationsDir),
			newListCommand(dbFlag),
			newShowCommand(dbFlag),
		},
	}
}

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "print the bracket for the given entrants as JSON",
		ArgsUsage: "NAME...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "randomize", Usage: "shuffle entrants before pairing"},
			&cli.Uint64Flag{Name: "seed", Usage: "shuffle seed, random when unset"},
		},
		Action: func(c *cli.Context) error {
			var opts []bracket.BuilderOption
			if c.IsSet("seed") {
				seed := c.Uint64("seed")
				opts = append(opts, bracket.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}

			matches, err := bracket.NewBuilder(opts...).Build(c.Args().Slice(), c.Bool("randomize"))
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, matches)
		},
	}
}

func newMigrateCommand(dbFlag func() cli.Flag, migrationsDir string) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{Name: "migrations", Usage: "migrations directory", Value: migrationsDir},
		},
		Action: func(c *cli.Context) error {
			database, err := db.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RunMigrations(database.DB, c.String("migrations")); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Migrations applied")
			return nil
		},
	}
}

func newListCommand(dbFlag func() cli.Flag) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list every tournament",
		Flags: []cli.Flag{dbFlag()},
		Action: func(c *cli.Context) error {
			database, err := db.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer database.Close()

			tournaments, err := store.NewTournamentStore(database).List(c.Context)
			if err != nil {
				return err
			}
			for _, t := range tournaments {
				status := "in progress"
				if champion, ok := t.Champion(); ok {
					status = "won by " + champion.Name
				}
				fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\t%d rounds\t%s\n",
					t.ID, t.Name, t.Privacy, bracket.RoundCount(t.Matches), status)
			}
			return nil
		},
	}
}

func newShowCommand(dbFlag func() cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print one tournament as JSON",
		ArgsUsage: "ID",
		Flags:     []cli.Flag{dbFlag()},
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return fmt.Errorf("show needs a numeric tournament ID: %w", err)
			}

			database, err := db.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer database.Close()

			tournament, err := store.NewTournamentStore(database).Get(c.Context, id)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("tournament %d not found", id)
			}
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, tournament)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
