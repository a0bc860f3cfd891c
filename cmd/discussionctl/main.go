package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/service"
	"github.com/discussion-engine-api/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "discussionctl",
		Usage: "operator tool for the discussion engine database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "schema",
			Usage: "manage database schema migrations",
			Subcommands: []*cli.Command{
				{Name: "up", Usage: "apply all pending migrations", Action: runSchemaUp},
				{Name: "down", Usage: "roll back every migration", Action: runSchemaDown},
				{Name: "version", Usage: "print the current schema version", Action: runSchemaVersion},
				{Name: "goto", Usage: "migrate to a specific version", ArgsUsage: "<version>", Action: runSchemaGoto},
			},
		},
		{
			Name:   "migrate-legacy",
			Usage:  "backfill target columns of comments written before pages existed",
			Action: runMigrateLegacy,
		},
		{
			Name:  "banned-words",
			Usage: "manage the banned word list",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "print banned words", Action: runBannedList},
				{Name: "add", Usage: "ban a word", ArgsUsage: "<word>", Action: runBannedAdd},
				{Name: "remove", Usage: "unban a word", ArgsUsage: "<word>", Action: runBannedRemove},
			},
		},
		{
			Name:      "check-votes",
			Usage:     "compare the vote counters of a comment or review with its vote ledger",
			ArgsUsage: "<comment|review> <id>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "repair", Usage: "reset drifted counters to the ledger counts"},
			},
			Action: runCheckVotes,
		},
		{
			Name:      "issue-token",
			Usage:     "sign a bearer token for local testing",
			ArgsUsage: "<user-id>",
			Flags: []cli.Flag{
				&cli.DurationFlag{Name: "ttl", Value: time.Hour, Usage: "token lifetime"},
			},
			Action: runIssueToken,
		},
	}
	app.RunAndExitOnError()
}

// env holds what every database-backed command needs
type env struct {
	cfg *config.Config
	db  *database.DB
	log zerolog.Logger
}

func setup(cctx *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(logger.Config{Level: cctx.String("log-level"), Format: "pretty"}, os.Stderr)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, log: log}, nil
}

// services builds the service layer with the same banned word wiring as the
// server, so word changes reach the Redis mirror it reads from. The caller
// closes the returned stack.
func (e *env) services() (*service.Services, *service.WordStack, error) {
	repos := repository.New(e.db)
	words, err := service.NewWordStack(repos, e.cfg, e.log)
	if err != nil {
		return nil, nil, err
	}
	return service.NewServices(repos, words.Filter, e.cfg, e.log, words.Options()...), words, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSchemaUp(cctx *cli.Context) error {
	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()
	return e.db.RunMigrations(e.cfg.Database.MigrationsPath)
}

func runSchemaDown(cctx *cli.Context) error {
	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()
	return e.db.MigrateDown(e.cfg.Database.MigrationsPath)
}

func runSchemaVersion(cctx *cli.Context) error {
	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	version, dirty, err := e.db.SchemaVersion(e.cfg.Database.MigrationsPath)
	if err != nil {
		return err
	}
	fmt.Printf("version=%d dirty=%t\n", version, dirty)
	return nil
}

func runSchemaGoto(cctx *cli.Context) error {
	raw := cctx.Args().First()
	version, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("need a numeric schema version, got %q", raw)
	}

	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()
	return e.db.MigrateToVersion(e.cfg.Database.MigrationsPath, uint(version))
}

func runMigrateLegacy(cctx *cli.Context) error {
	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	svc, words, err := e.services()
	if err != nil {
		return err
	}
	defer words.Close()

	result, err := svc.Migration.MigrateLegacyComments(auth.AsSystem(cctx.Context))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runBannedList(cctx *cli.Context) error {
	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	svc, stack, err := e.services()
	if err != nil {
		return err
	}
	defer stack.Close()

	words, err := svc.BannedWords.List(auth.AsSystem(cctx.Context))
	if err != nil {
		return err
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}

func runBannedAdd(cctx *cli.Context) error {
	return changeBannedWord(cctx, func(ctx context.Context, svc service.BannedWordService, word string) (bool, error) {
		return svc.Add(ctx, word)
	}, "added", "already banned")
}

func runBannedRemove(cctx *cli.Context) error {
	return changeBannedWord(cctx, func(ctx context.Context, svc service.BannedWordService, word string) (bool, error) {
		return svc.Remove(ctx, word)
	}, "removed", "not banned")
}

func changeBannedWord(cctx *cli.Context, op func(context.Context, service.BannedWordService, string) (bool, error), done, noop string) error {
	word := cctx.Args().First()
	if word == "" {
		return fmt.Errorf("need to provide a word")
	}

	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	svc, words, err := e.services()
	if err != nil {
		return err
	}
	defer words.Close()

	changed, err := op(auth.AsSystem(cctx.Context), svc.BannedWords, word)
	if err != nil {
		return err
	}
	if changed {
		fmt.Printf("%s: %s\n", word, done)
	} else {
		fmt.Printf("%s: %s\n", word, noop)
	}
	return nil
}

func runCheckVotes(cctx *cli.Context) error {
	subjectType, subjectID := cctx.Args().Get(0), cctx.Args().Get(1)
	if subjectID == "" {
		return fmt.Errorf("need to provide a subject type and id")
	}

	e, err := setup(cctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	svc, words, err := e.services()
	if err != nil {
		return err
	}
	defer words.Close()

	audit, err := svc.Votes.AuditCounters(auth.AsSystem(cctx.Context), subjectID, models.SubjectType(subjectType), cctx.Bool("repair"))
	if err != nil {
		return err
	}
	if err := printJSON(audit); err != nil {
		return err
	}
	if !audit.Consistent() {
		return cli.Exit("vote counters drifted from the ledger; rerun with --repair", 1)
	}
	return nil
}

func runIssueToken(cctx *cli.Context) error {
	userID := cctx.Args().First()
	if userID == "" {
		return fmt.Errorf("need to provide a user id")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(auth.Identity{UserID: userID}, cctx.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
