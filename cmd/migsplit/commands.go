package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/cli"

	"github.com/NotCoffee418/migsplit"
)

// SplitCommand splits up/down migration files into per-migration directories.
type SplitCommand struct {
	Ui cli.Ui
}

func (c *SplitCommand) Synopsis() string {
	return "Split up/down migration files into directories"
}

func (c *SplitCommand) Help() string {
	return strings.TrimSpace(`
Usage: migsplit split [options] [dir]

  Splits every file in dir matching the pattern on its up/down markers and
  writes <name>/up.sql and <name>/down.sql next to it. Existing output
  directories are replaced.

Options:

  -out=<dir>          Parent directory of the output directories.
  -pattern=<glob>     Source file pattern. Default: *.sql
  -markers=<name>     Marker set: dbmate or dbmigrator. Default: dbmate
  -fail-fast          Stop at the first malformed file.
  -dry-run            Validate files without writing anything.
  -log-level=<level>  trace, debug, info, warn or error.

Every option can also be set with a MIGSPLIT_* environment variable or a
.env file.
`)
}

func (c *SplitCommand) Run(args []string) int {
	cfg, err := migsplit.LoadConfig()
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.Usage = func() { c.Ui.Output(c.Help()) }
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "")
	fs.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "")
	fs.StringVar(&cfg.Markers, "markers", cfg.Markers, "")
	fs.BoolVar(&cfg.FailFast, "fail-fast", cfg.FailFast, "")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 1 {
		c.Ui.Error(fmt.Sprintf("too many arguments: %s (options must come before dir)", strings.Join(fs.Args()[1:], " ")))
		c.Ui.Output(c.Help())
		return 1
	}
	if fs.NArg() > 0 {
		cfg.Dir = fs.Arg(0)
	}

	if err := cfg.ApplyLogLevel(); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	opts, err := cfg.Options()
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	report, err := migsplit.SplitAll(opts)
	if report == nil {
		c.Ui.Error(err.Error())
		return 1
	}
	for _, result := range report.Processed {
		c.Ui.Output(fmt.Sprintf("%s -> %s", result.Source, result.Dir))
	}
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	return 0
}

// VerifyCommand runs split migrations against a database inside rolled back transactions.
type VerifyCommand struct {
	Ui cli.Ui
}

func (c *VerifyCommand) Synopsis() string {
	return "Check split migrations run up and down against a database"
}

func (c *VerifyCommand) Help() string {
	return strings.TrimSpace(`
Usage: migsplit verify [options] [dir]

  Runs up.sql then down.sql of every split migration in dir inside a
  transaction that is always rolled back. MySQL commits DDL implicitly, so
  verifying against it may leave changes behind. MySQL also runs a file
  holding several statements only when the DSN sets multiStatements=true.

Options:

  -driver=<name>      postgres, mysql, sqlite3 or sqlserver. Default: postgres
  -dsn=<dsn>          Database connection string.
  -timeout=<dur>      Overall timeout. Default: 5m
  -log-level=<level>  trace, debug, info, warn or error.
`)
}

func (c *VerifyCommand) Run(args []string) int {
	cfg, err := migsplit.LoadConfig()
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	var timeout time.Duration
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.Usage = func() { c.Ui.Output(c.Help()) }
	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "")
	fs.DurationVar(&timeout, "timeout", 5*time.Minute, "")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	dir := cfg.OutDir
	if dir == "" {
		dir = cfg.Dir
	}
	if fs.NArg() > 1 {
		c.Ui.Error(fmt.Sprintf("too many arguments: %s (options must come before dir)", strings.Join(fs.Args()[1:], " ")))
		c.Ui.Output(c.Help())
		return 1
	}
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	if err := cfg.ApplyLogLevel(); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	dialect, err := migsplit.DialectByName(cfg.Driver)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if cfg.DSN == "" {
		c.Ui.Error("dsn is required")
		return 1
	}

	db, err := sql.Open(dialect.Name, cfg.DSN)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("open database: %v", err))
		return 1
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report := <-migsplit.VerifyCh(ctx, db, dialect, os.DirFS(dir), ".", cfg.UpFile, cfg.DownFile)
	for _, name := range report.Verified {
		c.Ui.Output(fmt.Sprintf("ok %s", name))
	}
	if err := report.Err(); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	return 0
}
