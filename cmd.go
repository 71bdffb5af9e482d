package migsplit

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// HandleSplitterCommand is intended to be hooked into main.go
// to display help, split migration files or verify split migrations.
// This function is optional but can be used to as part of a CLI interface.
//
// Param: db - database connection used by `verify`, may be nil
// when verification is not needed.
//
// Param: dialect - dialect matching db.
//
// Param: opts - splitter options, Dir is also the directory verified.
//
// Param: args - os.Args[1:] from main.go
//
// Returns: boolean indicating if a command was actionable.
// A failing split or verification exits the process.
func HandleSplitterCommand(
	db *sql.DB,
	dialect *Dialect,
	opts Options,
	args ...string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help":
		fmt.Println(GetHelpString())
		return true
	case "split":
		if len(args) > 1 {
			opts.Dir = args[1]
		}
		report := <-SplitAllCh(opts)
		if err := report.Err(); err != nil {
			log.Fatalf("Split failed: %v", err)
		}
		log.Printf("Split %d migration files.", len(report.Processed))
		return true
	case "verify":
		if db == nil || dialect == nil {
			return false
		}
		opts = opts.withDefaults()
		if len(args) > 1 {
			opts.OutDir = args[1]
		}
		report := <-VerifyCh(context.Background(), db, dialect, os.DirFS(opts.OutDir), ".", opts.UpFile, opts.DownFile)
		if err := report.Err(); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		log.Printf("Verified %d migrations.", len(report.Verified))
		return true
	default:
		return false
	}
}

func GetHelpString() string {
	return `
	split [dir]    - Split *.sql files with up/down sections into <name>/up.sql and <name>/down.sql.
	verify [dir]   - Run each split migration up then down in a rolled back transaction.`
}
