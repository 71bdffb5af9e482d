package main

import (
	"os"

	"github.com/mitchellh/cli"
	log "github.com/sirupsen/logrus"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// No arguments splits the working directory with defaults
	if len(args) == 0 {
		args = []string{"split"}
	}

	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("migsplit", version)
	c.Args = args
	c.Commands = commands(ui)

	exitStatus, err := c.Run()
	if err != nil {
		log.Errorf("Error executing CLI: %v", err)
		return 1
	}
	return exitStatus
}

func commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"split": func() (cli.Command, error) {
			return &SplitCommand{Ui: ui}, nil
		},
		"verify": func() (cli.Command, error) {
			return &VerifyCommand{Ui: ui}, nil
		},
	}
}
