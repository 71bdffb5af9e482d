package migsplit

import (
	"github.com/hashicorp/go-multierror"
)

const (
	DefaultPattern  = "*.sql"
	DefaultUpFile   = "up.sql"
	DefaultDownFile = "down.sql"
)

// SplitMigration holds the trimmed sections of a single migration file.
type SplitMigration struct {
	Up   string
	Down string
}

// Options controls a splitter run. The zero value splits *.sql files in
// the working directory using dbmate markers.
type Options struct {
	Dir      string // directory scanned for source files
	OutDir   string // parent of the output directories, defaults to Dir
	Pattern  string
	Markers  *MarkerDefinition
	UpFile   string
	DownFile string
	FailFast bool // abort on the first failing file instead of reporting and continuing
	DryRun   bool
}

// withDefaults returns a copy of o with empty fields filled in.
func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.OutDir == "" {
		o.OutDir = o.Dir
	}
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.Markers == nil {
		o.Markers = Dbmate
	}
	if o.UpFile == "" {
		o.UpFile = DefaultUpFile
	}
	if o.DownFile == "" {
		o.DownFile = DefaultDownFile
	}
	return o
}

// Result describes one split source file.
type Result struct {
	Source string
	Dir    string
	Name   string
}

// Report collects the outcome of a SplitAll run.
type Report struct {
	Processed []Result
	Failed    *multierror.Error
	Aborted   bool // set when FailFast stopped the run early
}

// Err returns nil when every file was split.
func (r *Report) Err() error {
	return r.Failed.ErrorOrNil()
}

// SplitMigrationDir is a directory holding a split up/down pair.
type SplitMigrationDir struct {
	Name     string
	UpPath   string
	DownPath string
}

// VerifyReport collects the outcome of a verification run.
type VerifyReport struct {
	Verified []string
	Failed   *multierror.Error
}

// Err returns nil when every migration verified.
func (r *VerifyReport) Err() error {
	return r.Failed.ErrorOrNil()
}
