package migsplit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// rename is swapped out in tests to fail a directory swap.
var rename = os.Rename

// SplitAllCh splits every matching file in the background and sends the report
// once the run completes.
func SplitAllCh(opts Options) chan *Report {
	resultChan := make(chan *Report, 1)
	go func() {
		report, err := SplitAll(opts)
		if report == nil {
			report = &Report{Failed: multierror.Append(nil, err)}
		}
		resultChan <- report
		close(resultChan)
	}()
	return resultChan
}

// SplitAll splits every file in opts.Dir matching opts.Pattern, one file at a
// time in name order. Malformed files are reported and skipped unless
// opts.FailFast is set, in which case the run stops at the first failure.
// Files split before a failure are kept either way.
func SplitAll(opts Options) (*Report, error) {
	opts = opts.withDefaults()

	files, err := ListSourceFiles(opts.Dir, opts.Pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warnf("No migration files matching %s found in %s", opts.Pattern, opts.Dir)
	}

	conflicts := outputConflicts(files, opts)

	report := &Report{}
	for _, file := range files {
		log.Infof("Splitting %s", file)
		result, err := Result{}, conflicts[file]
		if err == nil {
			result, err = SplitFile(file, opts)
		}
		if err != nil {
			log.Errorf("Failed to split %s: %v", file, err)
			report.Failed = multierror.Append(report.Failed, err)
			if opts.FailFast {
				report.Aborted = true
				break
			}
			continue
		}
		report.Processed = append(report.Processed, result)
	}

	if report.Aborted {
		log.Errorf("Aborted after %d of %d files", len(report.Processed), len(files))
	} else if report.Failed != nil {
		log.Warnf("Split %d of %d files, %d failed",
			len(report.Processed), len(files), len(report.Failed.Errors))
	} else {
		log.Debugf("Split %d files", len(report.Processed))
	}
	return report, report.Err()
}

// ListSourceFiles returns the regular files in dir matching pattern, sorted by name.
func ListSourceFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}
		if !info.Mode().IsRegular() {
			log.Debugf("Skipping %s: not a regular file", match)
			continue
		}
		files = append(files, match)
	}
	sort.Strings(files)
	return files, nil
}

// outputConflicts maps each source whose output directory is itself a source
// file, or is claimed by more than one source, to the error rejecting it.
// Every source sharing a directory is rejected since no one of them wins.
func outputConflicts(files []string, opts Options) map[string]error {
	sources := make(map[string]string, len(files))
	claims := make(map[string][]string, len(files))
	for _, file := range files {
		sources[absPath(file)] = file
		target := absPath(outputDir(file, opts))
		claims[target] = append(claims[target], file)
	}

	conflicts := make(map[string]error)
	for _, file := range files {
		dir := outputDir(file, opts)
		target := absPath(dir)
		if other, ok := sources[target]; ok {
			conflicts[file] = &OutputConflictError{File: file, Dir: dir, Other: other, Err: ErrOutputIsSource}
			continue
		}
		for _, other := range claims[target] {
			if other != file {
				conflicts[file] = &OutputConflictError{File: file, Dir: dir, Other: other, Err: ErrOutputClaimed}
				break
			}
		}
	}
	return conflicts
}

func migrationName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func outputDir(path string, opts Options) string {
	return filepath.Join(opts.OutDir, migrationName(path))
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// SplitFile splits a single migration file into a directory named after the
// file's base name, placed in opts.OutDir. An existing directory is replaced
// only once both new files are fully written. A non-directory already at the
// output path, the source itself included, is never replaced.
func SplitFile(path string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	name := migrationName(path)
	if name == "" {
		return Result{}, fmt.Errorf("migration file %s has no base name", path)
	}
	dir := outputDir(path, opts)
	if absPath(dir) == absPath(path) {
		return Result{}, &OutputConflictError{File: path, Dir: dir, Other: path, Err: ErrOutputIsSource}
	}
	if info, err := os.Lstat(dir); err == nil && !info.IsDir() {
		return Result{}, &OutputConflictError{File: path, Dir: dir, Other: dir, Err: ErrOutputNotDir}
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read migration %s: %w", path, err)
	}

	migration, err := ParseMigration(string(contents), opts.Markers)
	if err != nil {
		var malformed *MalformedMigrationFileError
		if errors.As(err, &malformed) {
			malformed.File = path
		}
		return Result{}, err
	}

	result := Result{
		Source: path,
		Dir:    dir,
		Name:   name,
	}
	if opts.DryRun {
		log.Infof("Would write %s and %s to %s", opts.UpFile, opts.DownFile, result.Dir)
		return result, nil
	}

	err = replaceDir(result.Dir, map[string]string{
		opts.UpFile:   migration.Up,
		opts.DownFile: migration.Down,
	})
	if err != nil {
		return Result{}, fmt.Errorf("write migration %s: %w", name, err)
	}
	return result, nil
}

// replaceDir writes files into a fresh temporary sibling of target and then
// swaps it into place, restoring the previous directory if the swap fails.
func replaceDir(target string, files map[string]string) error {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(target)+".tmp-")
	if err != nil {
		return err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			log.Warnf("Failed to remove temporary directory %s: %v", tmp, err)
		}
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		cleanup()
		return err
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte(content), 0o644); err != nil {
			cleanup()
			return err
		}
	}

	backup := ""
	if info, err := os.Lstat(target); err == nil {
		if !info.IsDir() {
			cleanup()
			return fmt.Errorf("%s: %w", target, ErrOutputNotDir)
		}
		backup = tmp + ".old"
		if err := rename(target, backup); err != nil {
			cleanup()
			return fmt.Errorf("move aside existing %s: %w", target, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		cleanup()
		return err
	}

	if err := rename(tmp, target); err != nil {
		if backup != "" {
			if restoreErr := rename(backup, target); restoreErr != nil {
				log.Errorf("Failed to restore %s from %s: %v", target, backup, restoreErr)
			}
		}
		cleanup()
		return err
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			log.Warnf("Failed to remove previous output %s: %v", backup, err)
		}
	}
	return nil
}
