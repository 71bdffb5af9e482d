package migsplit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// VerifyCh runs every split migration in dir against db to check that the up
// and down sections execute. Each migration runs up then down inside its own
// transaction, which is always rolled back. Empty file names default to
// up.sql and down.sql.
func VerifyCh(ctx context.Context, db *sql.DB, dialect *Dialect, fsys fs.FS, dir, upFile, downFile string) chan *VerifyReport {
	resultChan := make(chan *VerifyReport, 1)
	go func() {
		resultChan <- verify(ctx, db, dialect, fsys, dir, upFile, downFile)
		close(resultChan)
	}()
	return resultChan
}

func verify(ctx context.Context, db *sql.DB, dialect *Dialect, fsys fs.FS, dir, upFile, downFile string) *VerifyReport {
	report := &VerifyReport{}

	// Sanity check the connection
	var one int
	if err := db.QueryRowContext(ctx, dialect.SanityQuery).Scan(&one); err != nil {
		report.Failed = multierror.Append(report.Failed, fmt.Errorf("database sanity check: %w", err))
		return report
	}

	migrations, err := ListSplitMigrations(fsys, dir, upFile, downFile)
	if err != nil {
		report.Failed = multierror.Append(report.Failed, err)
		return report
	}
	if len(migrations) == 0 {
		log.Warn("No split migrations found")
		return report
	}
	if !dialect.TransactionalDDL {
		log.Warnf("%s commits DDL implicitly; verified migrations may leave changes behind", dialect.Name)
	}

	for _, migration := range migrations {
		log.Infof("Verifying migration %s...", migration.Name)
		if err := verifyMigration(ctx, db, fsys, migration); err != nil {
			log.Errorf("Migration %s failed verification: %v", migration.Name, err)
			report.Failed = multierror.Append(report.Failed, err)
			continue
		}
		report.Verified = append(report.Verified, migration.Name)
	}
	return report
}

// verifyMigration executes up then down in a transaction and rolls it back
func verifyMigration(ctx context.Context, db *sql.DB, fsys fs.FS, migration SplitMigrationDir) (err error) {
	up, err := fs.ReadFile(fsys, migration.UpPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", migration.UpPath, err)
	}
	down, err := fs.ReadFile(fsys, migration.DownPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", migration.DownPath, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", migration.Name, err)
	}
	defer func() {
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err == nil {
			err = fmt.Errorf("rollback %s: %w", migration.Name, rbErr)
		}
	}()

	for _, section := range []struct {
		direction string
		query     string
	}{
		{"up", string(up)},
		{"down", string(down)},
	} {
		if strings.TrimSpace(section.query) == "" {
			log.Debugf("Migration %s has an empty %s section", migration.Name, section.direction)
			continue
		}
		if _, err := tx.ExecContext(ctx, section.query); err != nil {
			return fmt.Errorf("exec %s %s: %w", migration.Name, section.direction, err)
		}
	}
	return nil
}

// ListSplitMigrations returns the directories directly under dir that hold
// both an up and a down file, sorted by name. A directory holding only one of
// them is an error; directories holding neither are ignored.
func ListSplitMigrations(fsys fs.FS, dir, upFile, downFile string) ([]SplitMigrationDir, error) {
	if upFile == "" {
		upFile = DefaultUpFile
	}
	if downFile == "" {
		downFile = DefaultDownFile
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []SplitMigrationDir
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		migration := SplitMigrationDir{
			Name:     entry.Name(),
			UpPath:   path.Join(dir, entry.Name(), upFile),
			DownPath: path.Join(dir, entry.Name(), downFile),
		}
		hasUp, err := fileExists(fsys, migration.UpPath)
		if err != nil {
			return nil, err
		}
		hasDown, err := fileExists(fsys, migration.DownPath)
		if err != nil {
			return nil, err
		}

		switch {
		case hasUp && hasDown:
			migrations = append(migrations, migration)
		case hasUp:
			return nil, fmt.Errorf("migration %s is missing %s", migration.Name, downFile)
		case hasDown:
			return nil, fmt.Errorf("migration %s is missing %s", migration.Name, upFile)
		default:
			log.Debugf("Skipping %s: not a split migration", migration.Name)
		}
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

func fileExists(fsys fs.FS, name string) (bool, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return !info.IsDir(), nil
}
