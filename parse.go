package migsplit

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// ParseMigration splits the contents of a migration file into its up and down
// sections. The up marker is optional but may only appear at the start of the
// file; the down marker must appear exactly once.
func ParseMigration(contents string, markers *MarkerDefinition) (SplitMigration, error) {
	if markers == nil {
		markers = Dbmate
	}

	body := strings.TrimLeft(contents, " \t\r\n\ufeff")
	hasUp := strings.HasPrefix(body, markers.Up)
	body = strings.TrimPrefix(body, markers.Up)
	if strings.Contains(body, markers.Up) {
		return SplitMigration{}, &MalformedMigrationFileError{Marker: markers.Up, Err: ErrDuplicateUpMarker}
	}

	parts := strings.Split(body, markers.Down)
	switch {
	case len(parts) < 2:
		return SplitMigration{}, &MalformedMigrationFileError{Marker: markers.Down, Err: ErrMissingDownMarker}
	case len(parts) > 2:
		return SplitMigration{}, &MalformedMigrationFileError{Marker: markers.Down, Err: ErrDuplicateDownMarker}
	}

	up, down := parts[0], parts[1]
	if markers.LineOptions {
		if hasUp {
			up = cutMarkerOptions(up)
		}
		down = cutMarkerOptions(down)
	}

	return SplitMigration{
		Up:   strings.TrimSpace(up),
		Down: strings.TrimSpace(down),
	}, nil
}

// cutMarkerOptions removes the rest of a marker line when it holds only
// key:value options. Anything else on the line is kept as SQL.
func cutMarkerOptions(section string) string {
	line, rest, _ := strings.Cut(section, "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return section
	}
	for _, field := range fields {
		if !strings.Contains(field, ":") {
			return section
		}
	}
	log.Debugf("Ignoring marker options: %s", strings.Join(fields, " "))
	return rest
}
