package migsplit

import "fmt"

// MarkerDefinition describes the tokens delimiting the up and down sections
// of a migration file. These can be overridden to match another tool's format.
type MarkerDefinition struct {
	Name string
	Up   string
	Down string
	// LineOptions drops key:value options trailing a marker on its line,
	// such as "transaction:false".
	LineOptions bool
}

// Dbmate matches files written by dbmate and is the default.
var Dbmate = &MarkerDefinition{
	Name:        "dbmate",
	Up:          "-- migrate:up",
	Down:        "-- migrate:down",
	LineOptions: true,
}

// Dbmigrator matches the single-file section format of dbmigrator.
var Dbmigrator = &MarkerDefinition{
	Name: "dbmigrator",
	Up:   "-- +up",
	Down: "-- +down",
}

var markerDefinitions = map[string]*MarkerDefinition{
	Dbmate.Name:     Dbmate,
	Dbmigrator.Name: Dbmigrator,
}

// MarkersByName returns the marker definition registered under name.
func MarkersByName(name string) (*MarkerDefinition, error) {
	markers, ok := markerDefinitions[name]
	if !ok {
		return nil, fmt.Errorf("unknown marker set %q", name)
	}
	return markers, nil
}
