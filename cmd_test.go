package migsplit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleSplitterCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "001.sql"), createTable)

	assert.False(t, HandleSplitterCommand(nil, nil, Options{}))
	assert.False(t, HandleSplitterCommand(nil, nil, Options{}, "migrate", "up"))
	assert.True(t, HandleSplitterCommand(nil, nil, Options{}, "help"))

	// verify needs a database
	assert.False(t, HandleSplitterCommand(nil, nil, Options{}, "verify", dir))

	assert.True(t, HandleSplitterCommand(nil, nil, Options{}, "split", dir))
	assert.Equal(t, "CREATE TABLE t;", readFile(t, filepath.Join(dir, "001", "up.sql")))
}

func TestGetHelpString(t *testing.T) {
	help := GetHelpString()
	assert.Contains(t, help, "split")
	assert.Contains(t, help, "verify")
}
