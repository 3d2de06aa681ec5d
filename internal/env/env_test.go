package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromList(t *testing.T) {
	t.Parallel()

	vars := FromList([]string{"A=1", "B=x=y", "broken", "=nokey", "EMPTY="})

	assert.Equal(t, Vars{"A": "1", "B": "x=y", "EMPTY": ""}, vars)
}

func TestMerge_LaterWins(t *testing.T) {
	t.Parallel()

	merged := Merge(Vars{"A": "file", "B": "file"}, nil, Vars{"B": "os"})

	assert.Equal(t, Vars{"A": "file", "B": "os"}, merged)
}

func TestLoadOptionalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	vars, err := LoadOptionalFile(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, vars)

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nTECTONIC_LOG_LEVEL=debug\nTECTONIC_ROOT=\"/srv/app\"\n"), 0o600))

	vars, err = LoadOptionalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", vars["TECTONIC_LOG_LEVEL"])
	assert.Equal(t, "/srv/app", vars["TECTONIC_ROOT"])
}
