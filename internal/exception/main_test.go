package exception

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestMain lets go-snaps prune obsolete snapshots left behind by removed
// or renamed diagnostic-table test cases after the package's tests run.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
