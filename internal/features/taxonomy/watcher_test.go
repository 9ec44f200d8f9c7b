package taxonomy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-pm/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const reloadedDoc = `
phaseCodes:
  LEAD: Lead
phases:
  - name: Lead
    steps:
      - stepName: Input Customer Information
        section: Intake
        lineItem: Verify spelling
        responsibleRole: Administration
`

func TestWatcher_ReloadsOnChangeAndKeepsLastGoodTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, defaultDocument, 0o644))

	log := zaptest.NewLogger(t)
	store, err := LoadStore(&config.Config{TaxonomyPath: path}, log)
	require.NoError(t, err)

	w, err := NewWatcher(store, log)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(reloadedDoc), 0o644))
	require.Eventually(t, func() bool {
		return store.Resolve("Input Customer Information", "LEAD").Section == "Intake"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("phases: [::"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, RoleAdministration, store.Resolve("Input Customer Information", "LEAD").ResponsibleRole)
}

func TestLoadStore_DefaultsWithoutPath(t *testing.T) {
	store, err := LoadStore(&config.Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, store.Path())
	assert.Equal(t, "Prospect: Non-Insurance", store.PhaseName("PROSPECT_NON_INSURANCE"))
}
