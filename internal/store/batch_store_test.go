package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func testBatch(generatedAt time.Time, patientIDs ...string) *models.Batch {
	b := &models.Batch{GeneratedAt: generatedAt}
	for _, id := range patientIDs {
		b.Items = append(b.Items, models.Scorecard{
			PatientID:       id,
			Timestamp:       generatedAt,
			Recommendations: []string{"Continue routine monitoring per unit protocol."},
		})
	}
	return b
}

func TestBatchName_SortableFormat(t *testing.T) {
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	name := BatchName(ts)
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", name)
	assert.True(t, ValidBatchName(name))

	// Later instant, lexicographically greater name.
	later := BatchName(ts.Add(time.Second))
	assert.Greater(t, later, name)
}

func TestFileStore_PublishAndLatest(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	name, err := s.Publish(testBatch(ts, "ICU-001", "ICU-002"))
	require.NoError(t, err)
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", name)

	got, gotName, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, name, gotName)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "ICU-001", got.Items[0].PatientID)
	assert.True(t, got.GeneratedAt.Equal(ts))
}

func TestFileStore_FileBodyMatchesServedBatch(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	batch := testBatch(ts, "ICU-001")

	name, err := s.Publish(batch)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(s.dir, name))
	require.NoError(t, err)
	served, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.JSONEq(t, string(served), string(onDisk))
}

func TestFileStore_LatestEmpty(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_LatestPicksNewest(t *testing.T) {
	s := newTestStore(t)
	t1 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Second)

	_, err := s.Publish(testBatch(t1, "ICU-001"))
	require.NoError(t, err)
	_, err = s.Publish(testBatch(t2, "ICU-001"))
	require.NoError(t, err)

	_, name, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, BatchName(t2), name)
}

func TestFileStore_LatestSkipsCorruptFile(t *testing.T) {
	s := newTestStore(t)
	t1 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Second)

	_, err := s.Publish(testBatch(t1, "ICU-001"))
	require.NoError(t, err)

	// A newer but unparseable file must not break the lookup.
	corrupt := filepath.Join(s.dir, BatchName(t2))
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	_, name, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, BatchName(t1), name)
}

func TestFileStore_DuplicatePublishRefused(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	_, err := s.Publish(testBatch(ts, "ICU-001"))
	require.NoError(t, err)
	_, err = s.Publish(testBatch(ts, "ICU-002"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already published")
}

func TestFileStore_GetRejectsMalformedNames(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{
		"",
		"../../etc/passwd",
		"cds_scorecards_20260115T103000Z.json/../../etc/passwd",
		"notes.txt",
		"cds_scorecards_2026011T103000Z.json",
		"cds_scorecards_20260115T103000Z.json.bak",
		"CDS_SCORECARDS_20260115T103000Z.JSON",
	} {
		_, err := s.Get(name)
		assert.ErrorIs(t, err, ErrBadName, "name %q", name)
	}
}

func TestFileStore_GetMissingBatch(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("cds_scorecards_20260115T103000Z.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_GetByName(t *testing.T) {
	s := newTestStore(t)
	t1 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Second)

	_, err := s.Publish(testBatch(t1, "ICU-001"))
	require.NoError(t, err)
	_, err = s.Publish(testBatch(t2, "ICU-002"))
	require.NoError(t, err)

	old, err := s.Get(BatchName(t1))
	require.NoError(t, err)
	assert.Equal(t, "ICU-001", old.Items[0].PatientID)
}

func TestFileStore_FindPatient(t *testing.T) {
	s := newTestStore(t)
	t1 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Second)

	_, err := s.Publish(testBatch(t1, "ICU-001", "ICU-009"))
	require.NoError(t, err)
	_, err = s.Publish(testBatch(t2, "ICU-001", "ICU-002"))
	require.NoError(t, err)

	card, err := s.FindPatient("ICU-002")
	require.NoError(t, err)
	assert.Equal(t, "ICU-002", card.PatientID)

	// ICU-009 only exists in the older batch; lookup is latest-only.
	_, err = s.FindPatient("ICU-009")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_FindPatientEmptyStore(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindPatient("ICU-001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_NamesIgnoresStrayFiles(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	_, err := s.Publish(testBatch(ts, "ICU-001"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "README.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.dir, "archive"), 0o755))

	names, err := s.names()
	require.NoError(t, err)
	assert.Equal(t, []string{BatchName(ts)}, names)
}
