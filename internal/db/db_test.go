package db

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dga.report/internal/dga"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPragmasApplied(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout, synchronous, foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.NoError(t, db.QueryRow("PRAGMA synchronous").Scan(&synchronous))
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 5000, busyTimeout)
	assert.Equal(t, 1, synchronous, "1 = NORMAL")
	assert.Equal(t, 1, foreignKeys)
}

func TestMigrations_UpDownStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	migrations, err := MigrationsFS()
	require.NoError(t, err)

	version, dirty, err := db.MigrateVersion(migrations)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, db.MigrateUp(migrations))
	require.NoError(t, db.MigrateUp(migrations), "second up is a no-op")

	version, _, err = db.MigrateVersion(migrations)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'analysis_runs'`).Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, db.MigrateDown(migrations))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'analysis_runs'`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestRuns_CreateGetList(t *testing.T) {
	db := newTestDB(t)

	first := &Run{Source: "a.csv", Period: "6M", MinPoints: 6, CreatedAt: time.Unix(1000, 0)}
	require.NoError(t, db.CreateRun(first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "All", first.Units)

	second := &Run{ID: "fixed", Source: "b.csv", Period: "1Y", MinPoints: 3, Units: "T1", Gases: "Hydrogen", CreatedAt: time.Unix(2000, 0)}
	require.NoError(t, db.CreateRun(second))

	got, err := db.GetRun("fixed")
	require.NoError(t, err)
	assert.Equal(t, "b.csv", got.Source)
	assert.Equal(t, "T1", got.Units)
	assert.Equal(t, time.Unix(2000, 0).UTC(), got.CreatedAt)

	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fixed", runs[0].ID, "newest first")

	runs, err = db.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = db.GetRun("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestResults_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	run := &Run{Source: "s.csv", Period: "6M"}
	require.NoError(t, db.CreateRun(run))

	ts := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	verdicts := []dga.TrendVerdict{
		{
			UnitID: "T1", Gas: dga.Hydrogen, Direction: dga.Increasing,
			Confidence: dga.Some(0.01), Statistic: dga.Some(2.7), Slope: dga.Some(3.5),
			Series: []dga.SeriesPoint{{Timestamp: ts, Ref: 10, Value: 1}, {Timestamp: ts.AddDate(0, 6, 0), Ref: 11, Value: 2}},
		},
		{
			UnitID: "T1", Gas: dga.Methane, Direction: dga.InsufficientData,
			Confidence: dga.Missing, Statistic: dga.Missing, Slope: dga.Missing,
			Series: []dga.SeriesPoint{},
		},
	}
	outliers := []dga.OutlierRecord{
		{UnitID: "T2", Gas: dga.Hydrogen, Timestamp: ts, Ref: dga.Some(12), Value: 350},
		{UnitID: "T2", Gas: dga.Acetylene, Timestamp: ts.AddDate(1, 0, 0), Ref: dga.Missing, Value: 4},
	}

	require.NoError(t, db.RecordTrends(run.ID, verdicts))
	require.NoError(t, db.RecordOutliers(run.ID, outliers))

	gotTrends, err := db.TrendsForRun(run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(verdicts, gotTrends); diff != "" {
		t.Errorf("trends mismatch (-want +got):\n%s", diff)
	}

	gotOutliers, err := db.OutliersForRun(run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(outliers, gotOutliers); diff != "" {
		t.Errorf("outliers mismatch (-want +got):\n%s", diff)
	}

	got, err := db.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TrendCount)
	assert.Equal(t, 2, got.OutlierCount)
}

func TestResults_EmptyRun(t *testing.T) {
	db := newTestDB(t)

	trends, err := db.TrendsForRun("missing")
	require.NoError(t, err)
	assert.NotNil(t, trends)
	assert.Empty(t, trends)

	outliers, err := db.OutliersForRun("missing")
	require.NoError(t, err)
	assert.NotNil(t, outliers)
	assert.Empty(t, outliers)
}

func TestRecordTrends_UnknownRunRejected(t *testing.T) {
	db := newTestDB(t)
	err := db.RecordTrends("ghost", []dga.TrendVerdict{{UnitID: "T1", Gas: dga.Hydrogen, Direction: dga.NoTrend}})
	assert.Error(t, err, "foreign keys are enforced")
}

func TestDeleteRun(t *testing.T) {
	db := newTestDB(t)
	run := &Run{Source: "s.csv", Period: "6M"}
	require.NoError(t, db.CreateRun(run))
	require.NoError(t, db.RecordOutliers(run.ID, []dga.OutlierRecord{
		{UnitID: "T1", Gas: dga.Hydrogen, Timestamp: time.Unix(0, 0).UTC(), Ref: dga.Missing, Value: 500},
	}))

	require.NoError(t, db.DeleteRun(run.ID))
	_, err := db.GetRun(run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	outliers, err := db.OutliersForRun(run.ID)
	require.NoError(t, err)
	assert.Empty(t, outliers)

	assert.ErrorIs(t, db.DeleteRun(run.ID), ErrRunNotFound)
}

func TestAttachAdminRoutes(t *testing.T) {
	db := newTestDB(t)
	mux := http.NewServeMux()
	require.NoError(t, db.AttachAdminRoutes(mux))

	for _, endpoint := range []string{"/debug/backup", "/debug/tailsql/"} {
		t.Run(endpoint, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, endpoint, nil))
			assert.NotEqual(t, http.StatusNotFound, w.Code, "route should be registered")
		})
	}
}

func TestServeBackup(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateRun(&Run{Source: "s.csv", Period: "6M"}))

	w := httptest.NewRecorder()
	db.serveBackup(w, httptest.NewRequest(http.MethodGet, "/debug/backup", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".db.gz")

	gz, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("SQLite format 3\x00")))
}

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	var out bytes.Buffer
	require.NoError(t, RunMigrateCommand([]string{"up"}, path, &out))
	assert.Contains(t, out.String(), "applied")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"status"}, path, &out))
	assert.Contains(t, out.String(), "version: 1")
	assert.Contains(t, out.String(), "dirty: false")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"help"}, path, &out))
	assert.True(t, strings.HasPrefix(out.String(), "Usage: dga-report migrate"))

	assert.Error(t, RunMigrateCommand(nil, path, io.Discard))
	assert.Error(t, RunMigrateCommand([]string{"sideways"}, path, io.Discard))
	assert.Error(t, RunMigrateCommand([]string{"force"}, path, io.Discard))
	assert.Error(t, RunMigrateCommand([]string{"force", "x"}, path, io.Discard))

	require.NoError(t, RunMigrateCommand([]string{"down"}, path, io.Discard))
	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"status"}, path, &out))
	assert.Contains(t, out.String(), "version: 0")
}
