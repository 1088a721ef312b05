package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock/internal/catalog"
	"carstock/internal/config"
	"carstock/internal/model"
	"carstock/internal/repository"
	"carstock/internal/telegram"
)

func newTestService(t *testing.T, start time.Time) (*Service, *repository.Memory, *testclock.Clock, string) {
	t.Helper()
	repo := repository.NewMemory()
	clk := testclock.NewClock(start)
	facade := catalog.New(repo, clk)
	bot := telegram.NewClient("http://127.0.0.1:0", config.NewSettings(config.Config{}))
	dir := t.TempDir()
	return NewService(facade, repo, bot, clk, dir), repo, clk, dir
}

func TestRunWritesSnapshotFile(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s, repo, _, dir := newTestService(t, start)
	require.NoError(t, repo.Insert(context.Background(), model.Product{
		ProductNumber: "123", ProductName: "Brake pad", Type: "brakes", Quantity: 2, PriceIQD: 1000,
	}))

	path, err := s.Run(context.Background(), "manual", "Tester")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup_manual_20260901_120000.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap model.BackupSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "manual", snap.Info.BackupType)
	assert.Equal(t, "Tester", snap.Info.CreatedBy)
	assert.Equal(t, 1, snap.Info.TotalProducts)
	assert.Contains(t, snap.Products, "123")
}

func TestRunPushesRemoteCopy(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s, repo, _, _ := newTestService(t, start)

	_, err := s.Run(context.Background(), "daily", "Auto Backup System")
	require.NoError(t, err)

	remote := repo.Backups()
	require.Len(t, remote, 1)
	assert.Equal(t, "backup_daily_20260901_120000.json", remote[0].Filename)
	assert.Equal(t, "daily", remote[0].Type)
	assert.NotEmpty(t, remote[0].Data)
}

func TestListNewestFirst(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s, _, clk, _ := newTestService(t, start)

	_, err := s.Run(context.Background(), "daily", "Auto Backup System")
	require.NoError(t, err)
	clk.Advance(24 * time.Hour)
	_, err = s.Run(context.Background(), "manual", "User")
	require.NoError(t, err)

	backups, err := s.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "backup_manual_20260902_120000.json", backups[0].Filename)
	assert.Equal(t, "manual", backups[0].Type)
	assert.Equal(t, "daily", backups[1].Type)
}

func TestListEmptyDir(t *testing.T) {
	s, _, _, _ := newTestService(t, time.Now())
	backups, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestPruneLocal(t *testing.T) {
	now := time.Now()
	s, _, _, dir := newTestService(t, now)

	old := filepath.Join(dir, "backup_daily_20250101_000000.json")
	fresh := filepath.Join(dir, "backup_daily_20260831_000000.json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("{}"), 0o644))
	stale := now.Add(-LocalRetention - 24*time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	s.PruneLocal(LocalRetention)

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "expired file should be removed")
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "recent file must survive")
}

func countFiles(t *testing.T, dir, prefix string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if len(e.Name()) >= len(prefix) && e.Name()[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestSchedulerDailyOncePerDate(t *testing.T) {
	// Monday 02:00, inside the daily window.
	start := time.Date(2026, 9, 7, 2, 0, 0, 0, time.UTC)
	s, _, clk, dir := newTestService(t, start)
	sched := NewScheduler(s, clk)
	ctx := context.Background()

	sched.tick(ctx)
	assert.Equal(t, 1, countFiles(t, dir, "backup_daily_"))

	// Same date, the trigger must not refire.
	sched.tick(ctx)
	assert.Equal(t, 1, countFiles(t, dir, "backup_daily_"))

	// Next day at the same hour fires again.
	clk.Advance(24 * time.Hour)
	sched.tick(ctx)
	assert.Equal(t, 2, countFiles(t, dir, "backup_daily_"))
}

func TestSchedulerDailyOutsideWindow(t *testing.T) {
	start := time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
	s, _, clk, dir := newTestService(t, start)
	sched := NewScheduler(s, clk)

	sched.tick(context.Background())
	assert.Equal(t, 0, countFiles(t, dir, "backup_daily_"))
}

func TestSchedulerWeeklyOncePerWeek(t *testing.T) {
	// Friday 03:00, inside the weekly window.
	start := time.Date(2026, 9, 4, 3, 0, 0, 0, time.UTC)
	require.Equal(t, time.Friday, start.Weekday())
	s, _, clk, dir := newTestService(t, start)
	sched := NewScheduler(s, clk)
	ctx := context.Background()

	sched.tick(ctx)
	assert.Equal(t, 1, countFiles(t, dir, "backup_weekly_"))

	sched.tick(ctx)
	assert.Equal(t, 1, countFiles(t, dir, "backup_weekly_"), "same ISO week must not refire")

	// A week later the trigger fires again.
	clk.Advance(7 * 24 * time.Hour)
	sched.tick(ctx)
	assert.Equal(t, 2, countFiles(t, dir, "backup_weekly_"))
}
