// Package backup snapshots the catalog to timestamped local files and
// a remote backup store, and notifies the messaging channel. Every
// stage past the local write is best-effort: failures are logged and
// the remaining stages still run.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo/v2"

	"carstock/internal/catalog"
	"carstock/internal/model"
	"carstock/internal/repository"
	"carstock/internal/telegram"
)

var logger = loggo.GetLogger("carstock.backup")

// RemoteRetention caps the number of snapshots kept in the remote
// backup store.
const RemoteRetention = 20

// LocalRetention is how long local backup files are kept; older files
// are pruned on the weekly trigger.
const LocalRetention = 30 * 24 * time.Hour

// Service performs snapshots and manages retention.
type Service struct {
	facade *catalog.Facade
	remote repository.BackupRepository
	bot    *telegram.Client
	clock  clock.Clock
	dir    string
}

// NewService returns a backup service writing into dir.
func NewService(facade *catalog.Facade, remote repository.BackupRepository, bot *telegram.Client, clk clock.Clock, dir string) *Service {
	return &Service{facade: facade, remote: remote, bot: bot, clock: clk, dir: dir}
}

// Run takes one snapshot of the given type. The local file write is the
// only stage whose failure aborts; the remote mirror and the channel
// notification are fire-and-forget. It returns the local file path.
func (s *Service) Run(ctx context.Context, backupType, createdBy string) (string, error) {
	cache := s.facade.Load(ctx)
	snap := s.facade.Snapshot(backupType, createdBy, cache)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("backup_%s_%s.json", backupType, s.clock.Now().Format("20060102_150405"))
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	if err := s.remote.CreateBackup(ctx, model.RemoteBackup{
		Filename:      filename,
		Data:          string(data),
		TotalProducts: len(cache),
		Type:          backupType,
	}); err != nil {
		logger.Warningf("remote backup push failed: %v", err)
	} else if err := s.remote.PruneBackups(ctx, RemoteRetention); err != nil {
		logger.Warningf("remote backup pruning failed: %v", err)
	}

	s.notify(backupType, len(cache), filename, data)
	return path, nil
}

// notify sends the summary message and the snapshot file to the
// channel. Failures are swallowed: the notification is a side channel.
func (s *Service) notify(backupType string, totalProducts int, filename string, data []byte) {
	if !s.bot.Configured() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var b strings.Builder
	b.WriteString("🔄 <b>Automatic backup</b>\n")
	b.WriteString("━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "📋 Type: %s\n", backupType)
	fmt.Fprintf(&b, "📦 Products: %d\n", totalProducts)
	fmt.Fprintf(&b, "📅 Date: %s\n", s.clock.Now().Format("2006-01-02 15:04"))
	b.WriteString("━━━━━━━━━━━━━━━━\n")
	b.WriteString("✅ Saved successfully")

	if _, err := s.bot.SendMessage(ctx, b.String()); err != nil {
		logger.Warningf("backup notification message failed: %v", err)
	}
	if err := s.bot.SendDocument(ctx, filename, data, "📎 Backup file"); err != nil {
		logger.Warningf("backup document upload failed: %v", err)
	}
}

// List returns the local backup files, newest first. The type is
// recovered from the filename (backup_<type>_<timestamp>.json).
func (s *Service) List() ([]model.LocalBackup, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.LocalBackup{}, nil
		}
		return nil, err
	}
	backups := []model.LocalBackup{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "backup_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backupType := "unknown"
		if parts := strings.Split(name, "_"); len(parts) > 1 {
			backupType = parts[1]
		}
		backups = append(backups, model.LocalBackup{
			Filename: name,
			Size:     info.Size(),
			Created:  info.ModTime().UTC().Format(time.RFC3339),
			Type:     backupType,
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename > backups[j].Filename })
	return backups, nil
}

// PruneLocal deletes local backup files whose modification time is
// older than the retention window. Errors are logged; pruning is never
// allowed to break a backup run.
func (s *Service) PruneLocal(retention time.Duration) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warningf("backup pruning: %v", err)
		}
		return
	}
	cutoff := s.clock.Now().Add(-retention)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "backup_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
				logger.Warningf("backup pruning: remove %s: %v", name, err)
				continue
			}
			logger.Infof("deleted old backup %s", name)
		}
	}
}
