// Package backup writes periodic CSV snapshots of the schedule store so a
// broken import or a lost database file never costs more than one backup
// interval of edits.
package backup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"termcal/internal/csvio"
	applog "termcal/internal/log"
	"termcal/internal/store"
)

// Runner owns the cron scheduler driving snapshot writes.
type Runner struct {
	c   *cron.Cron
	st  *store.Store
	dir string
}

// Start creates the snapshot directory, schedules snapshots per the cron
// spec, and starts the scheduler.
func Start(st *store.Store, spec, dir string) (*Runner, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	r := &Runner{
		c:   cron.New(),
		st:  st,
		dir: dir,
	}
	if _, err := r.c.AddFunc(spec, r.snapshot); err != nil {
		return nil, err
	}
	r.c.Start()
	applog.Info("backup scheduler started", "cron", spec, "dir", dir)
	return r, nil
}

// Stop halts the scheduler; a snapshot in flight finishes.
func (r *Runner) Stop() {
	ctx := r.c.Stop()
	<-ctx.Done()
}

func (r *Runner) snapshot() {
	name := "schedule-" + time.Now().Format("20060102-150405") + ".csv"
	path := filepath.Join(r.dir, name)

	data := csvio.Encode(r.st.Events(), r.st.Notes())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		applog.Error("backup snapshot failed", err, "path", path)
		return
	}
	applog.Info("backup snapshot written", "path", path, "bytes", len(data))
}
