package service

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ElvisLo030/RA-bot/internal/store"
)

// StartBackupScheduler copies the snapshot file into dir once a day.
// Best-effort: failures are logged and retried on the next run.
func StartBackupScheduler(st *store.Store, dir string) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[backup] scheduler setup failed, daily backups disabled: %v", err)
		return
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() { runBackup(st, dir) }),
	); err != nil {
		log.Printf("[backup] backup job setup failed, daily backups disabled: %v", err)
		return
	}
	sched.Start()
}

func runBackup(st *store.Store, dir string) {
	st.Lock()
	defer st.Unlock()

	path, err := st.BackupTo(dir)
	if err != nil {
		log.Printf("[backup] snapshot backup failed: %v", err)
		return
	}
	log.Printf("[backup] snapshot copied to %s", path)
}
