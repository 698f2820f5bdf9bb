// Package store holds the whole ledger state in memory and mirrors it to a
// single JSON snapshot file after every mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/model"
)

// Store is the one aggregate every service operates on. Callers must hold
// the lock for the full span of an operation; there is no finer-grained
// locking anywhere.
type Store struct {
	mu   sync.Mutex
	path string

	Gamers      map[int64]*model.Gamer
	Events      map[string]*model.Event
	Submissions map[int64][]*model.Submission
}

// snapshot is the on-disk document. Integer map keys round-trip as JSON
// string keys, which matches the existing data files.
type snapshot struct {
	Submissions map[int64][]*model.Submission `json:"user_images"`
	Events      map[string]*model.Event      `json:"events"`
	Gamers      map[int64]*model.Gamer       `json:"gamers"`
}

// Open reads the snapshot at path. A missing file yields an empty store; a
// malformed file is an error.
func Open(path string) (*Store, error) {
	s := &Store{
		path:        path,
		Gamers:      map[int64]*model.Gamer{},
		Events:      map[string]*model.Event{},
		Submissions: map[int64][]*model.Submission{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if snap.Gamers != nil {
		s.Gamers = snap.Gamers
	}
	if snap.Events != nil {
		s.Events = snap.Events
	}
	if snap.Submissions != nil {
		s.Submissions = snap.Submissions
	}

	// Older snapshots omit empty collections; normalize them so services
	// can index and append without nil guards.
	for _, g := range s.Gamers {
		if g.JoinedEvents == nil {
			g.JoinedEvents = []string{}
		}
		if g.JoinedAt == nil {
			g.JoinedAt = map[string]string{}
		}
		if g.EventsPoints == nil {
			g.EventsPoints = map[string]int{}
		}
		if g.HistoryPts == nil {
			g.HistoryPts = []int{}
		}
		if g.PointsHistory == nil {
			g.PointsHistory = []model.LedgerEntry{}
		}
		if g.RedeemedPrizes == nil {
			g.RedeemedPrizes = map[string][]int{}
		}
	}
	for _, ev := range s.Events {
		if ev.Tasks == nil {
			ev.Tasks = []*model.Task{}
		}
		if ev.Prizes == nil {
			ev.Prizes = []*model.Prize{}
		}
		if ev.GamerList == nil {
			ev.GamerList = []int64{}
		}
		for _, t := range ev.Tasks {
			if t.AssignedUsers == nil {
				t.AssignedUsers = []int64{}
			}
			if t.CheckedUsers == nil {
				t.CheckedUsers = []int64{}
			}
		}
	}
	return s, nil
}

// Save serializes the complete store and replaces the snapshot file. It
// writes to a temp file in the same directory and renames it over the
// target so a crash mid-write cannot corrupt the last good snapshot. The
// caller must hold the lock.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(snapshot{
		Submissions: s.Submissions,
		Events:      s.Events,
		Gamers:      s.Gamers,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Lock takes the store-wide mutex.
func (s *Store) Lock() { s.mu.Lock() }

// Unlock releases the store-wide mutex.
func (s *Store) Unlock() { s.mu.Unlock() }

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// BackupTo copies the current snapshot file into dir under a timestamped
// name and returns the backup path.
func (s *Store) BackupTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("open snapshot: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("snapshot-%s.json", time.Now().Format("20060102-150405"))
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy snapshot: %w", err)
	}
	return dstPath, nil
}
