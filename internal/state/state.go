// Package state persists editing sessions as msgpack snapshots.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aurceive/weaponmeta/internal/domain"

	"github.com/vmihailenco/msgpack/v5"
)

const FormatVersion = 1

// Snapshot is a full editing session: the collection, which records are
// selected (index into Records, -1 for none) and the simulated target.
type Snapshot struct {
	Version      int                   `msgpack:"version"`
	ID           string                `msgpack:"id"`
	SavedAt      time.Time             `msgpack:"saved_at"`
	Records      []domain.WeaponRecord `msgpack:"records"`
	Primary      int                   `msgpack:"primary"`
	Compare      int                   `msgpack:"compare"`
	TargetHealth float64               `msgpack:"target_health"`
	TargetArmor  float64               `msgpack:"target_armor"`
	ChartStep    float64               `msgpack:"chart_step"`
}

func Encode(s Snapshot) ([]byte, error) {
	if s.Version == 0 {
		s.Version = FormatVersion
	}
	return msgpack.Marshal(&s)
}

func Decode(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != FormatVersion {
		return Snapshot{}, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
	}
	if err := s.validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) validate() error {
	for _, idx := range []int{s.Primary, s.Compare} {
		if idx < -1 || idx >= len(s.Records) {
			return fmt.Errorf("snapshot: selection index %d out of range (records=%d)", idx, len(s.Records))
		}
	}
	return nil
}

// Load reads a snapshot file. A missing file is not an error; ok reports
// whether a snapshot was found.
func Load(path string) (s Snapshot, ok bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	s, err = Decode(b)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return s, true, nil
}

// Save writes the snapshot through a temp file so a crash never leaves a
// truncated session behind.
func Save(path string, s Snapshot) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
