package workspace

import (
	"time"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot captures the session so it can be restored later.
func (w *Workspace) Snapshot() state.Snapshot {
	s := state.Snapshot{
		Version:      state.FormatVersion,
		ID:           uuid.NewString(),
		SavedAt:      time.Now().UTC(),
		Records:      w.Records(),
		Primary:      -1,
		Compare:      -1,
		TargetHealth: w.env.TargetHealth(),
		TargetArmor:  w.env.TargetArmor(),
		ChartStep:    w.step,
	}
	for i, r := range w.records {
		if r == w.primary && s.Primary == -1 {
			s.Primary = i
		}
		if r == w.compare && s.Compare == -1 {
			s.Compare = i
		}
	}
	return s
}

// Restore replaces the session with s.
func (w *Workspace) Restore(s state.Snapshot) {
	w.Reset()
	w.records = make([]*domain.WeaponRecord, 0, len(s.Records))
	for i := range s.Records {
		rec := s.Records[i]
		w.records = append(w.records, &rec)
	}
	if s.Primary >= 0 && s.Primary < len(w.records) {
		w.primary = w.records[s.Primary]
	}
	if s.Compare >= 0 && s.Compare < len(w.records) {
		w.compare = w.records[s.Compare]
	}
	w.env.SetTargetHealth(s.TargetHealth)
	w.env.SetTargetArmor(s.TargetArmor)
	w.SetChartStep(s.ChartStep)
	w.log.Info("restored session", zap.String("id", s.ID), zap.Int("weapons", len(w.records)))
}
