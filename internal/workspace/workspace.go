// Package workspace holds the in-memory editing session: the loaded weapon
// collection, the primary/compare selection and the simulated target.
package workspace

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/meta"
	"github.com/aurceive/weaponmeta/internal/metrics"

	"go.uber.org/zap"
)

var (
	ErrWeaponNotFound = errors.New("weapon not found")
	ErrNoSelection    = errors.New("no weapon selected")
	ErrNothingToSave  = errors.New("no data to save")
)

// File is one user-selected input, already read into memory.
type File struct {
	Name    string
	Content []byte
}

// LoadResult reports the outcome for a single file. Err is set when the file
// was rejected; the other files are loaded regardless.
type LoadResult struct {
	File    string
	Weapons int
	Err     error
}

type Slot int

const (
	SlotPrimary Slot = iota
	SlotCompare
)

func (s Slot) String() string {
	if s == SlotCompare {
		return "compare"
	}
	return "primary"
}

// Workspace is not safe for concurrent use; callers serialize access.
type Workspace struct {
	log *zap.Logger

	records []*domain.WeaponRecord
	primary *domain.WeaponRecord
	compare *domain.WeaponRecord

	env  domain.Environment
	step float64
}

func New(log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{log: log, env: domain.NewEnvironment(), step: metrics.DefaultChartStep}
}

// Reset discards every record and selection and restores the default target.
func (w *Workspace) Reset() {
	w.records = nil
	w.primary = nil
	w.compare = nil
	w.env.Reset()
	w.step = metrics.DefaultChartStep
}

// Close drops every record and the selection. The target and chart step are
// kept; a later Load starts from an empty collection.
func (w *Workspace) Close() {
	n := len(w.records)
	w.records = nil
	w.primary = nil
	w.compare = nil
	w.log.Debug("workspace closed", zap.Int("weapons", n))
}

// Load decodes each file and merges its weapons into the collection, which is
// then sorted by name. A malformed file is reported and skipped.
func (w *Workspace) Load(files ...File) []LoadResult {
	results := make([]LoadResult, 0, len(files))
	for _, f := range files {
		weapons, err := meta.Decode(f.Content)
		if err != nil {
			w.log.Warn("rejected weapons file", zap.String("file", f.Name), zap.Error(err))
			results = append(results, LoadResult{File: f.Name, Err: fmt.Errorf("%s: %w", f.Name, err)})
			continue
		}
		for i := range weapons {
			w.records = append(w.records, &weapons[i])
		}
		if len(weapons) == 0 {
			w.log.Info("no weapons found in file", zap.String("file", f.Name))
		} else {
			w.log.Info("loaded weapons file", zap.String("file", f.Name), zap.Int("weapons", len(weapons)))
		}
		results = append(results, LoadResult{File: f.Name, Weapons: len(weapons)})
	}

	slices.SortStableFunc(w.records, func(a, b *domain.WeaponRecord) int {
		return strings.Compare(a.Name, b.Name)
	})
	if len(w.records) > 0 {
		w.primary = w.records[0]
	}
	return results
}

// Len returns the number of loaded weapons.
func (w *Workspace) Len() int {
	return len(w.records)
}

// Records returns a copy of the collection in its current order.
func (w *Workspace) Records() []domain.WeaponRecord {
	out := make([]domain.WeaponRecord, 0, len(w.records))
	for _, r := range w.records {
		out = append(out, *r)
	}
	return out
}

// Names lists weapon names in collection order, duplicates included.
func (w *Workspace) Names() []string {
	out := make([]string, 0, len(w.records))
	for _, r := range w.records {
		out = append(out, r.Name)
	}
	return out
}

// Find returns the first weapon with the given name.
func (w *Workspace) Find(name string) (*domain.WeaponRecord, bool) {
	for _, r := range w.records {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Select points a slot at the first weapon named name. An empty name clears the slot.
func (w *Workspace) Select(slot Slot, name string) error {
	var rec *domain.WeaponRecord
	if name != "" {
		r, ok := w.Find(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrWeaponNotFound, name)
		}
		rec = r
	}
	if slot == SlotCompare {
		w.compare = rec
	} else {
		w.primary = rec
	}
	return nil
}

func (w *Workspace) Selected(slot Slot) *domain.WeaponRecord {
	if slot == SlotCompare {
		return w.compare
	}
	return w.primary
}

func (w *Workspace) Primary() *domain.WeaponRecord { return w.primary }
func (w *Workspace) Compare() *domain.WeaponRecord { return w.compare }

// Edit sets one field on the first weapon named name.
func (w *Workspace) Edit(name, key, raw string) error {
	rec, ok := w.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrWeaponNotFound, name)
	}
	return w.edit(rec, key, raw)
}

// EditSelected sets one field on the weapon in slot.
func (w *Workspace) EditSelected(slot Slot, key, raw string) error {
	rec := w.Selected(slot)
	if rec == nil {
		return fmt.Errorf("%s: %w", slot, ErrNoSelection)
	}
	return w.edit(rec, key, raw)
}

func (w *Workspace) edit(rec *domain.WeaponRecord, key, raw string) error {
	before, _ := domain.FieldValue(rec, key)
	if err := domain.ApplyField(rec, key, raw); err != nil {
		w.log.Debug("edit discarded", zap.String("weapon", rec.Name), zap.String("field", key), zap.Error(err))
		return fmt.Errorf("%s: %w", rec.Name, err)
	}
	after, _ := domain.FieldValue(rec, key)
	w.log.Debug("edit applied", zap.String("weapon", rec.Name), zap.String("field", key),
		zap.String("from", before), zap.String("to", after))
	return nil
}

// EditRequest is one queued field edit.
type EditRequest struct {
	Weapon string
	Field  string
	Value  string
}

// ApplyEdits runs every edit in order. Failed edits are collected; they never
// stop the remaining ones.
func (w *Workspace) ApplyEdits(edits []EditRequest) error {
	var errs []error
	for _, e := range edits {
		if err := w.Edit(e.Weapon, e.Field, e.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Workspace) Environment() domain.Environment {
	return w.env
}

func (w *Workspace) SetTargetHealth(v float64) float64 {
	return w.env.SetTargetHealth(v)
}

func (w *Workspace) SetTargetArmor(v float64) float64 {
	return w.env.SetTargetArmor(v)
}

// SetChartStep changes the distance between series samples. Non-positive
// values restore the default; finer steps are raised to metrics.MinChartStep.
func (w *Workspace) SetChartStep(step float64) {
	switch {
	case !(step > 0) || math.IsInf(step, 0):
		step = metrics.DefaultChartStep
	case step < metrics.MinChartStep:
		step = metrics.MinChartStep
	}
	w.step = step
}

func (w *Workspace) ChartStep() float64 {
	return w.step
}

// Report recomputes metrics for the current selection.
func (w *Workspace) Report() metrics.Report {
	return metrics.ComputeReport(w.primary, w.compare, w.env, w.step)
}

// Save encodes the collection in its current order and suggests a filename.
func (w *Workspace) Save() ([]byte, string, error) {
	if len(w.records) == 0 {
		return nil, "", ErrNothingToSave
	}
	b, err := meta.Encode(w.Records())
	if err != nil {
		return nil, "", fmt.Errorf("encode weapons: %w", err)
	}
	return b, meta.SuggestedFilename, nil
}
