package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aurceive/weaponmeta/internal/domain"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.wmsnap")

	in := Snapshot{
		ID:           "abc",
		SavedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Records:      []domain.WeaponRecord{{Name: "WEAPON_PISTOL", Damage: 26, ClipSize: 12}},
		Primary:      0,
		Compare:      -1,
		TargetHealth: 80,
		TargetArmor:  20,
		ChartStep:    10,
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}

	out, ok, err := Load(path)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if out.Version != FormatVersion || out.ID != "abc" || !out.SavedAt.Equal(in.SavedAt) {
		t.Fatalf("unexpected header: %#v", out)
	}
	if len(out.Records) != 1 || out.Records[0].Damage != 26 || out.Records[0].ClipSize != 12 {
		t.Fatalf("unexpected records: %#v", out.Records)
	}
	if out.Compare != -1 || out.TargetHealth != 80 || out.TargetArmor != 20 {
		t.Fatalf("unexpected selection/environment: %#v", out)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, ok, err := Load(filepath.Join(t.TempDir(), "missing.wmsnap"))
	if err != nil || ok {
		t.Fatalf("expected missing snapshot to be ok=false err=nil, got ok=%v err=%v", ok, err)
	}
}

func TestDecode_RejectsBadSelection(t *testing.T) {
	b, err := Encode(Snapshot{Primary: 2, Compare: -1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(b); err == nil {
		t.Fatalf("expected error for out-of-range selection")
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Fatalf("expected error")
	}
}
