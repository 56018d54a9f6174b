package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aurceive/weaponmeta/internal/domain"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("inputs: [input/weapons.meta]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg.Environment.TargetHealth != 100 || *cfg.Environment.TargetArmor != 100 {
		t.Fatalf("expected 100/100 target, got %v/%v", *cfg.Environment.TargetHealth, *cfg.Environment.TargetArmor)
	}
	if cfg.Output.Dir != filepath.Join("output", "weapon_meta") {
		t.Fatalf("unexpected output dir %q", cfg.Output.Dir)
	}
	if !cfg.Wants(FormatMeta) || !cfg.Wants(FormatXLSX) || cfg.Wants(FormatSQLite) {
		t.Fatalf("unexpected default formats %v", cfg.Output.Formats)
	}
	if cfg.Serve.Addr == "" {
		t.Fatalf("expected default serve address")
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(nil); err != nil {
		t.Fatalf("expected empty config to be accepted, got %v", err)
	}
}

func TestParse_KeepsExplicitZeroArmor(t *testing.T) {
	cfg, err := Parse([]byte("environment:\n  target_armor: 0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg.Environment.TargetArmor != 0 || *cfg.Environment.TargetHealth != 100 {
		t.Fatalf("expected 100/0, got %v/%v", *cfg.Environment.TargetHealth, *cfg.Environment.TargetArmor)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("inputs: []\nunknown_key: 1\n")); err == nil {
		t.Fatalf("expected error for unsupported config keys")
	}
}

func TestParse_Edits(t *testing.T) {
	in := "" +
		"edits:\n" +
		"  - weapon: WEAPON_PISTOL\n" +
		"    field: damage\n" +
		"    value: \"30\"\n"
	cfg, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Edits) != 1 || cfg.Edits[0].Value != "30" {
		t.Fatalf("unexpected edits: %#v", cfg.Edits)
	}

	_, err = Parse([]byte("edits:\n  - weapon: WEAPON_PISTOL\n    field: dmg\n    value: \"1\"\n"))
	if !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestParse_ChartStepBounds(t *testing.T) {
	for _, in := range []string{"chart: {step: -1}\n", "chart: {step: 0.000000001}\n", "chart: {step: .nan}\n"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	cfg, err := Parse([]byte("chart: {step: 0.5}\n"))
	if err != nil || cfg.Chart.Step != 0.5 {
		t.Fatalf("expected step 0.5 to be accepted, got %v (%v)", cfg.Chart.Step, err)
	}
}

func TestParse_RejectsUnknownFormat(t *testing.T) {
	if _, err := Parse([]byte("output:\n  formats: [pdf]\n")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestResolvePath(t *testing.T) {
	root := filepath.FromSlash("/srv/app")
	if got := ResolvePath(root, "input/a.meta"); got != filepath.Join(root, "input", "a.meta") {
		t.Fatalf("unexpected path %q", got)
	}
	abs := filepath.FromSlash("/tmp/a.meta")
	if got := ResolvePath(root, abs); filepath.IsAbs(abs) && got != abs {
		t.Fatalf("expected absolute path to be kept, got %q", got)
	}
}
