package weaponmeta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aurceive/weaponmeta/internal/config"
	"github.com/aurceive/weaponmeta/internal/meta"
)

const examplesDir = "../../input/weapon_meta/examples"

func TestExampleConfig_Parses(t *testing.T) {
	cfg, err := config.Load(filepath.Join(examplesDir, "weapon_meta.example.yaml"))
	if err != nil {
		t.Fatalf("load example config: %v", err)
	}
	if len(cfg.Inputs) != 1 || cfg.Primary == "" || cfg.Compare == "" {
		t.Fatalf("unexpected example config: %+v", cfg)
	}
	if !cfg.Wants(config.FormatSQLite) || cfg.Wants(config.FormatSnapshot) {
		t.Fatalf("unexpected example formats: %v", cfg.Output.Formats)
	}
}

func TestExampleWeapons_Decode(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(examplesDir, "weapons.example.meta"))
	if err != nil {
		t.Fatalf("read example weapons: %v", err)
	}
	weapons, err := meta.Decode(b)
	if err != nil {
		t.Fatalf("decode example weapons: %v", err)
	}
	// The vehicle weapon is filtered out.
	if len(weapons) != 3 {
		t.Fatalf("expected 3 weapons, got %d", len(weapons))
	}
	cfg, err := config.Load(filepath.Join(examplesDir, "weapon_meta.example.yaml"))
	if err != nil {
		t.Fatalf("load example config: %v", err)
	}
	for _, name := range []string{cfg.Primary, cfg.Compare} {
		found := false
		for _, w := range weapons {
			if w.Name == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("example config selects %q which is not in the example weapons", name)
		}
	}
}
