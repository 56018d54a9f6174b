package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aurceive/weaponmeta/internal/config"
)

func ensureOutputDir(appRoot string, cfg config.Config) (string, error) {
	dir := config.ResolvePath(appRoot, cfg.Output.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return dir, nil
}

// reportFileName is the dated XLSX report name, e.g. 20260102_weapon_meta.xlsx.
func reportFileName(now time.Time) string {
	return now.Format("20060102") + "_weapon_meta.xlsx"
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Clean(path))
}
