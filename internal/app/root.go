package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aurceive/weaponmeta/internal/config"
)

// FindRoot walks up from the working directory to the first directory that
// holds weapon_meta.yaml.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRootFrom(cwd)
}

func findRootFrom(start string) (string, error) {
	// Support running from repo root or from cmd/*.
	dir := start
	for i := 0; i < 10; i++ {
		candidate := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("cannot find app root from %q (expected to find %s in this dir or any parent)", start, config.FileName)
}

// configPath picks the config file for opts. An explicit path wins; examples
// live under input/weapon_meta/examples.
func configPath(appRoot string, opts Options) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	if opts.UseExamples {
		return filepath.Join(appRoot, "input", "weapon_meta", "examples", "weapon_meta.example.yaml")
	}
	return filepath.Join(appRoot, config.FileName)
}
