package main

import (
	"flag"
	"os"

	"github.com/aurceive/weaponmeta/internal/app"
)

func main() {
	useExamples := flag.Bool("useExamples", false, "use the example config from input/weapon_meta/examples instead of weapon_meta.yaml")
	serve := flag.Bool("serve", false, "serve the workspace over WebSocket instead of exporting")
	configPath := flag.String("config", "", "path to a config file (its directory becomes the app root)")
	flag.Parse()
	os.Exit(app.RunWithOptions(app.Options{UseExamples: *useExamples, Serve: *serve, ConfigPath: *configPath}))
}
