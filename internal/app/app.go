package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aurceive/weaponmeta/internal/config"
	"github.com/aurceive/weaponmeta/internal/logging"
	"github.com/aurceive/weaponmeta/internal/output"
	"github.com/aurceive/weaponmeta/internal/server"
	"github.com/aurceive/weaponmeta/internal/state"
	"github.com/aurceive/weaponmeta/internal/workspace"

	"go.uber.org/zap"
)

type Options struct {
	UseExamples bool
	// Serve keeps the workspace open for WebSocket clients instead of
	// exporting and exiting.
	Serve bool
	// ConfigPath overrides the config file; its directory becomes the app root.
	ConfigPath string
	// Stdout receives the comparison table. Defaults to os.Stdout.
	Stdout io.Writer
}

// Run loads the configured weapons, prints the comparison and writes the
// enabled outputs. It returns the desired process exit code.
func Run() int {
	return RunWithOptions(Options{})
}

// RunWithOptions is Run with explicit options.
func RunWithOptions(opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	var appRoot string
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		opts.ConfigPath = abs
		appRoot = filepath.Dir(abs)
	} else {
		root, err := FindRoot()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		appRoot = root
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appRoot, opts); err != nil {
		if ee, ok := asExitError(err); ok {
			if ee.Err != nil && ee.Code != 0 {
				fmt.Fprintln(os.Stderr, ee.Err)
			}
			return ee.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func run(ctx context.Context, appRoot string, opts Options) error {
	cfgPath := configPath(appRoot, opts)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Debug("config loaded", zap.String("path", cfgPath), zap.String("root", appRoot))

	ws := workspace.New(log)
	defer ws.Close()
	if err := prepareWorkspace(appRoot, cfg, ws, log); err != nil {
		return err
	}

	if opts.Serve {
		return serve(ctx, appRoot, cfg, ws, log)
	}

	report := ws.Report()
	output.PrintComparison(opts.Stdout, report)

	return writeOutputs(ctx, appRoot, cfg, ws, log, opts.Stdout)
}

// prepareWorkspace fills ws from the snapshot or the configured inputs and
// applies selection, edits and environment from cfg.
func prepareWorkspace(appRoot string, cfg config.Config, ws *workspace.Workspace, log *zap.Logger) error {
	if len(cfg.Inputs) == 0 {
		if cfg.Wants(config.FormatSnapshot) {
			snapPath := config.ResolvePath(appRoot, cfg.Output.Snapshot)
			snap, ok, err := state.Load(snapPath)
			if err != nil {
				return fmt.Errorf("restore session: %w", err)
			}
			if ok {
				ws.Restore(snap)
			}
		}
	} else {
		files := make([]workspace.File, 0, len(cfg.Inputs))
		var readErrs []error
		for _, in := range cfg.Inputs {
			p := config.ResolvePath(appRoot, in)
			b, err := os.ReadFile(p)
			if err != nil {
				log.Warn("skipping input", zap.String("file", p), zap.Error(err))
				readErrs = append(readErrs, err)
				continue
			}
			files = append(files, workspace.File{Name: filepath.Base(p), Content: b})
		}
		for _, r := range ws.Load(files...) {
			if r.Err != nil {
				readErrs = append(readErrs, r.Err)
			}
		}
		if ws.Len() == 0 && len(readErrs) > 0 {
			return ExitWithError(2, fmt.Errorf("no weapons loaded: %w", errors.Join(readErrs...)))
		}
	}

	if cfg.Primary != "" {
		if err := ws.Select(workspace.SlotPrimary, cfg.Primary); err != nil {
			return fmt.Errorf("primary: %w", err)
		}
	}
	if cfg.Compare != "" {
		if err := ws.Select(workspace.SlotCompare, cfg.Compare); err != nil {
			return fmt.Errorf("compare: %w", err)
		}
	}

	edits := make([]workspace.EditRequest, 0, len(cfg.Edits))
	for _, e := range cfg.Edits {
		edits = append(edits, workspace.EditRequest{Weapon: e.Weapon, Field: e.Field, Value: e.Value})
	}
	if cfg.EditsTable != "" {
		tableEdits, err := output.ImportWeaponsXLSX(config.ResolvePath(appRoot, cfg.EditsTable))
		if err != nil {
			return fmt.Errorf("edits_table: %w", err)
		}
		edits = append(edits, tableEdits...)
	}
	// Rejected edits leave the field unchanged; they are reported, not fatal.
	if err := ws.ApplyEdits(edits); err != nil {
		log.Warn("some edits were discarded", zap.Error(err))
	}

	ws.SetTargetHealth(*cfg.Environment.TargetHealth)
	ws.SetTargetArmor(*cfg.Environment.TargetArmor)
	ws.SetChartStep(cfg.Chart.Step)
	return nil
}

func writeOutputs(ctx context.Context, appRoot string, cfg config.Config, ws *workspace.Workspace, log *zap.Logger, out io.Writer) error {
	outDir, err := ensureOutputDir(appRoot, cfg)
	if err != nil {
		return err
	}
	records := ws.Records()

	if cfg.Wants(config.FormatMeta) {
		b, name, err := ws.Save()
		switch {
		case errors.Is(err, workspace.ErrNothingToSave):
			fmt.Fprintln(out, "No data to save")
		case err != nil:
			return err
		default:
			p := filepath.Join(outDir, name)
			if err := writeFileAtomic(p, b); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			fmt.Fprintln(out, "Saved weapons to", p)
		}
	}

	if cfg.Wants(config.FormatXLSX) {
		p := filepath.Join(outDir, reportFileName(time.Now()))
		if err := output.ExportReportXLSX(p, records, ws.Report()); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		fmt.Fprintln(out, "Exported report to", p)
	}

	if cfg.Wants(config.FormatSQLite) {
		p := filepath.Join(outDir, "weapon_meta.sqlite")
		if err := output.ExportSQLite(ctx, p, records, ws.Environment()); err != nil {
			return fmt.Errorf("export sqlite: %w", err)
		}
		fmt.Fprintln(out, "Exported catalog to", p)
	}

	if cfg.Wants(config.FormatSnapshot) {
		if err := saveSnapshot(appRoot, cfg, ws, log); err != nil {
			return err
		}
	}
	return nil
}

func saveSnapshot(appRoot string, cfg config.Config, ws *workspace.Workspace, log *zap.Logger) error {
	p := config.ResolvePath(appRoot, cfg.Output.Snapshot)
	snap := ws.Snapshot()
	if err := state.Save(p, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	log.Info("session saved", zap.String("path", p), zap.String("id", snap.ID))
	return nil
}

// serve hands the workspace to the WebSocket server until ctx is cancelled,
// then snapshots the final session when enabled.
func serve(ctx context.Context, appRoot string, cfg config.Config, ws *workspace.Workspace, log *zap.Logger) error {
	hub := server.NewHub(ws, log)
	if err := server.ListenAndServe(ctx, cfg.Serve.Addr, hub); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	// Clients may still be draining; take the hub lock for the final write.
	var err error
	hub.Do(func(ws *workspace.Workspace) {
		if cfg.Wants(config.FormatSnapshot) {
			err = saveSnapshot(appRoot, cfg, ws, log)
		}
		ws.Close()
	})
	return err
}
