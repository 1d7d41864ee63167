// Command scout is the CLI entry point: a single- or whole-package malware-
// triage scan over Python source, reporting suspicious imports, calls,
// canary strings, and dynamic-import usage as annotated text or JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Syntox32/scout/internal/cache"
	"github.com/Syntox32/scout/internal/canary"
	"github.com/Syntox32/scout/internal/config"
	"github.com/Syntox32/scout/internal/debug"
	"github.com/Syntox32/scout/internal/driver"
	"github.com/Syntox32/scout/internal/report"
	"github.com/Syntox32/scout/internal/rules"
	"github.com/Syntox32/scout/internal/scouterrors"
)

func main() {
	app := &cli.App{
		Name:  "scout",
		Usage: "static malware-triage scanner for Python source trees",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "scan a single Python file"},
			&cli.StringFlag{Name: "package", Aliases: []string{"pkg"}, Usage: "scan every .py file under a directory"},
			&cli.Float64Flag{Name: "threshold", Usage: "global hotspot peak threshold a bulletin must clear to be shown", Value: 0},
			&cli.StringFlag{Name: "rules", Usage: "path to a TOML rule catalog (default: embedded catalog)"},
			&cli.StringFlag{Name: "canaries", Usage: "path to a YAML canary catalog (default: embedded catalog)"},
			&cli.StringFlag{Name: "config", Usage: "path to a JSONC config document"},
			&cli.StringFlag{Name: "config-json", Usage: "inline JSONC config document"},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of annotated text"},
			&cli.BoolFlag{Name: "all", Usage: "show every bulletin regardless of hotspot visibility"},
			&cli.BoolFlag{Name: "fields", Usage: "include per-channel density curves in JSON output (--file only)"},
			&cli.BoolFlag{Name: "no-cache", Usage: "disable the on-disk analysis cache for this run"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable ANSI color in text output"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging to stderr"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "scout: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a fatal top-level error to a process exit code: 2 for a
// non-recoverable ScanError (a config/rule-catalog load failure, or an
// internal error such as a report that fails to marshal), 1 for anything
// else (bad flags, an unreadable --file path).
func exitCodeFor(err error) int {
	if se, ok := err.(*scouterrors.ScanError); ok && !se.IsRecoverable() {
		return 2
	}
	return 1
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		debug.EnableDebug = "true"
	}
	if debug.Enabled() {
		debug.SetOutput(os.Stderr)
	}

	file := c.String("file")
	pkg := c.String("package")
	if file == "" && pkg == "" {
		return cli.ShowAppHelp(c)
	}
	if file != "" && pkg != "" {
		return fmt.Errorf("--file and --package are mutually exclusive")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ruleCatalog, err := loadRules(c)
	if err != nil {
		return err
	}

	canaryCatalog, err := loadCanaries(c)
	if err != nil {
		return err
	}

	d := driver.New(ruleCatalog, canaryCatalog, cfg.Weights())
	d.FeatureTFIDFImports = cfg.FeatureTFIDFImports
	d.FeatureTFIDFCalls = cfg.FeatureTFIDFCalls
	d.UseCache = cfg.UseCache && !c.Bool("no-cache")
	if d.UseCache {
		store, err := cacheStore()
		if err != nil {
			debug.Log("cmd", "disabling cache: %v", err)
			d.UseCache = false
		} else {
			d.Cache = store
		}
	}

	showAll := c.Bool("all")
	threshold := c.Float64("threshold")
	color := !c.Bool("no-color")
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		color = false
	}

	if file != "" {
		return runFile(d, file, showAll, threshold, c.Bool("json"), c.Bool("fields"), color)
	}
	return runPackage(d, pkg, showAll, threshold, c.Bool("json"), color)
}

func runFile(d *driver.Driver, path string, showAll bool, threshold float64, asJSON, fields, color bool) error {
	result, err := d.ScanFile(path)
	if err != nil {
		return err
	}
	result.Analysis.ShowAll = showAll
	result.Analysis.GlobalThreshold = threshold

	view := report.Build(result.Source, result.Analysis)

	if asJSON {
		doc := report.NewDocument(map[string]report.FileView{result.Source.Path: view}, nil)
		if fields {
			doc = doc.WithFields(result.Source, result.Analysis)
		}
		data, err := doc.MarshalIndent()
		if err != nil {
			return scouterrors.NewInternalError("marshal report", err)
		}
		fmt.Println(string(data))
		return nil
	}

	report.WriteText(os.Stdout, result.Source, view, color)
	return nil
}

func runPackage(d *driver.Driver, root string, showAll bool, threshold float64, asJSON, color bool) error {
	pkgReport, err := d.ScanPackage(context.Background(), root)
	if err != nil {
		return err
	}

	for _, w := range pkgReport.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	views := make(map[string]report.FileView, len(pkgReport.Files))
	for _, f := range pkgReport.Files {
		f.Analysis.ShowAll = showAll
		f.Analysis.GlobalThreshold = threshold
		views[f.Source.Path] = report.Build(f.Source, f.Analysis)
	}

	if asJSON {
		doc := report.NewDocument(views, pkgReport.Dependencies)
		data, err := doc.MarshalIndent()
		if err != nil {
			return scouterrors.NewInternalError("marshal report", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, f := range pkgReport.Files {
		report.WriteText(os.Stdout, f.Source, views[f.Source.Path], color)
	}
	return nil
}

// cacheStore opens the on-disk analysis cache under the user's standard
// cache directory, scoped to this tool so it never collides with another
// application's cache entries.
func cacheStore() (*cache.Store, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return cache.Open(filepath.Join(base, "scout"))
}

func loadConfig(c *cli.Context) (config.Config, error) {
	switch {
	case c.String("config-json") != "":
		return config.LoadJSON(c.String("config-json"))
	case c.String("config") != "":
		return config.LoadFile(c.String("config"))
	default:
		return config.Default(), nil
	}
}

func loadRules(c *cli.Context) (*rules.Catalog, error) {
	path := c.String("rules")
	if path == "" {
		return rules.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scouterrors.NewRuleLoadError(path, err)
	}
	cat, err := rules.Parse(data)
	if err != nil {
		return nil, scouterrors.NewRuleLoadError(path, err)
	}
	return cat, nil
}

func loadCanaries(c *cli.Context) (*canary.Catalog, error) {
	path := c.String("canaries")
	if path == "" {
		return canary.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scouterrors.NewRuleLoadError(path, err)
	}
	cat, err := canary.Parse(data)
	if err != nil {
		return nil, scouterrors.NewRuleLoadError(path, err)
	}
	return cat, nil
}
