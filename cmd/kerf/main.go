// Command kerf compiles a job script into G-code.
//
//	kerf -job part.kerf [-config presets.yaml] [-o out.nc] [-stl out.stl] [-v]
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/logging"
)

func main() {
	jobPath := flag.String("job", "", "job script to compile")
	configPath := flag.String("config", "", "YAML tool and machine presets (default: built-in)")
	outPath := flag.String("o", "", "G-code output file (default: stdout)")
	stlPath := flag.String("stl", "", "write a carved stock preview to this STL file")
	cells := flag.Int("cells", sdfx.DefaultMeshCells, "preview mesh resolution")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *jobPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("kerf: %v", err)
		}
	}

	source, err := os.ReadFile(*jobPath)
	if err != nil {
		log.Fatalf("kerf: %v", err)
	}

	app, err := NewApp(cfg, sdfx.New(sdfx.WithMeshCells(*cells)))
	if err != nil {
		log.Fatalf("kerf: %v", err)
	}
	result := app.Compile(string(source), *stlPath != "")
	for _, w := range result.Warnings {
		logging.Logger().Warn(w.Message, "node", w.Node)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logging.Logger().Error(e.Message, "file", *jobPath, "line", e.Line)
		}
		log.Fatalf("kerf: %s: %d error(s)", *jobPath, len(result.Errors))
	}

	if *outPath == "" {
		if _, err := os.Stdout.WriteString(result.Gcode); err != nil {
			log.Fatalf("kerf: %v", err)
		}
	} else if err := os.WriteFile(*outPath, []byte(result.Gcode), 0o644); err != nil {
		log.Fatalf("kerf: %v", err)
	}

	if result.Preview != nil {
		if err := sdfx.SaveSTL(*stlPath, result.Preview); err != nil {
			log.Fatalf("kerf: %v", err)
		}
		logging.Logger().Info("preview written", "path", *stlPath, "triangles", result.Preview.TriangleCount())
	}
}
