package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cityproc/citygen/pkg/citygen"
	"github.com/cityproc/citygen/pkg/export"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/validation"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (required)")
	outputDir  = flag.String("output", "", "Output directory for generated files (default: config's outputDir)")
	format     = flag.String("format", "json", "Export format: json, svg, geojson, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	steps      = flag.Int("steps", 0, "Run only N GenerateStep calls instead of a full Generate (0 = run to completion)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("citygen version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "geojson": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, geojson, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// nolint:gocyclo // Complexity acceptable: CLI argument handling and output formatting
func run() error {
	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}

	cfg, err := citygen.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.SeedValue(), *seedFlag)
		}
		seed := *seedFlag
		cfg.Seed = &seed
	}

	dir := cfg.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}
	if dir == "" {
		dir = "."
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.SeedValue())
		fmt.Printf("Output directory: %s\n", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen, err := citygen.NewGenerator(*cfg)
	if err != nil {
		return fmt.Errorf("failed to construct generator: %w", err)
	}

	start := time.Now()
	if *steps > 0 {
		if *verbose {
			fmt.Printf("Running %d generation step(s)...\n", *steps)
		}
		for i := 0; i < *steps && !gen.IsGenerationComplete(); i++ {
			gen.GenerateStep()
		}
	} else {
		if *verbose {
			fmt.Println("Generating city...")
		}
		gen.Generate()
	}
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("Generation finished in %v\n", elapsed)
		printStats(gen)
	}

	validatorCfg := validation.Config{
		MergeDistance:            cfg.Road.MergeDistance,
		BuildingBuildingDistance: cfg.Building.BuildingBuildingDistance,
		RoadBuildingDistance:     cfg.Building.RoadBuildingDistance,
		ElementElementDistance:   cfg.Element.ElementElementDistance,
	}
	report := validation.NewValidator(validatorCfg).Validate(gen.Roads(), gen.Buildings(), gen.Elements(), gen.Graph())
	if *verbose {
		fmt.Printf("\nValidation: %s\n", validationStatus(report.Passed))
		if failed := report.FailedConstraints(); len(failed) > 0 {
			fmt.Printf("  Failed constraints: %d\n", len(failed))
		}
	}

	baseName := fmt.Sprintf("city_%d", cfg.SeedValue())

	if *format == "json" || *format == "all" {
		if err := exportJSON(gen, dir, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(gen, cfg.Quadtree.Bounds, cfg.SeedValue(), dir, baseName); err != nil {
			return err
		}
	}
	if *format == "geojson" || *format == "all" {
		if err := exportGeoJSON(gen, dir, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated city (seed=%d) in %v\n", cfg.SeedValue(), elapsed)
	return nil
}

func exportJSON(gen *citygen.Generator, dir, baseName string) error {
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", dir)
	}
	if err := export.SaveRoadsJSON(gen.Roads(), filepath.Join(dir, baseName+"_roads.json")); err != nil {
		return fmt.Errorf("failed to export roads JSON: %w", err)
	}
	if err := export.SaveBuildingsJSON(gen.Buildings(), filepath.Join(dir, baseName+"_buildings.json")); err != nil {
		return fmt.Errorf("failed to export buildings JSON: %w", err)
	}
	if err := export.SaveElementsJSON(gen.Elements(), filepath.Join(dir, baseName+"_elements.json")); err != nil {
		return fmt.Errorf("failed to export elements JSON: %w", err)
	}
	if err := export.SaveRoutesJSON(gen.Routes(), filepath.Join(dir, baseName+"_routes.json")); err != nil {
		return fmt.Errorf("failed to export routes JSON: %w", err)
	}
	if err := export.SaveWorldJSON(gen.Buildings(), gen.Elements(), filepath.Join(dir, baseName+"_world.json")); err != nil {
		return fmt.Errorf("failed to export world JSON: %w", err)
	}
	return nil
}

func exportSVG(gen *citygen.Generator, worldBounds geom.Bounds, seed uint64, dir, baseName string) error {
	filename := filepath.Join(dir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("City (seed=%d)", seed)
	if err := export.SaveSVGToFile(gen.Roads(), gen.Buildings(), gen.Elements(), worldBounds, opts, filename); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	return nil
}

func exportGeoJSON(gen *citygen.Generator, dir, baseName string) error {
	filename := filepath.Join(dir, baseName+".geojson")
	if *verbose {
		fmt.Printf("Exporting GeoJSON to %s\n", filename)
	}
	if err := export.SaveGeoJSON(gen.Roads(), gen.Buildings(), gen.Elements(), filename); err != nil {
		return fmt.Errorf("failed to export GeoJSON: %w", err)
	}
	return nil
}

func printStats(gen *citygen.Generator) {
	fmt.Println("\nCity Statistics:")
	fmt.Printf("  Roads: %d\n", gen.Roads().Len())
	fmt.Printf("  Buildings: %d\n", len(gen.Buildings().All()))
	fmt.Printf("  Elements: %d\n", len(gen.Elements().All()))
	fmt.Printf("  Routes: %d\n", len(gen.Routes().All()))
	fmt.Printf("  Intersections: %d\n", len(gen.Intersections()))
	if g := gen.Graph(); g != nil {
		fmt.Printf("  Graph nodes: %d\n", len(g.Nodes))
	}
}

func validationStatus(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: citygen -config <config.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'citygen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("citygen version %s\n\n", version)
	fmt.Println("A command-line tool for procedural city generation.")
	fmt.Println("\nUsage:")
	fmt.Println("  citygen -config <config.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: config's outputDir)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, geojson, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -steps int")
	fmt.Println("        Run only N GenerateStep calls instead of a full Generate (0 = run to completion)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate a city with default JSON export")
	fmt.Println("  citygen -config city.yaml")
	fmt.Println("\n  # Generate with a custom seed and every export format")
	fmt.Println("  citygen -config city.yaml -seed 12345 -format all -output ./out")
	fmt.Println("\n  # Inspect the first 50 road proposals only")
	fmt.Println("  citygen -config city.yaml -steps 50 -verbose")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies generation parameters including:")
	fmt.Println("  - seed (for deterministic generation)")
	fmt.Println("  - quadtree bounds and spatial index tuning")
	fmt.Println("  - road, building, element, route, and sidewalk tuning")
	fmt.Println("\n  See the yaml tags in pkg/citygen/config.go for the full configuration key reference.")
}
