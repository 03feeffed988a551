package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/ADJG6183/Form-Modernization/internal/config"
	"github.com/ADJG6183/Form-Modernization/internal/diagnostics"
	"github.com/ADJG6183/Form-Modernization/internal/fill"
	"github.com/ADJG6183/Form-Modernization/internal/portfolio"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Command-scoped flags; artifact directories and limits live in config.
var (
	flagBase    = pflag.String("base", "", "Path to the base document")
	flagSchema  = pflag.String("schema", "", "Path to the field schema JSON")
	flagSurface = pflag.String("surface", "", "Path to the surface document")
	flagValues  = pflag.String("values", "", "Path to the fill values JSON")
	flagOut     = pflag.String("out", "", "Output artifact path (optional)")
)

// setupLogging configures logging based on the configured level.
func setupLogging(cfg *config.Config) {
	log.SetFlags(log.LstdFlags)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	svc, err := portfolio.NewService(portfolio.Dirs{
		Upload:  cfg.UploadDir,
		Created: cfg.CreatedDir,
		Filled:  cfg.FilledDir,
	}, cfg.MaxFileSize, cfg.IsDebug())
	if err != nil {
		log.Fatalf("Failed to create portfolio service: %v", err)
	}

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "generate":
		err = runGenerate(svc)
	case "fill":
		err = runFill(svc)
	case "inspect":
		err = runInspect(svc)
	case "validate":
		err = runValidate(svc)
	case "selftest":
		err = runSelfTest(svc)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		pflag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
}

// runGenerate builds a surface document from a base document and a schema.
func runGenerate(svc *portfolio.Service) error {
	if *flagBase == "" || *flagSchema == "" {
		return fmt.Errorf("generate requires --base and --schema")
	}

	payload, err := os.ReadFile(*flagSchema)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	schema, err := svc.DecodeSchema(payload)
	if err != nil {
		return err
	}

	result, err := svc.CreateSurface(portfolio.SurfaceCreateRequest{
		BasePath:   *flagBase,
		Schema:     schema,
		OutputPath: *flagOut,
	})
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	fmt.Println(result.Path)
	return nil
}

// runFill writes values into a copy of a surface document.
func runFill(svc *portfolio.Service) error {
	if *flagSurface == "" || *flagValues == "" {
		return fmt.Errorf("fill requires --surface and --values")
	}

	payload, err := os.ReadFile(*flagValues)
	if err != nil {
		return fmt.Errorf("failed to read values: %w", err)
	}
	var values fill.Values
	if err := json.Unmarshal(payload, &values); err != nil {
		return fmt.Errorf("failed to parse values: %w", err)
	}

	result, err := svc.FillSurface(portfolio.SurfaceFillRequest{
		SurfacePath: *flagSurface,
		Values:      values,
		OutputPath:  *flagOut,
	})
	if err != nil {
		return err
	}
	fmt.Println(result.Path)
	return nil
}

// runInspect prints the structural snapshot of a document as JSON.
func runInspect(svc *portfolio.Service) error {
	path := *flagSurface
	if path == "" {
		path = *flagBase
	}
	if path == "" {
		return fmt.Errorf("inspect requires --surface or --base")
	}
	return printJSON(svc.ExtractMetadata(portfolio.MetadataRequest{Path: path}))
}

// runValidate checks a base document, or a full portfolio when a schema
// and surface are given alongside the base.
func runValidate(svc *portfolio.Service) error {
	if *flagBase == "" {
		return fmt.Errorf("validate requires --base")
	}

	if *flagSchema != "" && *flagSurface != "" {
		payload, err := os.ReadFile(*flagSchema)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		schema, err := svc.DecodeSchema(payload)
		if err != nil {
			return err
		}
		data := &diagnostics.PortfolioData{
			SurfaceFileID: 1,
			BaseFileID:    1,
			Name:          *flagBase,
			Fields:        schema,
		}
		return printJSON(svc.ValidatePortfolio(data, *flagBase, *flagSurface))
	}

	result, err := svc.ValidateBase(portfolio.ValidateBaseRequest{Path: *flagBase})
	if err != nil {
		return err
	}
	return printJSON(result)
}

// runSelfTest fills a surface document with synthesized values and reports
// timing and coverage.
func runSelfTest(svc *portfolio.Service) error {
	if *flagSurface == "" {
		return fmt.Errorf("selftest requires --surface")
	}
	return printJSON(svc.TestFormFilling(*flagSurface, nil))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("formsurface\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
