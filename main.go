// Command urdfgen generates URDF robot descriptions from structured
// configuration files, validates configurations and existing documents,
// and serves the interactive editor.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/robodesc/urdfgen/internal/api"
	"github.com/robodesc/urdfgen/internal/pipeline"
	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/store"
	"github.com/robodesc/urdfgen/internal/urdf"
	"github.com/robodesc/urdfgen/internal/version"
	"github.com/robodesc/urdfgen/internal/wizard"
)

//go:embed static/*
var staticFiles embed.FS

const defaultDBFile = "urdfgen.db"

const usageText = `usage: urdfgen <command> [flags]

commands:
  generate   generate a robot description from a config file
  validate   validate a config file or an existing URDF document
  wizard     build a config interactively, then generate
  serve      run the editor web service
  migrate    manage the session store schema (up|down|status)
  version    print build information
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "generate":
		runGenerate(args)
	case "validate":
		runValidate(args)
	case "wizard":
		runWizard(args)
	case "serve":
		runServe(args)
	case "migrate":
		runMigrate(args)
	case "version":
		fmt.Println("urdfgen " + version.String())
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
	}
}

// printIssues writes a validation report to stderr, one line per issue.
func printIssues(issues []report.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
}

// loadOrDefault reads a config file when path is set, otherwise returns
// the reference configuration.
func loadOrDefault(path string) (robot.Config, error) {
	if path == "" {
		return robot.Default(), nil
	}
	return robot.Load(path)
}

// emit runs one generation pass and writes the document. It returns the
// process exit code: 0 on success (warnings allowed), 1 when the config
// is rejected.
func emit(cfg robot.Config, outputPath, saveConfigPath string) int {
	res, err := pipeline.Generate(cfg)
	if err != nil {
		log.Printf("generation aborted: %v", err)
		return 1
	}
	if res.HasErrors() {
		fmt.Fprintln(os.Stderr, "configuration rejected:")
		printIssues(res.Issues)
		return 1
	}
	if len(res.Issues) > 0 {
		fmt.Fprintln(os.Stderr, "configuration warnings:")
		printIssues(res.Issues)
	}

	if saveConfigPath != "" {
		if err := robot.Save(cfg, saveConfigPath); err != nil {
			log.Printf("failed to save config: %v", err)
			return 1
		}
		log.Printf("configuration saved to %s", saveConfigPath)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(res.Document), 0644); err != nil {
			log.Printf("failed to write document: %v", err)
			return 1
		}
		log.Printf("robot description saved to %s", outputPath)
	} else {
		fmt.Print(res.Document)
	}
	return 0
}

func runGenerate(args []string) {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := flags.String("config", "", "Robot configuration file (.json, .yaml); defaults when empty")
	outputPath := flags.String("output", "", "Output document path (stdout when empty)")
	saveConfig := flags.String("save-config", "", "Also write the active configuration to this JSON file")
	flags.Parse(args)

	cfg, err := loadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	os.Exit(emit(cfg, *outputPath, *saveConfig))
}

func runValidate(args []string) {
	flags := flag.NewFlagSet("validate", flag.ExitOnError)
	flags.Parse(args)
	if flags.NArg() != 1 {
		log.Fatal("validate requires exactly one file argument")
	}
	path := flags.Arg(0)

	var issues []report.Issue
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".urdf", ".xacro", ".xml":
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read document: %v", err)
		}
		issues = urdf.Inspect(content)
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read config: %v", err)
		}
		cfg, err := decodeByExt(data, ext)
		if err != nil {
			log.Fatalf("failed to decode config: %v", err)
		}
		issues = pipeline.Validate(cfg)
	default:
		log.Fatalf("unsupported file extension %q", ext)
	}

	if len(issues) == 0 {
		fmt.Println("valid, no issues found")
		return
	}
	printIssues(issues)
	if report.HasErrors(issues) {
		os.Exit(1)
	}
}

func decodeByExt(data []byte, ext string) (robot.Config, error) {
	if ext == ".json" {
		return robot.Decode(data)
	}
	return robot.DecodeYAML(data)
}

func runWizard(args []string) {
	flags := flag.NewFlagSet("wizard", flag.ExitOnError)
	outputPath := flags.String("output", "", "Output document path (stdout when empty)")
	saveConfig := flags.String("save-config", "", "Also write the chosen configuration to this JSON file")
	flags.Parse(args)

	cfg, err := wizard.Run(os.Stdin, os.Stdout, robot.Default())
	if err != nil {
		log.Fatalf("wizard aborted: %v", err)
	}
	os.Exit(emit(cfg, *outputPath, *saveConfig))
}

func runServe(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := flags.String("listen", ":8080", "Listen address")
	devMode := flags.Bool("dev", false, "Serve static assets from ./static instead of the embedded copy")
	dbPath := flags.String("db", defaultDBFile, "Session store path")
	flags.Parse(args)

	if *listen == "" {
		log.Fatal("listen address is required")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	apiMux := api.NewServer(st).ServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	// Embedded assets in production; ./static in dev for iteration
	// without restarting the server.
	var staticHandler http.Handler
	if *devMode {
		staticHandler = http.FileServer(http.Dir("./static"))
	} else {
		sub, err := fs.Sub(staticFiles, "static")
		if err != nil {
			log.Fatalf("failed to mount embedded assets: %v", err)
		}
		staticHandler = http.FileServer(http.FS(sub))
	}
	mux.Handle("/", staticHandler)

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("urdfgen %s: editor listening on %s", version.String(), *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Print("graceful shutdown complete")
}

func runMigrate(args []string) {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := flags.String("db", defaultDBFile, "Session store path")
	migrationsDir := flags.String("migrations", "internal/store/migrations", "Migrations directory")
	flags.Parse(args)
	if flags.NArg() != 1 {
		log.Fatal("migrate requires a direction: up, down or status")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer st.Close()

	switch flags.Arg(0) {
	case "up":
		if err := st.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("migrate up failed: %v", err)
		}
		log.Print("migrations applied")
	case "down":
		if err := st.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("migrate down failed: %v", err)
		}
		log.Print("rolled back one migration")
	case "status":
		version, dirty, err := st.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("migrate status failed: %v", err)
		}
		log.Printf("schema version %d (dirty=%v)", version, dirty)
	default:
		log.Fatalf("unknown migrate direction %q", flags.Arg(0))
	}
}
