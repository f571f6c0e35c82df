package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"log/slog"

	"github.com/petrarca/repo-scanner/internal/codestats"
	"github.com/petrarca/repo-scanner/internal/config"
	"github.com/petrarca/repo-scanner/internal/gitinfo"
	"github.com/petrarca/repo-scanner/internal/patterns"
	"github.com/petrarca/repo-scanner/internal/progress"
	"github.com/petrarca/repo-scanner/internal/provider"
	"github.com/petrarca/repo-scanner/internal/scanner"
	"github.com/petrarca/repo-scanner/internal/scanstore"
	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/spf13/cobra"
)

var (
	settings *config.Settings

	scanSave         bool
	scanRescan       string
	scanUseGitignore bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a repository tree and report per-file records",
	Long: `Scan walks a repository directory and emits one record per discovered
entry: classification, code metadata for recognized source files, line
statistics, and structural patterns (entry points, build manifests).

Examples:
  repo-scanner scan /path/to/project
  repo-scanner scan --exclude "node_modules/**" --exclude ".git/**" .
  repo-scanner scan --include "**/*.py" --max-depth 10 /path/to/project
  repo-scanner scan --save /path/to/project
  repo-scanner scan --save --rescan 7d07868a-6fb8-4135-a618-1cb365922fb8 .`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Initialize settings with defaults and environment variables
	settings = config.LoadSettings()

	logLevel := settings.LogLevel.String()
	logFormat := settings.LogFormat
	logFile := settings.LogFile

	scanCmd.Flags().StringVarP(&settings.OutputFile, "output", "o", settings.OutputFile, "Output file path (default: stdout)")
	scanCmd.Flags().StringVarP(&settings.OutputFormat, "format", "f", settings.OutputFormat, "Output format: json, yaml, or text")
	scanCmd.Flags().BoolVar(&settings.PrettyPrint, "pretty", settings.PrettyPrint, "Pretty print JSON output")
	scanCmd.Flags().BoolVarP(&settings.Verbose, "verbose", "v", settings.Verbose, "Show traversal progress")
	scanCmd.Flags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug logging")

	scanCmd.Flags().StringSliceVar(&settings.IncludePatterns, "include", settings.IncludePatterns, "Glob patterns a file must match to be recorded (can be specified multiple times)")
	scanCmd.Flags().StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Glob patterns to exclude (can be specified multiple times)")
	scanCmd.Flags().IntVar(&settings.MaxDepth, "max-depth", settings.MaxDepth, "Maximum traversal depth (0 = default)")
	scanCmd.Flags().IntVar(&settings.Concurrency, "concurrency", settings.Concurrency, "Number of concurrent directory workers (0 = default)")
	scanCmd.Flags().Int64Var(&settings.MaxFileSize, "max-file-size", settings.MaxFileSize, "Largest file size in bytes read for metadata extraction (0 = default)")
	scanCmd.Flags().BoolVar(&settings.FollowSymlinks, "follow-symlinks", settings.FollowSymlinks, "Follow symbolic links (cycle-safe)")
	scanCmd.Flags().BoolVar(&settings.NoLineStats, "no-line-stats", settings.NoLineStats, "Disable line statistics (lines of code, comments, blanks, complexity)")
	scanCmd.Flags().BoolVar(&settings.NoGit, "no-git", settings.NoGit, "Skip git metadata detection")

	scanCmd.Flags().BoolVar(&scanUseGitignore, "use-gitignore", false, "Exclude paths ignored by the repository's .gitignore")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Persist the scan result as a versioned snapshot")
	scanCmd.Flags().StringVar(&scanRescan, "rescan", "", "Existing scan id to save under (increments its version)")

	// Logging flags - use defaults from environment variables
	scanCmd.Flags().String("log-level", logLevel, "Log level: debug, info, warn, error")
	scanCmd.Flags().String("log-format", logFormat, "Log format: text or json")
	scanCmd.Flags().String("log-file", logFile, "Log file path (default: stderr)")
}

// configureLogging sets up logging based on command flags
func configureLogging(cmd *cobra.Command) *slog.Logger {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")

	if level, err := config.ParseLogLevel(logLevel); err == nil {
		settings.LogLevel = level
	}
	if settings.Debug {
		settings.LogLevel = slog.LevelDebug
	}
	settings.LogFormat = logFormat
	settings.LogFile = logFile

	return settings.ConfigureLogger()
}

// resolveScanPath resolves and validates the scan root from args
func resolveScanPath(args []string, logger *slog.Logger) string {
	path := "."
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Error("Invalid path", "error", err)
		os.Exit(1)
	}

	fileInfo, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		logger.Error("Path does not exist", "path", absPath)
		os.Exit(1)
	}
	if err == nil && !fileInfo.IsDir() {
		logger.Error("Scan root must be a directory", "path", absPath)
		os.Exit(1)
	}
	return absPath
}

func runScan(cmd *cobra.Command, args []string) {
	logger := configureLogging(cmd)
	absPath := resolveScanPath(args, logger)

	// Handle special case: -o - means stdout
	if settings.OutputFile == "-" {
		settings.OutputFile = ""
	}

	if err := settings.Validate(); err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(1)
	}

	projectConfig, err := config.LoadConfig(absPath)
	if err != nil {
		logger.Error("Failed to load project config", "error", err)
		os.Exit(1)
	}
	opts := config.BuildOptions(settings, projectConfig)

	if scanUseGitignore {
		ignored, err := gitinfo.IgnorePatterns(absPath)
		if err != nil {
			logger.Warn("Failed to load gitignore patterns", "error", err)
		} else if len(ignored) > 0 {
			logger.Debug("Applying gitignore excludes", "count", len(ignored))
			opts.Exclude = append(opts.Exclude, ignored...)
		}
	}

	fmt.Fprintf(os.Stderr, "Scanning: %s\n", absPath)

	logger.Debug("Initializing scan",
		"path", absPath,
		"include", opts.Include,
		"exclude", opts.Exclude,
		"max_depth", opts.MaxDepth,
		"concurrency", opts.Concurrency)

	// Ctrl-C cancels the traversal; a cancelled scan produces no output
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prog *progress.Progress
	if settings.Verbose {
		prog = progress.New(true, progress.NewSimpleHandler(os.Stderr))
	}

	engine := scanner.NewEngine(
		provider.NewFSProvider(absPath),
		codestats.NewAnalyzer(opts.CollectLineStats),
		prog,
		logger,
	)

	files, err := engine.Scan(ctx, opts)
	if err != nil {
		logger.Error("Scan failed", "error", err)
		os.Exit(1)
	}

	summary := patterns.New().Detect(files)
	patterns.EnrichGoManifests(&summary, func(relPath string) ([]byte, error) {
		return os.ReadFile(filepath.Join(absPath, filepath.FromSlash(relPath)))
	})

	var git *types.GitInfo
	if !settings.NoGit {
		git = gitinfo.ForPath(absPath)
	}

	result := &ScanResult{
		RepoPath:   absPath,
		Options:    opts,
		TotalFiles: countFiles(files),
		Git:        git,
		Patterns:   summary,
		Files:      files,
	}

	if scanSave || scanRescan != "" {
		result.ScanID, result.Version = persistScan(ctx, logger, absPath, opts, files, git)
	}

	if normalizeFormat(settings.OutputFormat) == "json" && !settings.PrettyPrint {
		writeCompactJSON(result, settings.OutputFile, logger)
		return
	}
	OutputToFile(result, settings.OutputFormat, settings.OutputFile)
}

// persistScan saves the snapshot and returns its identity. Any failure is
// fatal: a requested save that silently didn't happen is worse than a
// failed scan.
func persistScan(ctx context.Context, logger *slog.Logger, repoPath string, opts types.TraversalOptions, files []types.TraversedFile, git *types.GitInfo) (string, int64) {
	service, err := openScanService(ctx, logger)
	if err != nil {
		logger.Error("Failed to open scan store", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	scanID, err := service.SaveScanResultWithGit(ctx, repoPath, opts, files, scanRescan, git)
	if err != nil {
		logger.Error("Failed to save scan result", "error", err)
		os.Exit(1)
	}

	scan, err := service.GetScanResult(ctx, scanID)
	if err != nil {
		logger.Error("Failed to read back scan result", "error", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Saved scan %s (version %d)\n", scanID, scan.Version)
	return scanID, scan.Version
}

// openScanService connects to the configured store. Without a DSN there
// is nothing durable to save to, so saving requires one.
func openScanService(ctx context.Context, logger *slog.Logger) (*scanstore.Service, error) {
	if settings.StoreDSN == "" {
		return nil, fmt.Errorf("no store configured: set REPO_SCANNER_DB_DSN to save scans")
	}
	store, err := scanstore.NewPostgresStore(ctx, settings.StoreDSN)
	if err != nil {
		return nil, err
	}
	return scanstore.NewService(store, logger)
}

func writeCompactJSON(result *ScanResult, outputFile string, logger *slog.Logger) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.Error("Failed to marshal JSON", "error", err)
		os.Exit(1)
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			logger.Error("Failed to write output file", "error", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", outputFile)
		return
	}
	fmt.Println(string(data))
}

func countFiles(files []types.TraversedFile) int {
	n := 0
	for i := range files {
		if files[i].IsFile {
			n++
		}
	}
	return n
}

// ScanResult is the output of the scan command
type ScanResult struct {
	ScanID     string                 `json:"scan_id,omitempty" yaml:"scan_id,omitempty"`
	Version    int64                  `json:"version,omitempty" yaml:"version,omitempty"`
	RepoPath   string                 `json:"repo_path" yaml:"repo_path"`
	Options    types.TraversalOptions `json:"scan_options" yaml:"scan_options"`
	TotalFiles int                    `json:"total_files" yaml:"total_files"`
	Git        *types.GitInfo         `json:"git,omitempty" yaml:"git,omitempty"`
	Patterns   types.PatternSummary   `json:"patterns" yaml:"patterns"`
	Files      []types.TraversedFile  `json:"files" yaml:"files"`
}

func (r *ScanResult) ToJSON() interface{} {
	return r
}

func (r *ScanResult) ToText(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", styled(headingStyle, "Repository:"), r.RepoPath)
	if r.Git != nil {
		dirty := ""
		if r.Git.IsDirty {
			dirty = " (dirty)"
		}
		fmt.Fprintf(w, "%s %s @ %s%s\n", styled(headingStyle, "Git:"), r.Git.Branch, r.Git.Commit, dirty)
	}
	if r.ScanID != "" {
		fmt.Fprintf(w, "%s %s (version %d)\n", styled(headingStyle, "Scan:"), r.ScanID, r.Version)
	}
	fmt.Fprintln(w)

	for _, f := range r.Files {
		marker := " "
		switch {
		case f.IsDirectory:
			marker = "d"
		case f.IsSymlink:
			marker = "l"
		}
		line := fmt.Sprintf("%s %s", marker, f.RelativePath)
		if f.FileType != "" {
			line += styled(dimStyle, fmt.Sprintf("  [%s/%s]", f.FileType, f.Category))
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n%s %d files, %d entry points, %d manifests\n",
		styled(headingStyle, "Total:"), r.TotalFiles, len(r.Patterns.EntryPoints), len(r.Patterns.Manifests))
	for _, ep := range r.Patterns.EntryPoints {
		fmt.Fprintf(w, "  entry point: %s\n", ep)
	}
	for _, m := range r.Patterns.Manifests {
		if m.Module != "" {
			fmt.Fprintf(w, "  manifest: %s (%s, %s)\n", m.RelativePath, m.Kind, m.Module)
		} else {
			fmt.Fprintf(w, "  manifest: %s (%s)\n", m.RelativePath, m.Kind)
		}
	}
}
