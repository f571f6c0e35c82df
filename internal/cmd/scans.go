package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/petrarca/repo-scanner/internal/scanstore"
	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/spf13/cobra"
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Manage stored scan snapshots",
	Long:  `List, fetch, and delete versioned scan snapshots from the configured store.`,
}

var (
	scansListFormat string
	scansListOutput string
	scansListRepo   string
	scansListLimit  int
	scansListSkip   int

	scansGetFormat string
	scansGetOutput string
)

var scansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scans, newest first",
	Run:   runScansList,
}

var scansGetCmd = &cobra.Command{
	Use:   "get <scan-id>",
	Short: "Fetch one stored scan including its file records",
	Args:  cobra.ExactArgs(1),
	Run:   runScansGet,
}

var scansDeleteCmd = &cobra.Command{
	Use:   "delete <scan-id>",
	Short: "Delete a stored scan",
	Args:  cobra.ExactArgs(1),
	Run:   runScansDelete,
}

func init() {
	rootCmd.AddCommand(scansCmd)
	scansCmd.AddCommand(scansListCmd)
	scansCmd.AddCommand(scansGetCmd)
	scansCmd.AddCommand(scansDeleteCmd)

	setupOutputFlags(scansListCmd, &scansListFormat, &scansListOutput)
	scansListCmd.Flags().StringVar(&scansListRepo, "repo", "", "Only list scans of this repository path")
	scansListCmd.Flags().IntVar(&scansListLimit, "limit", scanstore.DefaultListLimit, "Maximum number of scans to return")
	scansListCmd.Flags().IntVar(&scansListSkip, "skip", 0, "Number of scans to skip")

	setupOutputFlags(scansGetCmd, &scansGetFormat, &scansGetOutput)
}

// ScansListResult is the output of the scans list command
type ScansListResult struct {
	Scans []types.RepositoryScanMetadata `json:"scans" yaml:"scans"`
}

func (r *ScansListResult) ToJSON() interface{} {
	return r
}

func (r *ScansListResult) ToText(w io.Writer) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Scan ID", "Repository", "Timestamp", "Files", "Version"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, scan := range r.Scans {
		table.Append([]string{
			scan.ScanID,
			scan.RepoPath,
			scan.ScanTimestamp.Format(time.RFC3339),
			fmt.Sprintf("%d", scan.TotalFiles),
			fmt.Sprintf("%d", scan.Version),
		})
	}
	table.Render()

	fmt.Fprint(w, buf.String())
	fmt.Fprintf(w, "\nTotal: %d scans\n", len(r.Scans))
}

func runScansList(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := settings.ConfigureLogger()

	service, err := openScanService(ctx, logger)
	if err != nil {
		logger.Error("Failed to open scan store", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	scans, err := service.ListScans(ctx, scansListRepo, scansListLimit, scansListSkip)
	if err != nil {
		logger.Error("Failed to list scans", "error", err)
		os.Exit(1)
	}

	OutputToFile(&ScansListResult{Scans: scans}, scansListFormat, scansListOutput)
}

// ScanGetResult is the output of the scans get command
type ScanGetResult struct {
	Scan *types.RepositoryScan `json:"scan" yaml:"scan"`
}

func (r *ScanGetResult) ToJSON() interface{} {
	return r.Scan
}

func (r *ScanGetResult) ToText(w io.Writer) {
	s := r.Scan
	fmt.Fprintf(w, "%s %s (version %d)\n", styled(headingStyle, "Scan:"), s.ScanID, s.Version)
	fmt.Fprintf(w, "%s %s\n", styled(headingStyle, "Repository:"), s.RepoPath)
	fmt.Fprintf(w, "%s %s\n", styled(headingStyle, "Timestamp:"), s.ScanTimestamp.Format(time.RFC3339))
	if s.Git != nil {
		fmt.Fprintf(w, "%s %s @ %s\n", styled(headingStyle, "Git:"), s.Git.Branch, s.Git.Commit)
	}
	fmt.Fprintf(w, "%s %d\n\n", styled(headingStyle, "Files:"), s.TotalFiles)

	for _, f := range s.Files {
		fmt.Fprintf(w, "  %s\n", f.RelativePath)
	}
}

func runScansGet(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := settings.ConfigureLogger()
	scanID := args[0]

	service, err := openScanService(ctx, logger)
	if err != nil {
		logger.Error("Failed to open scan store", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	scan, err := service.GetScanResult(ctx, scanID)
	if err != nil {
		if errors.Is(err, scanstore.ErrScanNotFound) {
			fmt.Fprintf(os.Stderr, "Scan not found: %s\n", scanID)
			os.Exit(1)
		}
		logger.Error("Failed to get scan", "error", err)
		os.Exit(1)
	}

	OutputToFile(&ScanGetResult{Scan: scan}, scansGetFormat, scansGetOutput)
}

func runScansDelete(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := settings.ConfigureLogger()
	scanID := args[0]

	service, err := openScanService(ctx, logger)
	if err != nil {
		logger.Error("Failed to open scan store", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	deleted, err := service.DeleteScanResult(ctx, scanID)
	if err != nil {
		logger.Error("Failed to delete scan", "error", err)
		os.Exit(1)
	}
	if !deleted {
		fmt.Fprintf(os.Stderr, "Scan not found: %s\n", scanID)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Deleted scan %s\n", scanID)
}
