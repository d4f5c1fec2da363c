package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/storage/db"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past installs",
	Long: `List modpacks installed with mrunpack, newest first.

Examples:
  mrunpack history
  mrunpack history --limit 5
  mrunpack history --json
  mrunpack history show 3`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one install with the files it placed",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of installs to show (0 for all)")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output in JSON format")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is the JSON shape of a ledger record
type historyEntry struct {
	ID          int64     `json:"id"`
	Pack        string    `json:"pack"`
	Version     string    `json:"version"`
	Modloader   string    `json:"modloader"`
	VersionID   string    `json:"version_id"`
	InstanceDir string    `json:"instance_dir"`
	ProfileID   string    `json:"profile_id,omitempty"`
	Status      string    `json:"status"`
	Warnings    []string  `json:"warnings,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
	Package     string    `json:"package,omitempty"`
	Files       []string  `json:"files,omitempty"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	service, err := initService(core.NeverConfirm)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	records, err := service.History(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		entries := make([]historyEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, toHistoryEntry(r))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No installs yet.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(out, "%s %s %s  %s\n", colorDim(fmt.Sprintf("#%d", r.ID)), r.PackName, r.PackVersion, statusLabel(r.Status))
		fmt.Fprintf(out, "    %s, %s\n", r.VersionID, humanize.Time(r.InstalledAt))
		fmt.Fprintf(out, "    %s\n", r.InstanceDir)
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "    %s %s\n", colorYellow("⚠"), w)
		}
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid install id %q", args[0])
	}

	service, err := initService(core.NeverConfirm)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	r, err := service.GetInstall(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		entry := toHistoryEntry(*r)
		entry.Package = r.PackagePath
		entry.Files = r.Files
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	fmt.Fprintf(out, "%s %s  %s\n", r.PackName, r.PackVersion, statusLabel(r.Status))
	fmt.Fprintf(out, "  Package:   %s\n", r.PackagePath)
	fmt.Fprintf(out, "  Instance:  %s\n", r.InstanceDir)
	fmt.Fprintf(out, "  Launcher:  %s\n", r.LauncherRoot)
	fmt.Fprintf(out, "  Version:   %s\n", r.VersionID)
	if r.ProfileID != "" {
		fmt.Fprintf(out, "  Profile:   %s\n", r.ProfileID)
	}
	fmt.Fprintf(out, "  Installed: %s\n", r.InstalledAt.Local().Format(time.DateTime))
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "  %s %s\n", colorYellow("⚠"), w)
	}
	fmt.Fprintf(out, "  Files (%d):\n", len(r.Files))
	for _, f := range r.Files {
		fmt.Fprintf(out, "    %s\n", f)
	}
	return nil
}

func toHistoryEntry(r db.InstallRecord) historyEntry {
	loader := r.LoaderKind
	if r.LoaderVersion != "" {
		loader += " " + r.LoaderVersion
	}
	return historyEntry{
		ID:          r.ID,
		Pack:        r.PackName,
		Version:     r.PackVersion,
		Modloader:   loader,
		VersionID:   r.VersionID,
		InstanceDir: r.InstanceDir,
		ProfileID:   r.ProfileID,
		Status:      r.Status,
		Warnings:    r.Warnings,
		InstalledAt: r.InstalledAt,
	}
}

func statusLabel(status string) string {
	switch status {
	case db.StatusInstalled:
		return colorGreen(status)
	case db.StatusPartial:
		return colorYellow(status)
	default:
		return colorDim(status)
	}
}
