package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/storage/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	installDryRun       bool
	installMinecraftDir string
	installProfileDir   string
	installProfileName  string
	installIcon         string
	installYes          bool
	installJobs         int
	installGetDefaults  bool
)

var installCmd = &cobra.Command{
	Use:   "install <pack.mrpack>",
	Short: "Install a modpack",
	Long: `Install a Modrinth modpack into the Minecraft launcher.

The pack is unpacked into a staging area, its mods are downloaded into a new
instance directory, the required modloader is installed and a launcher profile
pointing at the instance is created.

Examples:
  mrunpack install "Fabulously Optimized.mrpack"
  mrunpack install pack.mrpack --profile-name "Weekend" --icon Furnace
  mrunpack install pack.mrpack --minecraft-dir /mnt/games/.minecraft
  mrunpack install pack.mrpack --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installDryRun, "dry-run", "d", false, "only unpack and download into the work directory")
	installCmd.Flags().StringVar(&installMinecraftDir, "minecraft-dir", "", "path to the .minecraft directory (default: auto-detected)")
	installCmd.Flags().StringVar(&installProfileDir, "profile-dir", "", "instance directory (default: <minecraft-dir>/<profile-name>)")
	installCmd.Flags().StringVar(&installProfileName, "profile-name", "", "launcher profile name (default: name from the pack)")
	installCmd.Flags().StringVar(&installIcon, "icon", "", "launcher icon name or path to a PNG")
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "delete leftover directories without asking")
	installCmd.Flags().IntVarP(&installJobs, "jobs", "j", 0, "concurrent downloads (default: from config)")
	installCmd.Flags().BoolVar(&installGetDefaults, "get-defaults", false, "print the default options for the pack as JSON and exit")

	rootCmd.AddCommand(installCmd)
}

func installOptions(packagePath string) core.InstallOptions {
	return core.InstallOptions{
		PackagePath:  packagePath,
		LauncherRoot: installMinecraftDir,
		InstanceDir:  installProfileDir,
		ProfileName:  installProfileName,
		Icon:         installIcon,
		DryRun:       installDryRun,
		Jobs:         installJobs,
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	opts := installOptions(args[0])
	if installGetDefaults {
		return printDefaults(cmd, opts)
	}

	service, err := initService(newConfirmer(installYes))
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	out := cmd.OutOrStdout()
	opts.Observer = newFetchProgress(os.Stderr).Observe

	result, err := service.Install(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printInstallResult(out, result)
	return nil
}

func printInstallResult(out io.Writer, result *core.InstallResult) {
	m := result.Manifest
	fmt.Fprintf(out, "%s %s %s\n", colorGreen("✓"), m.Name, colorDim(m.PackVersion()))
	fmt.Fprintf(out, "  Minecraft: %s\n", m.GameVersion())
	if result.Selection.RequiresInstaller() {
		fmt.Fprintf(out, "  Modloader: %s %s\n", result.Selection.Kind, result.Selection.LoaderVersion)
	}
	if len(result.IgnoredLoaders) > 0 {
		fmt.Fprintf(out, "  %s also declares %v; only %s was installed\n",
			colorYellow("Note:"), result.IgnoredLoaders, result.Selection.Kind)
	}

	if r := result.Report; r != nil {
		fmt.Fprintf(out, "  Files: %d downloaded (%s)", len(r.Succeeded), humanize.Bytes(uint64(r.Bytes)))
		if len(r.Skipped) > 0 {
			fmt.Fprintf(out, ", %d server-only skipped", len(r.Skipped))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  Instance: %s\n", result.InstanceDir)

	if result.DryRun {
		fmt.Fprintln(out, colorDim("Dry run: nothing was installed into the launcher."))
		return
	}

	if result.ProfileID != "" {
		fmt.Fprintf(out, "  Profile: %s (%s)\n", result.ProfileName, result.VersionID)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(out, "%s %s: %v\n", colorYellow("⚠"), w.Step, w.Err)
		if w.Guidance != "" {
			fmt.Fprintf(out, "  To finish by hand: %s\n", w.Guidance)
		}
	}

	if len(result.Warnings) == 0 {
		fmt.Fprintln(out, colorGreen("Ready to play. Pick the profile in the Minecraft launcher."))
	}
}

// printDefaults writes the pack's install defaults as indented JSON.
// Only config.yaml is read; no directory or ledger is created.
func printDefaults(cmd *cobra.Command, opts core.InstallOptions) error {
	cfg, err := getServiceConfig()
	if err != nil {
		return err
	}
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	defaults, err := core.Describe(cmd.Context(), appConfig, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(defaults)
}
