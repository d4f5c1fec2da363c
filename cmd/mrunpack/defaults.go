package main

import (
	"github.com/spf13/cobra"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults <pack.mrpack>",
	Short: "Show the default install options for a modpack",
	Long: `Print, as JSON, the profile name, pack version, .minecraft directory and
instance directory an install of the pack would use. Nothing is installed and
no files are written.

Same as 'mrunpack install --get-defaults'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printDefaults(cmd, installOptions(args[0]))
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&installMinecraftDir, "minecraft-dir", "", "path to the .minecraft directory (default: auto-detected)")
	defaultsCmd.Flags().StringVar(&installProfileDir, "profile-dir", "", "instance directory (default: <minecraft-dir>/<profile-name>)")
	defaultsCmd.Flags().StringVar(&installProfileName, "profile-name", "", "launcher profile name (default: name from the pack)")

	rootCmd.AddCommand(defaultsCmd)
}
