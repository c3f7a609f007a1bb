package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/tag-communities/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tag-communities",
	Short: "Group people into communities by shared interest tags",
	Long: `tag-communities reads a spreadsheet of people and their interests, links people
who share at least one interest, and reports the resulting communities together with
the interests that dominate each of them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath == "" {
			cfg, err = config.Default()
		} else {
			cfg, err = config.Load(cfgPath)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (defaults and env vars when omitted)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
