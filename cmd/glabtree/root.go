package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glabtree/glabtree/internal/config"
	"github.com/glabtree/glabtree/internal/debug"
	"github.com/glabtree/glabtree/internal/gitlab"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "glabtree",
	Short: "Render GitLab assigned-issue trees",
	Long: `glabtree queries a GitLab instance for the issues and work items
assigned to a user and renders their parent/child structure as an
indented tree, mirroring the output to a transcript file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentPreRunE = initConfig

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "glabtree.yaml", "config file path")
	flags.String("output", "", "transcript file path")
	flags.String("username", "", "GitLab username to scope listings to")
	flags.String("project-id", "", "numeric project id (REST)")
	flags.String("project-full-path", "", "namespaced project path (GraphQL)")
	flags.Bool("insecure-skip-verify", false, "skip TLS certificate verification")
	flags.Int("page-size", 0, "page size for remote listings")
	flags.Int("parallel", 0, "max concurrent link fetches (<=1 sequential)")
	flags.BoolP("verbose", "v", false, "enable debug output")
	flags.BoolP("quiet", "q", false, "suppress non-essential output")

	for _, name := range []string{
		"output", "username", "project-id", "project-full-path",
		"insecure-skip-verify", "page-size", "parallel", "verbose", "quiet",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(hierarchyCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads the config file, applies env overrides, then overlays
// any flags the user set. Precedence: flags > environment > file.
func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := rootCmd.PersistentFlags()
	if flags.Changed("output") {
		cfg.OutputPath = viper.GetString("output")
	}
	if flags.Changed("username") {
		cfg.Username = viper.GetString("username")
	}
	if flags.Changed("project-id") {
		cfg.ProjectID = viper.GetString("project-id")
	}
	if flags.Changed("project-full-path") {
		cfg.ProjectFullPath = viper.GetString("project-full-path")
	}
	if flags.Changed("insecure-skip-verify") {
		cfg.InsecureSkipVerify = viper.GetBool("insecure-skip-verify")
	}
	if flags.Changed("page-size") {
		cfg.PageSize = viper.GetInt("page-size")
	}
	if flags.Changed("parallel") {
		cfg.Parallel = viper.GetInt("parallel")
	}

	debug.SetVerbose(viper.GetBool("verbose"))
	debug.SetQuiet(viper.GetBool("quiet"))
	return nil
}

// newClient builds a GitLab client from the loaded configuration.
func newClient() *gitlab.Client {
	client := gitlab.NewClient(cfg.Token, cfg.BaseURL, cfg.ProjectID)
	if cfg.InsecureSkipVerify {
		debug.Logf("TLS certificate verification disabled by configuration\n")
		client = client.WithInsecureSkipVerify()
	}
	return client
}
