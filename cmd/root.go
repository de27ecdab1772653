package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	appconfig "github.com/ca-srg/hexocat/internal/config"
	"github.com/ca-srg/hexocat/internal/types"
)

var (
	flagEnvironment string
	flagHost        string
	flagPort        int
)

var rootCmd = &cobra.Command{
	Use:   "hexocat",
	Short: "hexocat - GitHub repository search for Slack",
	Long: `hexocat answers the /hexocat Slack slash command with the top GitHub
repositories matching the given keyword.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
}

func addConfigFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&flagEnvironment, "env", "e", "", "Environment: development, staging or production (overrides HEXOCAT_ENV)")
	fs.StringVar(&flagHost, "host", "", "Host to bind the webhook server (overrides HEXOCAT_HOST)")
	fs.IntVarP(&flagPort, "port", "p", 0, "Port to bind the webhook server (overrides HEXOCAT_PORT)")
}

func loadConfig() (*types.Config, error) {
	return appconfig.LoadWithOverrides(appconfig.Overrides{
		Environment: flagEnvironment,
		Host:        flagHost,
		Port:        flagPort,
	})
}
