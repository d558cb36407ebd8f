package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/pbrtex/internal/pipeline"
)

// version is overridden at build time with -ldflags "-X"
var version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "pbrtex [image]",
	Short:   "Generate seamless PBR texture maps from a photograph",
	Version: version,
	Long: `pbrtex turns a single photograph into a set of PBR texture maps:
albedo, height, normal, metallic, roughness and ambient occlusion.

The source is center-cropped to a square and scaled to the requested
resolution. Every map can optionally be made to tile seamlessly.

Examples:
  # Generate 512px maps next to the source image
  pbrtex brick.jpg

  # 1024px maps with Scharr gradients, written to ./out as WebP
  pbrtex generate brick.jpg --resolution 1024 --edge scharr --format webp -o out

  # Package the material as a zip with 2x2 tiling previews
  pbrtex generate brick.jpg --archive --preview

  # Start HTTP server
  pbrtex serve --port 8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr(), viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		pipeline.SetLogger(logger)
		return nil
	},
	// If no subcommand is specified and we have args, run the generate command
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if len(args) > 1 {
			return fmt.Errorf("expected one source image, got %d", len(args))
		}
		return runGenerate(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pbrtex.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text|json)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add generate flags to root for default behavior
	addGenerateFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pbrtex" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pbrtex")
	}

	viper.SetEnvPrefix("pbrtex")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
