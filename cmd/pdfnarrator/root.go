package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdfnarrator",
	Short: "Transcribe scanned PDFs with OCR and narrate them as MP3",
	Long: `pdfnarrator rasterizes every page of a PDF, runs OCR on it and prints
the transcript with a "--- Page N ---" header before each page.
With --speak the transcript is also converted to MP3 speech.

Settings come from flags, environment variables (OCR_ENGINE, OCR_WORKERS,
RASTER_DPI, SPEECH_PROVIDER, ...) or $HOME/.pdfnarrator.yaml.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pdfnarrator.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log pipeline events to stderr")
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))

	rootCmd.AddCommand(newTranscribeCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pdfnarrator")
	}

	viper.AutomaticEnv() // OCR_WORKERS overrides ocr_workers, and so on

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
