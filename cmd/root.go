// Package cmd is for command line interactions with the genomelift application
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "genomelift",
	Short: `Map genomic coordinates between reference assembly builds.
Positions are 0-based ("chr7:117559590") and regions half-open ("chr7:117559590-117559620")`,
	Version:                    "0.1.0",
	SuggestionsMinimumDistance: 3,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initViper)

	RootCmd.PersistentFlags().String("cache-dir", "", "directory for cached chain files")
	viper.BindPFlag("cache.dir", RootCmd.PersistentFlags().Lookup("cache-dir"))
}

// initViper reads an optional genomelift.yaml from the working or home
// directory and maps GENOMELIFT_* environment variables onto settings
func initViper() {
	viper.SetConfigName("genomelift")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("genomelift")
	viper.AutomaticEnv()
	viper.ReadInConfig() // the config file is optional
}
