package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/robynasuro/octra-client/logx"
)

var (
	configPath string
	tuningPath string
	rpcURL     string
	keyFile    string
)

var rootCmd = &cobra.Command{
	Use:   "octra-client",
	Short: "Octra wallet client CLI",
	Long:  "Command line interface for sending transfers and inspecting activity of an Octra wallet.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "client config file")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "tuning.ini", "optional tuning overrides file")
	rootCmd.PersistentFlags().StringVarP(&rpcURL, "rpc-url", "u", "", "RPC relay URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&keyFile, "key-file", "k", "", "wallet key file (overrides config)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
