package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/dspbptk/dspbptk-go/pkg/bplog"
)

const version = "0.1.0"

var (
	logLevel    string
	validate    bool
	rootCmd     *cobra.Command
	versionFlag bool
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "dspbptk",
		Short: "Dyson Sphere Program blueprint toolkit",
		Long:  `Parse, inspect, and rewrite Dyson Sphere Program blueprint strings.`,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", bplog.GetLogLevel(), "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	inspectCmd := &cobra.Command{
		Use:   "inspect <blueprint-file>",
		Short: "Print a summary of a blueprint file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&validate, "validate-hash", true, "Verify the envelope fingerprint before parsing")

	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("dspbptk %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}
