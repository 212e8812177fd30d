package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata injected at link time
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// currentVersion parses the build version, rejecting development builds
func currentVersion() (semver.Version, error) {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("version %q is not a release version: %w", version, err)
	}
	return v, nil
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipSetup: ""},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("veezi %s\n", version)
		fmt.Printf("- Built: %s\n", buildTime)
		fmt.Printf("- Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if v, err := currentVersion(); err == nil && len(v.Pre) > 0 {
			fmt.Println("- Pre-release build")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
