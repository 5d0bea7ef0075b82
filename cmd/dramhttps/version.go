package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walteh/dramhttps/pkg/config"
	"github.com/walteh/dramhttps/pkg/rules"
)

// VersionInfo describes the binary and the rule set compiled into it
type VersionInfo struct {
	Version       string `json:"version"`
	Revision      string `json:"revision"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	URLRules      int    `json:"url_rules"`
	BugRules      int    `json:"bug_rules"`
	DefaultTarget string `json:"default_target"`
	ConfigFile    string `json:"config_file"`
}

// GetVersionInfo reads build settings and counts the shipped rules
func GetVersionInfo() *VersionInfo {
	set := rules.Default()
	info := &VersionInfo{
		Version:       "dev",
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		URLRules:      len(set.URL()),
		BugRules:      len(set.Bug()),
		DefaultTarget: config.DefaultTargetName,
		ConfigFile:    config.DefaultConfigName,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	dirty := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(info.Revision) > 12 {
		info.Revision = info.Revision[:12]
	}
	if dirty && info.Revision != "" {
		info.Revision += "-dirty"
	}

	return info
}

// FormatVersion renders v for the version command
func FormatVersion(v *VersionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dramhttps %s", v.Version)
	if v.Revision != "" {
		fmt.Fprintf(&b, " (%s)", v.Revision)
	}
	fmt.Fprintf(&b, " %s %s\n", v.GoVersion, v.Platform)
	fmt.Fprintf(&b, "rules: %d url, %d bug\n", v.URLRules, v.BugRules)
	fmt.Fprintf(&b, "patches %s, reads %s when present\n", v.DefaultTarget, v.ConfigFile)
	return b.String()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and shipped rule counts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion(GetVersionInfo()))
		},
	}
}
