// Package version reports how the combinepy binary was built.
//
// Release builds set the variables below with the linker, for instance:
//
//	go build -ldflags "-X combinepy/pkg/version.Version=1.2.3 -X combinepy/pkg/version.Commit=abcdefg"
//
// A plain "go build" leaves them at their defaults; the commit and build time
// are then taken from the VCS stamp the toolchain embeds, when there is one.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	Modified  bool // working tree had local changes at build time
	GoVersion string
	Platform  string
}

// Get collects the build metadata of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFromVCS(bi.Settings)
	}
	return info
}

// fillFromVCS fills the fields the linker left at their defaults.
func (i *Info) fillFromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "none" && s.Value != "" {
				i.GitCommit = s.Value
				if len(i.GitCommit) > 7 {
					i.GitCommit = i.GitCommit[:7]
				}
			}
		case "vcs.time":
			if i.BuildTime == "unknown" && s.Value != "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// Short is the version as printed by "combinepy version --short".
func (i Info) Short() string {
	if i.Modified {
		return i.Version + "+dirty"
	}
	return i.Version
}

func (i Info) String() string {
	return fmt.Sprintf("combinepy version %s (commit: %s) built at %s with %s on %s",
		i.Short(), i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
