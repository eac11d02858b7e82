// Package version exposes the build identity of the running binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags on release builds. A plain `go build` leaves them
// empty and Get fills the gaps from the embedded VCS metadata.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get resolves the build identity. ldflags values win; missing pieces
// come from debug.ReadBuildInfo when the binary was built inside a
// checkout.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	}

	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}

	return info
}

// String renders the identity as a single line for --version output.
func (i Info) String() string {
	commit := shortCommit(i.Commit)
	if i.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("backup-monitor %s (commit %s, built %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns just the version number.
func (i Info) Short() string {
	return i.Version
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
