package version

import (
	"runtime"
	"runtime/debug"
)

// Release builds set these with
// -ldflags "-X github.com/teranos/locofilter/version.Version=v1.0.0 -X ...Commit=<sha>".
// Anything left unset is read from the module and VCS stamps go build embeds.
var (
	Version = "dev"
	Commit  = ""
)

// Info identifies the running binary
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Modified bool   `json:"modified,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

// Get returns the version of the running binary
func Get() Info {
	info := Info{
		Version:  Version,
		Commit:   Commit,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildInfo(info, bi)
	}
	return info
}

// fromBuildInfo fills the fields ldflags left unset
func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders e.g. "locofilter v1.2.0 (abcdef0, modified)"
func (i Info) String() string {
	s := "locofilter " + i.Version
	if c := i.Short(); c != "" {
		s += " (" + c
		if i.Modified {
			s += ", modified"
		}
		s += ")"
	}
	return s
}

// Short returns the abbreviated commit, empty when unknown
func (i Info) Short() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}
