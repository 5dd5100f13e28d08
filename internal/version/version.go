// Package version provides the build version of the module.
package version

import "fmt"

// values are overridden at build time:
//
//	-ldflags "-X github.com/effective-security/p11uri/internal/version.build=..."
var (
	release = "0.1.0"
	build   = "dev"
)

// Info describes the build.
type Info struct {
	Release string
	Build   string
}

func (i Info) String() string {
	return fmt.Sprintf("%s-%s", i.Release, i.Build)
}

// Current returns the current build information.
func Current() Info {
	return Info{
		Release: release,
		Build:   build,
	}
}
