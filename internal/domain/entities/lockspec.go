// Package entities defines core domain models and data structures.
package entities

// LockSpec represents a fully pinned dependency manifest. Every package
// resolves to an exact version/build, so re-resolving the same spec on the
// same platform yields an identical environment.
type LockSpec struct {
	Path     string
	Version  int
	Channels []string
	Packages []PinnedPackage
}

// PinnedPackage is a single fully resolved entry from a lock spec.
type PinnedPackage struct {
	Name     string
	Version  string
	Platform string
	Manager  string // "conda" or "pip"
}

// PackagesForPlatform returns the pinned packages that apply to the given
// platform string (e.g. "linux-64").
func (l *LockSpec) PackagesForPlatform(platform string) []PinnedPackage {
	pkgs := make([]PinnedPackage, 0, len(l.Packages))
	for _, p := range l.Packages {
		if p.Platform == platform {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// ChannelConfig represents the channel-priority configuration (rc file) that
// accompanies a lock spec.
type ChannelConfig struct {
	Path     string
	Channels []string
}
