package tkbundle

import "runtime"

// Platform identifies the operating environment family. Each family exposes an installed Tcl/Tk through a
// different mechanism.
type Platform int

const (
	// PlatformUnsupported is any environment outside the three supported families.
	PlatformUnsupported Platform = iota
	// PlatformDarwin ships Tcl/Tk as framework bundles.
	PlatformDarwin
	// PlatformUnix installs Tcl/Tk under a filesystem prefix.
	PlatformUnix
	// PlatformWindows installs Tcl/Tk next to Python, with broken paths inside some virtual environments.
	PlatformWindows
)

// String returns the platform family name.
func (p Platform) String() string {
	switch p {
	case PlatformDarwin:
		return "darwin"
	case PlatformUnix:
		return "unix"
	case PlatformWindows:
		return "windows"
	default:
		return "unsupported"
	}
}

// ParsePlatform maps a GOOS value, or one of the family names, onto a platform family.
func ParsePlatform(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	case "unix", "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix", "android":
		return PlatformUnix
	default:
		return PlatformUnsupported
	}
}

// CurrentPlatform returns the platform family the process is running on.
func CurrentPlatform() Platform {
	return ParsePlatform(runtime.GOOS)
}

// Strategy is the root discovery approach used for a platform family.
type Strategy int

const (
	// StrategyUnsupported skips discovery entirely.
	StrategyUnsupported Strategy = iota
	// StrategyFramework derives roots from framework bundle layout, falling back to StrategyShell.
	StrategyFramework
	// StrategyShell asks a Tcl interpreter for its library directory.
	StrategyShell
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyFramework:
		return "framework"
	case StrategyShell:
		return "shell"
	default:
		return "unsupported"
	}
}

// SelectStrategy chooses the discovery strategy for a platform family.
func SelectStrategy(p Platform) Strategy {
	switch p {
	case PlatformDarwin:
		return StrategyFramework
	case PlatformUnix, PlatformWindows:
		return StrategyShell
	case PlatformUnsupported:
		return StrategyUnsupported
	}
	return StrategyUnsupported
}
