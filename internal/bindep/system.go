package bindep

import "strings"

// elfSystemPrefixes are the C runtime and loader libraries every ELF program links against.
var elfSystemPrefixes = []string{
	"ld-linux",
	"ld-musl",
	"libc.so",
	"libc.musl",
	"libdl.so",
	"libgcc_s.so",
	"libm.so",
	"libnsl.so",
	"libpthread.so",
	"libresolv.so",
	"librt.so",
	"libutil.so",
	"linux-vdso.so",
}

// windowsSystemDLLs are DLLs that ship with every Windows installation.
var windowsSystemDLLs = map[string]bool{
	"advapi32.dll": true,
	"comctl32.dll": true,
	"comdlg32.dll": true,
	"gdi32.dll":    true,
	"imm32.dll":    true,
	"kernel32.dll": true,
	"msvcrt.dll":   true,
	"netapi32.dll": true,
	"ntdll.dll":    true,
	"ole32.dll":    true,
	"oleaut32.dll": true,
	"shell32.dll":  true,
	"shlwapi.dll":  true,
	"user32.dll":   true,
	"version.dll":  true,
	"winmm.dll":    true,
	"ws2_32.dll":   true,
}

// isSystem reports whether dep belongs to the operating system rather than to a separately installed package.
func isSystem(f format, dep Dependency) bool {
	switch f {
	case formatMachO:
		return strings.HasPrefix(dep.Path, "/usr/lib/") || strings.HasPrefix(dep.Path, "/System/")
	case formatELF:
		for _, prefix := range elfSystemPrefixes {
			if strings.HasPrefix(dep.Name, prefix) {
				return true
			}
		}
	case formatPE:
		name := strings.ToLower(dep.Name)
		return windowsSystemDLLs[name] || strings.HasPrefix(name, "api-ms-win-") || strings.HasPrefix(name, "ext-ms-")
	}
	return false
}
