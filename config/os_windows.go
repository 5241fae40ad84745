//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

// CleanFileName strips characters the Win32 layer rejects from a
// would-be file name and makes sure something usable is left.
func CleanFileName(in string) string {
	drop := `<>":/\|?*` + string([]rune{os.PathSeparator, os.PathListSeparator})
	out := strings.Map(func(r rune) rune {
		if r == 0 || strings.ContainsRune(drop, r) {
			return -1
		}
		return r
	}, in)
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	return out
}

// EnableColorOutput reports whether stream is an interactive console
// able to process VT escape sequences, turning the processing on as a
// side effect. Anything older than Windows 10 does not qualify.
func EnableColorOutput(stream *os.File) bool {
	if !atLeastWindows10() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	h := windows.Handle(stream.Fd())

	var mode uint32
	if windows.GetConsoleMode(h, &mode) != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}

func atLeastWindows10() bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	return err == nil && v >= 10
}
