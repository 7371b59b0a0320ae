package utils

import (
	"os"
	"strings"
)

const flatpakInfoPath = "/.flatpak-info"

// InSandbox reports whether the process runs under Flatpak or Snap, where
// the accessibility registry is only reachable through a portal.
func InSandbox() bool {
	return InFlatpak() || os.Getenv("SNAP") != ""
}

func InFlatpak() bool {
	return InFlatpakWith(flatpakInfoPath)
}

func InFlatpakWith(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FlatpakAppID returns the application name recorded in the sandbox
// metadata.
func FlatpakAppID() (string, bool) {
	data, err := os.ReadFile(flatpakInfoPath)
	if err != nil {
		return "", false
	}
	return KeyfileValue(string(data), "Application", "name")
}

// HasKeyfileSection reports whether data, in desktop keyfile syntax,
// contains [section].
func HasKeyfileSection(data, section string) bool {
	header := "[" + section + "]"
	for line := range strings.SplitSeq(data, "\n") {
		if strings.TrimSpace(line) == header {
			return true
		}
	}
	return false
}

// KeyfileValue looks up key inside [section]. Comments and blank lines
// are skipped.
func KeyfileValue(data, section, key string) (string, bool) {
	header := "[" + section + "]"
	inSection := false
	for line := range strings.SplitSeq(data, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "["):
			inSection = line == header
			continue
		case !inSection:
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
