package utils

import (
	"os"
	"path/filepath"
	"testing"
)

const testFlatpakInfo = `[Application]
name=org.example.Notes
runtime=runtime/org.gnome.Platform/x86_64/47

# instance metadata
[Instance]
instance-id=1234567890
app-path=/var/lib/flatpak/app/org.example.Notes/x86_64/stable/active/files
flatpak-version=1.16.0
session-bus-proxy=true

[Context]
shared=network;ipc;
sockets=x11;wayland;pulseaudio;
`

func TestHasKeyfileSection(t *testing.T) {
	tests := []struct {
		section string
		want    bool
	}{
		{"Application", true},
		{"Instance", true},
		{"Context", true},
		{"Session Bus Policy", false},
		{"Applic", false},
	}

	for _, tt := range tests {
		if got := HasKeyfileSection(testFlatpakInfo, tt.section); got != tt.want {
			t.Errorf("HasKeyfileSection(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestKeyfileValue(t *testing.T) {
	tests := []struct {
		name      string
		section   string
		key       string
		wantValue string
		wantFound bool
	}{
		{"application name", "Application", "name", "org.example.Notes", true},
		{"key in later section", "Instance", "flatpak-version", "1.16.0", true},
		{"same key other section", "Context", "name", "", false},
		{"missing section", "Policy", "name", "", false},
		{"value with separators", "Context", "shared", "network;ipc;", true},
	}

	for _, tt := range tests {
		got, found := KeyfileValue(testFlatpakInfo, tt.section, tt.key)
		if got != tt.wantValue || found != tt.wantFound {
			t.Errorf("%s: KeyfileValue(%q, %q) = (%q, %v), want (%q, %v)",
				tt.name, tt.section, tt.key, got, found, tt.wantValue, tt.wantFound)
		}
	}
}

func TestKeyfileEmpty(t *testing.T) {
	if HasKeyfileSection("", "Application") {
		t.Error("expected false for empty data")
	}
	if _, ok := KeyfileValue("", "Application", "name"); ok {
		t.Error("expected no value for empty data")
	}
}

func TestInFlatpakWith(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".flatpak-info")

	if InFlatpakWith(path) {
		t.Fatal("expected false before the file exists")
	}
	if err := os.WriteFile(path, []byte(testFlatpakInfo), 0o644); err != nil {
		t.Fatal(err)
	}
	if !InFlatpakWith(path) {
		t.Error("expected true once the file exists")
	}
}
