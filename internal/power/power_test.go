package power

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSupply(t *testing.T, dir, name, kind, online string) {
	t.Helper()
	base := filepath.Join(dir, name)
	if err := os.MkdirAll(base, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "type"), []byte(kind+"\n"), 0644); err != nil {
		t.Fatalf("write type: %v", err)
	}
	if online != "" {
		if err := os.WriteFile(filepath.Join(base, "online"), []byte(online+"\n"), 0644); err != nil {
			t.Fatalf("write online: %v", err)
		}
	}
}

func TestOnACPower_MainsOnline(t *testing.T) {
	dir := t.TempDir()
	writeSupply(t, dir, "AC", "Mains", "1")
	writeSupply(t, dir, "BAT0", "Battery", "")

	if !NewSourceAt(dir).OnACPower() {
		t.Fatalf("expected on AC with mains online")
	}
}

func TestOnACPower_MainsOffline(t *testing.T) {
	dir := t.TempDir()
	writeSupply(t, dir, "AC", "Mains", "0")
	writeSupply(t, dir, "BAT0", "Battery", "")

	if NewSourceAt(dir).OnACPower() {
		t.Fatalf("expected on battery with mains offline")
	}
}

func TestOnACPower_NoMainsMeansDesktop(t *testing.T) {
	dir := t.TempDir()
	writeSupply(t, dir, "BAT0", "Battery", "")

	if !NewSourceAt(dir).OnACPower() {
		t.Fatalf("expected AC assumption without a mains adapter")
	}
}

func TestOnACPower_MissingDirAssumesAC(t *testing.T) {
	if !NewSourceAt(filepath.Join(t.TempDir(), "nope")).OnACPower() {
		t.Fatalf("expected AC assumption when sysfs is unavailable")
	}
}
