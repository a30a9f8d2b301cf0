package settingsstore

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestEstablishAloneStartsSynchronised(t *testing.T) {
	dir := t.TempDir()
	l := NewLockFile(dir)
	defer l.Release()

	solo, err := l.Establish()
	if err != nil {
		t.Fatal(err)
	}
	if solo {
		t.Fatal("expected a lone process to start synchronised")
	}
}

func TestEstablishGoesSoloWhenPeerSynchronised(t *testing.T) {
	dir := t.TempDir()

	// Fabricate a live peer lock file: a real process, our own test binary's
	// PID re-used under a different name, is guaranteed alive.
	peerPID := os.Getpid()
	peerPath := filepath.Join(dir, "session_"+strconv.Itoa(peerPID)+".lock")
	if err := os.WriteFile(peerPath, []byte{byte(ModeSynchronised)}, 0o644); err != nil {
		t.Fatal(err)
	}

	l := &LockFile{dir: dir, pid: peerPID + 1, mode: ModeSynchronised}
	solo, err := l.Establish()
	if err != nil {
		t.Fatal(err)
	}
	if !solo {
		t.Fatal("expected process to start solo when a synchronised peer exists")
	}
	defer l.Release()
}

func TestEstablishScrubsDeadPeers(t *testing.T) {
	dir := t.TempDir()

	// PID 999999 is extremely unlikely to be a live process.
	deadPath := filepath.Join(dir, "session_999999.lock")
	if err := os.WriteFile(deadPath, []byte{byte(ModeSynchronised)}, 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLockFile(dir)
	defer l.Release()
	solo, err := l.Establish()
	if err != nil {
		t.Fatal(err)
	}
	if solo {
		t.Fatal("expected dead peer to be scrubbed, not counted")
	}
	if _, err := os.Stat(deadPath); !os.IsNotExist(err) {
		t.Fatal("expected dead peer's lock file to be removed")
	}
}
