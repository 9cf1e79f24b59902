package main

import (
	"bytes"
	"testing"
)

func TestRunDryRunOK(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer

	code := run([]string{"--dry-run", "--datadir", dir}, &out, &errOut)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, errOut.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("rillcoind: height=0")) {
		t.Fatalf("expected genesis height line, got %q", out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("next_difficulty_target=")) {
		t.Fatalf("expected difficulty line, got %q", out.String())
	}
}

func TestRunDryRunSeedsGenesisOnReopen(t *testing.T) {
	dir := t.TempDir()
	var out1, errOut1 bytes.Buffer
	if code := run([]string{"--dry-run", "--datadir", dir}, &out1, &errOut1); code != 0 {
		t.Fatalf("first run: exit %d (stderr=%q)", code, errOut1.String())
	}

	var out2, errOut2 bytes.Buffer
	code := run([]string{"--dry-run", "--datadir", dir}, &out2, &errOut2)
	if code != 0 {
		t.Fatalf("second run: exit %d (stderr=%q)", code, errOut2.String())
	}
	if !bytes.Contains(out2.Bytes(), []byte("rillcoind: height=0")) {
		t.Fatalf("expected stable genesis height across reopen, got %q", out2.String())
	}
}

func TestRunInvalidFlagExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--dry-run", "--datadir", dir, "--unknown-flag"}, &out, &errOut)
	if code == 0 {
		t.Fatalf("expected non-zero exit code for unknown flag")
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()
	if cfg.MaxPeers <= 0 {
		t.Fatalf("expected positive MaxPeers default")
	}
	if cfg.BroadcastSecs <= 0 {
		t.Fatalf("expected positive BroadcastSecs default")
	}
}
