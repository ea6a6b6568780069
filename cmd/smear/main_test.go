// 18 Oct 2026

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSimulateAndStats(t *testing.T) {
	dir := t.TempDir()
	sam := filepath.Join(dir, "reads.sam")
	if _, err := run(t, "simulate", "-n", "50", "-l", "300", "--name", "chrT", sam); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "stats", "--window", "3", "--separate-strands", "read*", sam)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "reads (plus)") || !strings.Contains(out, "reads (minus)") {
		t.Fatalf("stats:\n%s", out)
	}
	csv := filepath.Join(dir, "runs.csv")
	if _, err := run(t, "build", "-o", csv, "--anchor", "chrT", sam); err != nil {
		t.Fatal(err)
	}
	if b, err := os.ReadFile(csv); err != nil || !strings.HasPrefix(string(b), "track,from,to,value\n") {
		t.Fatalf("csv %q %v", b, err)
	}
	out, err = run(t, "runs", "--map", "gap", sam)
	if err != nil || !strings.HasPrefix(out, "track,from,to,value\nreads,0,") {
		t.Fatalf("runs %q %v", out, err)
	}
}

func TestUsageErrors(t *testing.T) {
	bad := [][]string{
		{"build"},
		{"build", "--window", "0.5", "x.sam"},
		{"runs", "--map", "both", "x.sam"},
		{"simulate", "out.gff"},
		{"build", "--config", "/no/such/config.yaml", "x.sam"},
	}
	for _, args := range bad {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}
