package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBindVar(t *testing.T) {
	cfg, err := bindVar([]string{"-player", "5", "-spins", "20000", "-seed", "9"})
	if err != nil {
		t.Fatalf("bindVar: %v", err)
	}
	if cfg.spins != 15_000 || cfg.seed != 9 || cfg.render == nil {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	for _, args := range [][]string{
		{"-worker", "0"},
		{"-format", "xml"},
		{"-p", "trace"},
		{"-player", "3", "-balance", "0"},
	} {
		if _, err := bindVar(args); err == nil {
			t.Fatalf("%v should fail", args)
		}
	}
}

func TestExecuteWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	cfg, err := bindVar([]string{"-spins", "500", "-worker", "2", "-seed", "5", "-format", "json", "-out", out, "-q"})
	if err != nil {
		t.Fatalf("bindVar: %v", err)
	}
	if err := cfg.execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		Summary struct {
			Rounds int `json:"Rounds"`
			Seed   int64
		}
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Summary.Rounds != 1000 {
		t.Fatalf("rounds %d", rep.Summary.Rounds)
	}
}
