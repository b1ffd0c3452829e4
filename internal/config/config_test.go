package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panelkit/panelkit/internal/testutil/testlog"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPanelConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
addr = "127.0.0.1:7861"
dataset = "records.json"

[[slicebys]]
id = "by_category"
dimension = "category"

[[aggregations]]
id = "agg.sum"
name = "total"
kind = "sum"
measure = "amount"
`)

	cfg, err := LoadPanelConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7861" || cfg.Dataset != "records.json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.SliceBys) != 1 || cfg.SliceBys[0].Dimension != "category" {
		t.Fatalf("unexpected slicebys: %+v", cfg.SliceBys)
	}
	if len(cfg.Aggregations) != 1 || cfg.Aggregations[0].Kind != "sum" {
		t.Fatalf("unexpected aggregations: %+v", cfg.Aggregations)
	}
}

func TestLoadPanelConfigDefaultAddr(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, ``)

	cfg, err := LoadPanelConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7860" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
}

func TestLoadPanelConfigValidation(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "sliceby missing dimension",
			contents: "[[slicebys]]\nid = \"sb\"\n",
			wantErr:  "missing dimension",
		},
		{
			name:     "aggregation missing kind",
			contents: "[[aggregations]]\nid = \"a\"\nname = \"n\"\n",
			wantErr:  "missing kind",
		},
	}
	for _, tc := range tests {
		path := writeConfig(t, tc.contents)
		_, err := LoadPanelConfig(path)
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected %q error, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestLoadClientConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `api_url = "http://127.0.0.1:7860"`)

	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7860" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadClientConfigMissingURL(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, ``)
	if _, err := LoadClientConfig(path); err == nil {
		t.Fatalf("expected missing api_url error")
	}
}

func TestLoadPanelConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadPanelConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected load error for missing file")
	}
}
