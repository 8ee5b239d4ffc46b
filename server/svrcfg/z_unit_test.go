// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package svrcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
	if env.EventBuffer <= 0 || env.ClientBuf <= 0 || len(env.CORSOrigins) == 0 {
		t.Fatalf("defaults not applied: %+v", env)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("FRUITSLOT_SEED", "")
	os.Unsetenv("FRUITSLOT_SEED")
	t.Setenv("FRUITSLOT_LOG_MODE", "silence")
	t.Setenv("FRUITSLOT_CORS_ORIGINS", "http://a.test,http://b.test")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FRUITSLOT_SEED=77\nFRUITSLOT_LOG_MODE=prod\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.Seed != 77 {
		t.Fatalf("seed from .env = %d", env.Seed)
	}
	if env.LogMode != "silence" {
		t.Fatalf("process env should win over .env, got %q", env.LogMode)
	}
	if len(env.CORSOrigins) != 2 || env.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors origins %v", env.CORSOrigins)
	}
}

func TestBuild(t *testing.T) {
	sc, ah, err := Build(&Env{LogMode: "silence", Seed: 3, EventBuffer: 16, ClientBuf: 0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer ah.Close()
	defer sc.Bus.Close()
	if sc.Engine.Seed() != 3 || sc.ClientBuf != 1 || sc.Addr != ":5808" {
		t.Fatalf("unexpected cfg: %+v", sc)
	}
	if _, _, err := Build(&Env{LogMode: "loud"}); err == nil {
		t.Fatalf("bad log mode should fail")
	}
	if _, _, err := Build(&Env{LogMode: "silence", Config: "/does/not/exist.yaml"}); err == nil {
		t.Fatalf("missing config should fail")
	}
	if err := (&SvrCfg{}).Valid(); err == nil {
		t.Fatalf("empty cfg should fail")
	}
}
