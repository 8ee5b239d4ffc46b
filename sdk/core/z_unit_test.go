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

package core

import (
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	for _, name := range []string{NamePCG64, NamePCG32} {
		f, ok := ByName(name)
		if !ok {
			t.Fatalf("factory %s missing", name)
		}
		c1 := New(f.New(7))
		c2 := New(f.New(7))
		for i := 0; i < 32; i++ {
			if a, b := c1.Draw(7), c2.Draw(7); a != b {
				t.Fatalf("%s: draw mismatch at %d: %d != %d", name, i, a, b)
			}
		}
	}
}

func TestDrawRange(t *testing.T) {
	c := New(Default().New(9))
	if got := c.Draw(0); got != -1 {
		t.Fatalf("expected -1 for empty set, got %d", got)
	}
	seen := make([]int, 7)
	for i := 0; i < 7000; i++ {
		v := c.Draw(7)
		if v < 0 || v >= 7 {
			t.Fatalf("draw out of range: %d", v)
		}
		seen[v]++
	}
	for i, n := range seen {
		if n == 0 {
			t.Fatalf("symbol %d never drawn", i)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	for _, name := range []string{NamePCG64, NamePCG32} {
		f, _ := ByName(name)
		c := New(f.New(11))
		snap, err := c.Snapshot()
		if err != nil {
			t.Fatalf("%s snapshot: %v", name, err)
		}
		first := make([]int, 3)
		c.Fill(first, 7)
		if err := c.Restore(snap); err != nil {
			t.Fatalf("%s restore: %v", name, err)
		}
		again := make([]int, 3)
		c.Fill(again, 7)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("%s: replay mismatch %v vs %v", name, first, again)
			}
		}
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, ok := ByName("mt19937"); ok {
		t.Fatalf("unknown generator should not resolve")
	}
	if f, ok := ByName(""); !ok || f == nil {
		t.Fatalf("empty name should resolve to default")
	}
}
