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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	base := NewWarn("busy")
	w := Wrap(base, "spin rejected")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn, got %s", w.ErrLv)
	}
	if !errors.Is(w, base) {
		t.Fatalf("wrapped error should match its cause")
	}
	if Level(Wrap(io.EOF, "read")) != Fatal {
		t.Fatalf("foreign cause should be fatal")
	}
	if Level(nil) != None {
		t.Fatalf("nil error should have no level")
	}
}

func TestConfigField(t *testing.T) {
	e := Config("max_bet", "max_bet %d < min_bet %d", 50, 100)
	if e.ErrLv != Fatal || e.Field != "max_bet" {
		t.Fatalf("unexpected config error %+v", e)
	}
	if !strings.Contains(e.Error(), "field: max_bet") {
		t.Fatalf("field missing from message: %s", e.Error())
	}
}
