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

package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/slot"
	"github.com/zintix-labs/fruitslot/spec"
)

func TestDecodeBetRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/bet?delta=-100", nil)
	req, err := DecodeBetRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Delta != -100 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, err := DecodeBetRequest(httptest.NewRequest(http.MethodGet, "/bet?delta=x", nil)); err == nil {
		t.Fatalf("expected error for invalid delta")
	}
}

func TestDecodeBetRequestPOST(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/bet", strings.NewReader(`{"delta":200}`))
	req, err := DecodeBetRequest(r)
	if err != nil || req.Delta != 200 {
		t.Fatalf("unexpected request: %+v, %v", req, err)
	}
}

func TestDecodeBetRequestRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/bet", strings.NewReader(`{"delta":1,"unknown":true}`))
	if _, err := DecodeBetRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := DecodeCommand([]byte(`{"type":"bet","delta":100}`))
	if err != nil || cmd.Type != CmdBet || cmd.Delta != 100 {
		t.Fatalf("unexpected command: %+v, %v", cmd, err)
	}
	if _, err := DecodeCommand([]byte(`{"type":"jackpot"}`)); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestSnapRoundTrip(t *testing.T) {
	snap := []byte{0, 1, 2, 250, 255}
	body, _ := json.Marshal(RNGState{SnapB64U: EncodeSnap(snap)})
	got, err := DecodeRNGState(httptest.NewRequest(http.MethodPut, "/rng", bytes.NewReader(body)))
	if err != nil || !bytes.Equal(got, snap) {
		t.Fatalf("round trip = %v, %v", got, err)
	}
	if _, err := DecodeSnap("***"); err == nil {
		t.Fatalf("expected error for bad base64url")
	}
}

func TestNewStateAndEvents(t *testing.T) {
	gs, err := spec.Default()
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	eng, err := fruitslot.New(gs, fruitslot.WithSeed(1), fruitslot.WithSessionID("abc"))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ss := eng.Symbols()
	st := NewState(eng.State(), ss)
	if st.Session != "abc" || st.Phase != "idle" || len(st.Reels) != 3 || st.LastResult != nil || !st.CanSpin {
		t.Fatalf("state %+v", st)
	}
	data, _ := json.Marshal(st)
	if !strings.Contains(string(data), `"reels":["🍎","🍊","🍇"]`) {
		t.Fatalf("json %s", data)
	}

	seven, _ := ss.Lookup("7️⃣")
	win := event.Win(slot.Win{Pay: 1000, Kind: slot.ThreeOfAKind, Combo: slot.Repeat(seven, 3)})
	env, ok := NewEvent(event.SpinResult{Spin: 2, Outcome: win, Reels: slot.ReelState{seven, seven, seven}, Credits: 1900}, ss)
	if !ok || env.Type != "spin_result" || env.Cue != CueWin {
		t.Fatalf("envelope %+v", env)
	}
	res := env.Data.(SpinResult)
	if res.Outcome.Message != "Winner! +1000 credits!" || strings.Join(res.Outcome.Combo, "") != "7️⃣7️⃣7️⃣" {
		t.Fatalf("result %+v", res)
	}

	cues := []string{}
	for tick := 1; tick <= 6; tick++ {
		cues = append(cues, Cue(event.ReelsUpdated{Phase: event.PhaseSpinning, Tick: tick}))
	}
	if strings.Join(cues, ",") != ",,spin,,,spin" {
		t.Fatalf("tick cues %v", cues)
	}
	rej, _ := NewEvent(event.SpinResult{Outcome: event.Rejected(event.ReasonBusy)}, ss)
	if r := rej.Data.(SpinResult); r.Outcome.Reason != "busy" || rej.Cue != "" {
		t.Fatalf("rejected %+v", rej)
	}

	pt := NewPaytable(gs.GameName, eng.Paytable(), ss)
	if len(pt.Entries) != 9 || pt.Entries[0].Pay != 1000 || pt.ExpectedPayout <= 0 {
		t.Fatalf("paytable %+v", pt)
	}
}
