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

package event

import (
	"context"
	"testing"
	"time"
)

func recv(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-s.C:
		if !ok {
			t.Fatalf("subscription closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return nil
}

func TestBusFanOutInOrder(t *testing.T) {
	b := NewBus(16)
	defer b.Close()
	s1 := b.Subscribe(8)
	s2 := b.Subscribe(8)

	b.Publish(BetChanged{NewBet: 200})
	b.Publish(SpinStarted{Spin: 1, BetCharged: 200, Credits: 800})

	for _, s := range []*Subscription{s1, s2} {
		if ev := recv(t, s); ev.Kind() != KindBetChanged {
			t.Fatalf("expected bet_changed first, got %s", ev.Kind())
		}
		if ev := recv(t, s); ev.Kind() != KindSpinStarted {
			t.Fatalf("expected spin_started second, got %s", ev.Kind())
		}
	}
}

func TestBusCancelAndClose(t *testing.T) {
	b := NewBus(4)
	s := b.Subscribe(1)
	s.Cancel()
	s.Cancel()
	if _, ok := <-s.C; ok {
		t.Fatalf("cancelled subscription should be closed")
	}
	if b.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}

	s2 := b.Subscribe(1)
	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	for range s2.C {
	}
	b.Publish(BetChanged{NewBet: 100})
	if b.Dropped() == 0 {
		t.Fatalf("publish after close should count as dropped")
	}
	late := b.Subscribe(1)
	if _, ok := <-late.C; ok {
		t.Fatalf("subscribe after close should return a closed channel")
	}
}

func TestSlowSubscriberDrops(t *testing.T) {
	b := NewBus(64)
	s := b.Subscribe(1)
	for i := 0; i < 10; i++ {
		b.Publish(BetChanged{NewBet: i})
	}
	b.Close()
	n := 0
	for range s.C {
		n++
	}
	if n != 1 || s.Dropped() != 9 {
		t.Fatalf("expected 1 delivered and 9 dropped, got %d and %d", n, s.Dropped())
	}
}

func TestOutcomeMessage(t *testing.T) {
	cases := map[string]Outcome{
		"Winner! +40 credits!":      {Kind: OutcomeWin, Payout: 40},
		"Try again!":                NoWin(),
		"Not enough credits!":       Rejected(ReasonInsufficientFunds),
		"Reels are still spinning!": Rejected(ReasonBusy),
	}
	for want, o := range cases {
		if got := o.Message(); got != want {
			t.Fatalf("message = %q, want %q", got, want)
		}
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	sink := Multi{&c, Discard, nil}
	sink.Publish(SpinResult{Outcome: NoWin()})
	sink.Publish(BetChanged{NewBet: 100})
	if c.Count(KindSpinResult) != 1 || len(c.Results()) != 1 || len(c.Events()) != 2 {
		t.Fatalf("unexpected collector state %v", c.Events())
	}
	c.Reset()
	if len(c.Events()) != 0 {
		t.Fatalf("reset failed")
	}
}
