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
	"fmt"

	"github.com/zintix-labs/fruitslot/sdk/slot"
)

// OutcomeKind 區分結果型態。
type OutcomeKind uint8

const (
	OutcomeNone OutcomeKind = iota
	OutcomeWin
	OutcomeNoWin
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWin:
		return "win"
	case OutcomeNoWin:
		return "no_win"
	case OutcomeRejected:
		return "rejected"
	default:
		return ""
	}
}

// RejectReason 為拒絕原因。
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonBusy
	ReasonInsufficientFunds
)

func (r RejectReason) String() string {
	switch r {
	case ReasonBusy:
		return "busy"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	default:
		return ""
	}
}

// Outcome 是 Win(payout) | NoWin | Rejected(reason) 的和型別。
type Outcome struct {
	Kind   OutcomeKind
	Payout int
	Win    slot.Win
	Reason RejectReason
}

func Win(w slot.Win) Outcome { return Outcome{Kind: OutcomeWin, Payout: w.Pay, Win: w} }

func NoWin() Outcome { return Outcome{Kind: OutcomeNoWin} }

func Rejected(r RejectReason) Outcome { return Outcome{Kind: OutcomeRejected, Reason: r} }

// Message 回傳給玩家看的結果訊息。
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeWin:
		return fmt.Sprintf("Winner! +%d credits!", o.Payout)
	case OutcomeNoWin:
		return "Try again!"
	case OutcomeRejected:
		if o.Reason == ReasonInsufficientFunds {
			return "Not enough credits!"
		}
		return "Reels are still spinning!"
	default:
		return ""
	}
}
