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

package httperr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errs.Wrap(context.Canceled, "spin"), http.StatusRequestTimeout},
		{fruitslot.ErrBusy, http.StatusConflict},
		{errs.Wrap(fruitslot.ErrInsufficientFunds, "spin"), http.StatusConflict},
		{errs.NewWarn("bad delta"), http.StatusBadRequest},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("StatusCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrs(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, fruitslot.ErrBusy)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	Errs(rec, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("nil error should not write, got %d", rec.Code)
	}
}
