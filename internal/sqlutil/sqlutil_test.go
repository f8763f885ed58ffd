package sqlutil

import (
	"reflect"
	"testing"
)

func TestInClauseArgs(t *testing.T) {
	tests := []struct {
		name     string
		items    []int64
		wantPh   string
		wantArgs []any
	}{
		{name: "empty", items: nil, wantPh: "NULL", wantArgs: nil},
		{name: "one", items: []int64{7}, wantPh: "?", wantArgs: []any{int64(7)}},
		{name: "many", items: []int64{1, 2, 3}, wantPh: "?, ?, ?", wantArgs: []any{int64(1), int64(2), int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ph, args := InClauseArgs(tt.items)
			if ph != tt.wantPh {
				t.Errorf("placeholders = %q, want %q", ph, tt.wantPh)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestLimitOrAll(t *testing.T) {
	for in, want := range map[int]int{-3: -1, 0: -1, 5: 5} {
		if got := LimitOrAll(in); got != want {
			t.Errorf("LimitOrAll(%d) = %d, want %d", in, got, want)
		}
	}
	if NullIfEmpty("") != nil || NullIfEmpty("x") != "x" {
		t.Error("NullIfEmpty mismatch")
	}
}
