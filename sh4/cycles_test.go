package sh4

import "testing"

// exercises the dual-issue approximation from spec.md §4.5: an instruction
// is free when the previous one was non-CO, the current one is non-CO, and
// the two are in different groups, except MT-after-MT which is always
// charged.
func TestCountInstCyclesDualIssue(t *testing.T) {
	ex := &InstOpcode{Group: GroupEX, Cycles: 1}
	mt := &InstOpcode{Group: GroupMT, Cycles: 1}
	co := &InstOpcode{Group: GroupCO, Cycles: 4}

	var last IssueGroup = GroupNONE
	if got := countInstCycles(mt, &last); got != 0 {
		t.Fatalf("first instruction after GroupNONE should be free, got %d", got)
	}
	if got := countInstCycles(mt, &last); got != 1 {
		t.Fatalf("MT-after-MT must be charged, got %d", got)
	}
	if got := countInstCycles(ex, &last); got != 0 {
		t.Fatalf("EX-after-MT should be free, got %d", got)
	}
	if got := countInstCycles(co, &last); got != 4 {
		t.Fatalf("CO is never free, got %d", got)
	}
	if got := countInstCycles(ex, &last); got != 1 {
		t.Fatalf("instruction-after-CO must be charged, got %d", got)
	}
}
