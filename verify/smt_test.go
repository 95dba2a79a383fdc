package verify

import (
	"strings"
	"testing"
)

const sampleSMT = `(define-fun f-pre ((x Int) (y Int)) Bool (and (> x 0) (> y 0)))
(define-fun f-spec ((x Int) (y Int)) Int (+ x y))
(define-fun f-impl ((x Int) (y Int)) Int (+ y x))
(assert (not (= (f-spec x y) (f-impl x y))))
(check-sat)`

func TestConjoinPreconditions(t *testing.T) {
	got, rewritten := conjoinPreconditions(sampleSMT)
	if !rewritten {
		t.Fatal("conjoinPreconditions() rewritten = false, want true")
	}
	want := "(assert (and (f-pre x y) (not (= (f-spec x y) (f-impl x y)))))"
	if !strings.Contains(got, want) {
		t.Errorf("rewritten query missing %q:\n%s", want, got)
	}
	if strings.Contains(got, "(assert (not (= ") {
		t.Errorf("original assertion survived the rewrite:\n%s", got)
	}
}

func TestConjoinPreconditions_NoParams(t *testing.T) {
	smt := `(define-fun g-pre () Bool true)
(assert (not (= 1 2)))
(check-sat)`

	got, rewritten := conjoinPreconditions(smt)
	if !rewritten {
		t.Fatal("rewritten = false, want true")
	}
	if !strings.Contains(got, "(assert (and g-pre (not (= 1 2))))") {
		t.Errorf("nullary precondition call wrong:\n%s", got)
	}
}

func TestConjoinPreconditions_NoPrecondition(t *testing.T) {
	smt := `(declare-const x Int)
(assert (not (= x x)))
(check-sat)`

	got, rewritten := conjoinPreconditions(smt)
	if rewritten {
		t.Error("rewritten = true, want false")
	}
	if got != smt {
		t.Errorf("document changed without a precondition:\n%s", got)
	}
}

func TestConjoinPreconditions_NoAssertion(t *testing.T) {
	smt := `(define-fun h-pre ((x Int)) Bool (> x 0))
(check-sat)`

	got, rewritten := conjoinPreconditions(smt)
	if rewritten {
		t.Error("rewritten = true, want false")
	}
	if got != smt {
		t.Errorf("document changed without a disagreement assertion")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		out  string
		want Verdict
	}{
		{"sat\n", Sat},
		{"unsat\n", Unsat},
		{"unknown\n", Unknown},
		{"", Unknown},
		// "unsat" contains "sat"; the order of checks matters.
		{"unsat\n(model)\n", Unsat},
	}
	for _, tt := range tests {
		if got := parseVerdict(tt.out); got != tt.want {
			t.Errorf("parseVerdict(%q) = %v, want %v", tt.out, got, tt.want)
		}
	}
}

func TestVerdict_String(t *testing.T) {
	tests := []struct {
		v    Verdict
		want string
	}{
		{Sat, "sat"},
		{Unsat, "unsat"},
		{Unknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Verdict.String() = %q, want %q", got, tt.want)
		}
	}
}
