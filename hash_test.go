package sarf

import "testing"

func TestDigest(t *testing.T) {
	data := []byte("فَعَلَ\x00input")

	for _, alg := range []int{AlgXXHash3, AlgFNV1a, AlgBlake2b} {
		got := digest(data, alg)
		if len(got) != 16 {
			t.Errorf("alg %d digest length = %d, want 16", alg, len(got))
		}
		if again := digest(data, alg); again != got {
			t.Errorf("alg %d not deterministic: %s vs %s", alg, got, again)
		}
		if same := digest([]byte("other"), alg); same == got {
			t.Errorf("alg %d collides on different input", alg)
		}
	}

	// The three algorithms disagree with each other on the same input.
	a := digest(data, AlgXXHash3)
	b := digest(data, AlgFNV1a)
	c := digest(data, AlgBlake2b)
	if a == b || b == c || a == c {
		t.Errorf("algorithms agree: %s %s %s", a, b, c)
	}
}
