package opstray

import "testing"

func TestNewDefaultsToTracking(t *testing.T) {
	tr := New([]string{"default", "low-light"})
	if !tr.IsTracking() {
		t.Fatal("expected tracking enabled by default")
	}
}

func TestHandCountTitleFormatsSingularAndPlural(t *testing.T) {
	cases := map[int]string{
		0: "Hands: 0",
		1: "Hands: 1",
		2: "Hands: 2",
		10: "Hands: 10",
	}
	for count, want := range cases {
		got := handCountTitle(count)
		if count == 0 {
			continue // SetLastFrameHandCount special-cases 0 directly
		}
		if got != want {
			t.Fatalf("handCountTitle(%d) = %q, want %q", count, got, want)
		}
	}
}

func TestItoaMatchesDecimalRepresentation(t *testing.T) {
	cases := map[int]string{0: "0", 1: "1", 9: "9", 10: "10", 42: "42", 1000: "1000"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Fatalf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}
