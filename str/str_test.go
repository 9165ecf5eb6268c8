package str

import "testing"

func TestAliasRoundTrip(t *testing.T) {
	b := []byte("grüße")
	s := BytesAsStr(b)
	if s != "grüße" {
		t.Fatalf("got %q", s)
	}
	if &StrAsBytes(s)[0] != &b[0] {
		t.Fatal("conversion copied")
	}
}

func TestInvalidTextOffset(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", -1},
		{"plain ascii", -1},
		{"日本語", -1},
		{"ab\x00cd", 2},
		{"ok\xffno", 2},
		{"é\xc3", 2},
	}
	for _, c := range cases {
		if got := InvalidTextOffset([]byte(c.in)); got != c.want {
			t.Errorf("InvalidTextOffset(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
