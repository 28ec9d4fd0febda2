package sanitize

import "testing"

func TestText_PlainTextPassesThrough(t *testing.T) {
	got := Text("hello there, how are you?")
	if got != "hello there, how are you?" {
		t.Errorf("plain text should be unchanged, got %q", got)
	}
}

func TestText_StripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"script tag", `hi <script>alert(1)</script> there`, "hi  there"},
		{"event handler", `<img src=x onerror=alert(1)>ok`, "ok"},
		{"anchor kept as text", `<a href="javascript:x()">click</a>`, "click"},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestText_KeepsLiteralAmpersands(t *testing.T) {
	// bluemonday escapes entities on output; Text must undo that so the
	// stored message is what the user typed.
	if got := Text("fish & chips"); got != "fish & chips" {
		t.Errorf("expected literal ampersand preserved, got %q", got)
	}
}
