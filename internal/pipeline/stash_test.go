package pipeline

import "testing"

func TestStash_Expand(t *testing.T) {
	t.Parallel()

	s := &stash{}
	inner := s.put("<code>x</code>", false)
	outer := s.put("<div>"+inner+"</div>", true)

	got := s.expand("a " + outer + " b")
	want := "a <div><code>x</code></div> b"
	if got != want {
		t.Errorf("expand() = %q, want %q", got, want)
	}
}

func TestStash_Expand_IgnoresForwardReferences(t *testing.T) {
	t.Parallel()

	s := &stash{}
	// An entry that names itself must not recurse forever.
	s.entries = append(s.entries, stashEntry{html: tokenStart + "0" + tokenEnd})

	got := s.expand(tokenStart + "0" + tokenEnd)
	if got != tokenStart+"0"+tokenEnd {
		t.Errorf("expand() = %q", got)
	}

	unknown := tokenStart + "7" + tokenEnd
	if got := s.expand(unknown); got != unknown {
		t.Errorf("expand() of unknown token = %q", got)
	}
}

func TestStash_IsBlockLine(t *testing.T) {
	t.Parallel()

	s := &stash{}
	block := s.put("<pre></pre>", true)
	inline := s.put("<code></code>", false)

	tests := []struct {
		line     string
		expected bool
	}{
		{block, true},
		{inline, false},
		{block + " tail", false},
		{"text", false},
		{tokenStart + "9" + tokenEnd, false},
	}

	for _, tt := range tests {
		if got := s.isBlockLine(tt.line); got != tt.expected {
			t.Errorf("isBlockLine(%q) = %v, want %v", tt.line, got, tt.expected)
		}
	}
}

func TestStripReserved(t *testing.T) {
	t.Parallel()

	if got := stripReserved("a" + tokenStart + "1" + tokenEnd + "b"); got != "a1b" {
		t.Errorf("stripReserved() = %q, want %q", got, "a1b")
	}
	if got := stripReserved("plain"); got != "plain" {
		t.Errorf("stripReserved() = %q, want %q", got, "plain")
	}
}
