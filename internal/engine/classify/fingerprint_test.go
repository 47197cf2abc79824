package classify

import "testing"

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("connection refused on port 8080")
	b := Fingerprint("connection refused on port 8080")
	if a != b {
		t.Errorf("same text should fingerprint identically: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
}

func TestFingerprintCollapsesVolatileFragments(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "ports",
			a:    "connection refused on port 8080",
			b:    "connection refused on port 9090",
		},
		{
			name: "hex addresses",
			a:    "segfault at 0xdeadbeef",
			b:    "segfault at 0xcafebabe",
		},
		{
			name: "path segments",
			a:    "open /tmp/data.json: no such file",
			b:    "open /var/data.json: no such file",
		},
		{
			name: "case and whitespace",
			a:    "  Connection Refused  ",
			b:    "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Fingerprint(tt.a) != Fingerprint(tt.b) {
				t.Errorf("expected %q and %q to share a fingerprint", tt.a, tt.b)
			}
		})
	}
}

func TestFingerprintDistinguishesDifferentFailures(t *testing.T) {
	if Fingerprint("connection refused") == Fingerprint("disk full") {
		t.Error("distinct failures should not collide")
	}
}
