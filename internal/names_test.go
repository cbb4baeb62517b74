package internal

import (
	"os"
	"strings"
	"testing"
)

func TestResolveUsername(t *testing.T) {
	got, err := ResolveUsername(`CORP\alice`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `CORP\alice` {
		t.Errorf("qualified name changed: %s", got)
	}

	hostname, err := os.Hostname()
	if err != nil {
		t.Skipf("no hostname: %v", err)
	}
	got, err = ResolveUsername("mirrorsvc")
	if err != nil {
		t.Fatal(err)
	}
	if got != hostname+`\mirrorsvc` {
		t.Errorf("expected %s\\mirrorsvc, got %s", hostname, got)
	}
	if !strings.HasSuffix(got, `\mirrorsvc`) {
		t.Errorf("bare name lost: %s", got)
	}
}

func TestSplitDomainAndName(t *testing.T) {
	tests := []struct {
		in     string
		domain string
		name   string
	}{
		{`HOST\mirrorsvc`, "HOST", "mirrorsvc"},
		{"mirrorsvc", "", "mirrorsvc"},
		{`NT AUTHORITY\SYSTEM`, "NT AUTHORITY", "SYSTEM"},
	}
	for _, tt := range tests {
		domain, name := SplitDomainAndName(tt.in)
		if domain != tt.domain || name != tt.name {
			t.Errorf("SplitDomainAndName(%q) = %q, %q; want %q, %q", tt.in, domain, name, tt.domain, tt.name)
		}
	}
}
