package service

import "testing"

func TestLocalIdentity(t *testing.T) {
	cases := map[string]string{
		"mirrorsvc":        `.\mirrorsvc`,
		`HOST\mirrorsvc`:   `HOST\mirrorsvc`,
		`.\mirrorsvc`:      `.\mirrorsvc`,
		"svc@corp.example": "svc@corp.example",
	}
	for in, want := range cases {
		if got := LocalIdentity(in); got != want {
			t.Errorf("LocalIdentity(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameIdentity(t *testing.T) {
	cases := []struct {
		identity string
		want     bool
	}{
		{`.\mirrorsvc`, true},
		{`.\MirrorSvc`, true},
		{`HOST\mirrorsvc`, true},
		{`host\mirrorsvc`, true},
		{"mirrorsvc", true},
		{`OTHER\mirrorsvc`, false},
		{"LocalSystem", false},
		{`NT AUTHORITY\LocalService`, false},
	}
	for _, tc := range cases {
		if got := SameIdentity(tc.identity, "mirrorsvc", "HOST"); got != tc.want {
			t.Errorf("SameIdentity(%q) = %v, want %v", tc.identity, got, tc.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateRunning.String() != "running" {
		t.Errorf("StateRunning = %q", StateRunning.String())
	}
	if StateStopped.String() != "stopped" {
		t.Errorf("StateStopped = %q", StateStopped.String())
	}
	if State(99).String() != "unknown" {
		t.Errorf("State(99) = %q", State(99).String())
	}
}
