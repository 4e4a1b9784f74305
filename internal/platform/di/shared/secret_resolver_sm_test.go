package shared

import "testing"

func TestSecretVersionName(t *testing.T) {
	cases := []struct {
		project, id, want string
		wantErr           bool
	}{
		{"vibe", "mp-token", "projects/vibe/secrets/mp-token/versions/latest", false},
		{"vibe", "mp-token:3", "projects/vibe/secrets/mp-token/versions/3", false},
		{"", "projects/other/secrets/x", "projects/other/secrets/x/versions/latest", false},
		{"", "projects/other/secrets/x/versions/2", "projects/other/secrets/x/versions/2", false},
		{"", "mp-token", "", true},
		{"vibe", " ", "", true},
	}
	for _, tc := range cases {
		got, err := SecretVersionName(tc.project, tc.id)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("SecretVersionName(%q, %q) = %q, %v", tc.project, tc.id, got, err)
		}
	}
}

func TestRedactPath(t *testing.T) {
	if got := redactPath(`C:\keys\sa.json`); got != "***/sa.json" {
		t.Errorf("got %q", got)
	}
	if got := redactPath("/etc/keys/"); got != "***" {
		t.Errorf("got %q", got)
	}
}
