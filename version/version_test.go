package version

import "testing"

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Version {
		t.Errorf("expected version %q, got %q", Version, info.Version)
	}
	if Version == "dev" && info.IsRelease {
		t.Error("dev build must not report as release")
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("expected 7-char commit, got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("expected short input unchanged, got %q", got)
	}
}
