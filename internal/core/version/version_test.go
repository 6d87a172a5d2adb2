package version

import "testing"

func TestGet(t *testing.T) {
	b := Get()
	if b.Service != "tripstats" || b.Release != "dev" || b.Commit == "" || b.Commit != Commit() {
		t.Fatalf("Get() = %+v", b)
	}
	if b.Commit != "none" && len(b.Commit) != 7 {
		t.Fatalf("commit %q is neither stamped nor short", b.Commit)
	}
}

func TestFinish(t *testing.T) {
	if got := finish(Build{}).Commit; got != "none" {
		t.Fatalf("empty commit = %q", got)
	}
	if got := finish(Build{Commit: "abc1234"}).Commit; got != "abc1234" {
		t.Fatalf("stamped commit = %q", got)
	}
}
