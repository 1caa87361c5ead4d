package tgstore

import "testing"

func TestRef(t *testing.T) {
	ref := toRef(-1001234, 42, "BQACAgQ")
	if ref != "-1001234/42/BQACAgQ" {
		t.Fatalf("toRef = %q; want %q", ref, "-1001234/42/BQACAgQ")
	}
	chat, msg, file, err := fromRef(ref)
	if err != nil {
		t.Fatal(err)
	}
	if chat != -1001234 || msg != 42 || file != "BQACAgQ" {
		t.Fatalf("fromRef(%q) = %d, %d, %q", ref, chat, msg, file)
	}
}

func TestRefInvalid(t *testing.T) {
	for _, ref := range []string{"", "1/2", "a/2/x", "1/b/x", "1/2/"} {
		if _, _, _, err := fromRef(ref); err == nil {
			t.Fatalf("fromRef(%q) err = nil; want error", ref)
		}
	}
}
