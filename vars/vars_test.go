package vars

import (
	"testing"
	"time"
)

func TestFirstNonZero(t *testing.T) {
	if got := FirstNonZero("", "flag", "file"); got != "flag" {
		t.Fatalf("got %q", got)
	}
	if got := FirstNonZero(0, 0); got != 0 {
		t.Fatalf("got %v", got)
	}
	if got := FirstNonZero(time.Duration(0), time.Second); got != time.Second {
		t.Fatalf("got %v", got)
	}
}

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true":  true,
		"Yes":   true,
		" on ":  true,
		"1":     true,
		"false": false,
		"0":     false,
		"off":   false,
		"":      false,
		"maybe": false,
	} {
		if got := StrToBool(str); got != expected {
			t.Fatalf("%q: got %v", str, got)
		}
	}
}
