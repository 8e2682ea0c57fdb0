package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme fell back to %q", got)
	}
}

func TestNamesAndValid(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() = %v", names)
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("solarized") {
		t.Error("Valid(solarized) = true")
	}
}

func TestSigned(t *testing.T) {
	th := FlexokiDark
	if th.Signed(-1) != th.Red || th.Signed(0) != th.GreenBright {
		t.Error("Signed picked the wrong role")
	}
}
