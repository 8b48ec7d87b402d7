package platform

import "testing"

func TestRequireSupportedRejectsNonLinux(t *testing.T) {
	err := RequireSupported(Info{OS: "darwin"})
	if _, ok := err.(*ErrUnsupported); !ok {
		t.Fatalf("expected *ErrUnsupported, got %v", err)
	}
}
