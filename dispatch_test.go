package kernelrun

import (
	"testing"
)

func TestExecute_EmptyInput(t *testing.T) {
	// No GPU work happens for an empty input, so a bare runner suffices.
	r := &Runner{log: NewNopLogger()}

	out, err := Execute(r, KernelCollatz, []uint32(nil))
	if err != nil {
		t.Fatalf("empty dispatch: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil result, got %v", out)
	}
}
