package domain

import "testing"

func TestExportStatus_Sequence(t *testing.T) {
	order := []ExportStatus{
		ExportDraft, ExportSubmitted, ExportReadyForControl,
		ExportControlled, ExportSealed, ExportExported,
	}
	for i := 0; i < len(order)-1; i++ {
		if !order[i].CanTransitionTo(order[i+1]) {
			t.Fatalf("%s should transition to %s", order[i], order[i+1])
		}
		next, ok := order[i].Next()
		if !ok || next != order[i+1] {
			t.Fatalf("Next(%s) = %s/%v, want %s", order[i], next, ok, order[i+1])
		}
	}

	// No skipping, no going back.
	if ExportDraft.CanTransitionTo(ExportSealed) {
		t.Fatalf("draft must not jump to sealed")
	}
	if ExportSealed.CanTransitionTo(ExportControlled) {
		t.Fatalf("the sequence is forward-only")
	}
	if _, ok := ExportExported.Next(); ok {
		t.Fatalf("exported is terminal")
	}
}
