package render

import "testing"

func TestRecorderHidesElementWithEmptySource(t *testing.T) {
	r := NewRecorder(false)
	r.SetImage(ElementCape, "images/outfit-cape-red.png")
	r.SetTransform(ElementCape, "translate(0%, 1%) rotate(0deg)")

	r.SetImage(ElementCape, "")

	frame := r.Frame()
	if _, ok := frame.Images[ElementCape]; ok {
		t.Errorf("Cape image should be removed")
	}
	if _, ok := frame.Transforms[ElementCape]; ok {
		t.Errorf("Cape transform should be removed with the image")
	}
}

func TestRecorderHistoryIsolatesFrames(t *testing.T) {
	r := NewRecorder(true)
	r.SetText(DisplayAge, "1")
	r.Flush()
	r.SetText(DisplayAge, "2")
	r.Flush()

	history := r.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(history))
	}
	if history[0].Texts[DisplayAge] != "1" || history[1].Texts[DisplayAge] != "2" {
		t.Errorf("History frames share state: %+v", history)
	}
}

func TestRecorderWithoutHistory(t *testing.T) {
	r := NewRecorder(false)
	r.SetText(DisplayAge, "1")
	r.Flush()
	if len(r.History()) != 0 {
		t.Errorf("History should stay empty")
	}
}

func TestRecorderNotices(t *testing.T) {
	r := NewRecorder(false)
	r.Notify("first")
	r.DisableActions()

	frame := r.Frame()
	if frame.Notice != "first" || !frame.ActionsDisabled {
		t.Errorf("Unexpected frame %+v", frame)
	}
	if n := r.Notices(); len(n) != 1 || n[0] != "first" {
		t.Errorf("Unexpected notices %v", n)
	}
}
