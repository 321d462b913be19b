package term

import (
	"strings"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pocketpet/server/internal/render"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	return screen
}

func screenText(screen tcell.Screen) string {
	width, height := screen.Size()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestSurfaceDrawsStatsAndSprite(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen)

	s.SetText(render.DisplayHunger, "87%")
	s.SetText(render.DisplayWeight, "60 lbs")
	s.SetImage(render.ElementPet, "images/animals/kitty/pet-hungry.png")
	s.SetImage(render.ElementHat, "images/outfit-hat-crown.png")
	s.SetTransform(render.ElementHat, "translate(0%, -5%) rotate(0deg)")
	s.Flush()

	text := screenText(screen)
	for _, want := range []string{
		"kitty: hungry",
		"87%",
		"60 lbs",
		"outfit-hat-crown.png translate(0%, -5%) rotate(0deg)",
		"[f] feed",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Screen is missing %q", want)
		}
	}
	if strings.Contains(text, "Cape") {
		t.Errorf("Unequipped cape should not be drawn")
	}
}

func TestSurfaceDrawsDeathNotice(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen)

	s.DisableActions()
	s.Notify("Your pet has passed away!")
	s.Flush()

	text := screenText(screen)
	if !strings.Contains(text, "Your pet has passed away!") {
		t.Errorf("Notice not drawn")
	}
	if strings.Contains(text, "[f] feed") {
		t.Errorf("Feed control should be gone after actions are disabled")
	}
}

func TestSpriteLabel(t *testing.T) {
	if got := spriteLabel("images/animals/puppy/pet-strong.png"); got != "puppy: strong" {
		t.Errorf("spriteLabel = %q", got)
	}
	if got := spriteLabel(""); got != "-" {
		t.Errorf("spriteLabel(empty) = %q", got)
	}
}

func TestConcurrentFlushAndResizeLeaveACompleteFrame(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen)
	s.SetText(render.DisplayHunger, "64%")
	s.SetImage(render.ElementPet, "images/animals/kitty/pet-neutral.png")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Flush()
		}()
		go func() {
			defer wg.Done()
			s.Resize()
		}()
	}
	wg.Wait()

	text := screenText(screen)
	for _, want := range []string{"Pocket Pet", "kitty: neutral", "64%", "[f] feed"} {
		if strings.Contains(text, want) {
			continue
		}
		t.Errorf("Screen is missing %q after concurrent repaints", want)
	}
	if strings.Count(text, "Pocket Pet") != 1 {
		t.Errorf("Title drawn more than once")
	}
}
