// Package term draws the pet onto a character terminal.
package term

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pocketpet/server/internal/render"
)

var (
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleSprite  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon)
	styleControl = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

var statRows = []struct {
	label string
	id    render.DisplayID
}{
	{"Hunger", render.DisplayHunger},
	{"Happiness", render.DisplayHappiness},
	{"Age", render.DisplayAge},
	{"Weight", render.DisplayWeight},
	{"Strength", render.DisplayStrength},
}

var overlayRows = []struct {
	label string
	id    render.ElementID
}{
	{"Hat", render.ElementHat},
	{"Cape", render.ElementCape},
	{"Glasses", render.ElementGlasses},
}

// Surface keeps the latest frame and repaints the whole screen on Flush.
// Repaints are serialised, so the engine loop and the input loop may both
// trigger them.
type Surface struct {
	*render.Recorder
	screen tcell.Screen
	paint  sync.Mutex
}

// NewSurface wraps an initialised screen.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{Recorder: render.NewRecorder(false), screen: screen}
}

// Flush repaints the screen from the recorded frame.
func (s *Surface) Flush() {
	s.Recorder.Flush()
	s.repaint(false)
}

// Resize redraws the last frame after the terminal changed size.
func (s *Surface) Resize() {
	s.repaint(true)
}

func (s *Surface) repaint(resync bool) {
	s.paint.Lock()
	defer s.paint.Unlock()
	if resync {
		s.screen.Sync()
	}
	Draw(s.screen, s.Frame())
	s.screen.Show()
}

// Draw paints frame onto screen without showing it.
func Draw(screen tcell.Screen, frame render.Frame) {
	screen.Clear()

	y := 0
	drawText(screen, 0, y, styleTitle, "Pocket Pet")
	y += 2

	sprite := frame.Images[render.ElementPet]
	drawText(screen, 0, y, styleLabel, "Sprite")
	drawText(screen, 12, y, styleSprite, spriteLabel(sprite))
	y += 2

	for _, row := range statRows {
		drawText(screen, 0, y, styleLabel, row.label)
		drawText(screen, 12, y, styleValue, frame.Texts[row.id])
		y++
	}
	y++

	for _, row := range overlayRows {
		src, worn := frame.Images[row.id]
		if !worn {
			continue
		}
		drawText(screen, 0, y, styleLabel, row.label)
		drawText(screen, 12, y, styleValue, fmt.Sprintf("%s %s", path.Base(src), frame.Transforms[row.id]))
		y++
	}
	y++

	if frame.Notice != "" {
		drawText(screen, 0, y, styleNotice, " "+frame.Notice+" ")
		y += 2
	}

	if frame.ActionsDisabled {
		drawText(screen, 0, y, styleControl, "[q] quit")
	} else {
		drawText(screen, 0, y, styleControl, "[f] feed  [p] play  [q] quit")
	}
}

// spriteLabel turns "images/animals/kitty/pet-fat.png" into "kitty: fat".
func spriteLabel(src string) string {
	if src == "" {
		return "-"
	}
	state := strings.TrimSuffix(strings.TrimPrefix(path.Base(src), "pet-"), ".png")
	return fmt.Sprintf("%s: %s", path.Base(path.Dir(src)), state)
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	width, height := screen.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
