// Package render defines the rendering surface the simulation draws onto.
package render

import "sync"

// ElementID names a visual element that carries an image.
type ElementID string

const (
	ElementPet     ElementID = "pet-image"
	ElementHat     ElementID = "hat-overlay"
	ElementCape    ElementID = "cape-overlay"
	ElementGlasses ElementID = "glasses-overlay"
)

// DisplayID names a text display for one stat.
type DisplayID string

const (
	DisplayHunger    DisplayID = "hunger-level"
	DisplayHappiness DisplayID = "happiness-level"
	DisplayAge       DisplayID = "age-level"
	DisplayWeight    DisplayID = "weight-level"
	DisplayStrength  DisplayID = "strength-level"
)

// Surface receives the render stream. An empty image source hides the element.
type Surface interface {
	SetImage(el ElementID, src string)
	SetTransform(el ElementID, transform string)
	SetText(d DisplayID, text string)
	// Notify raises a blocking notice to the user.
	Notify(message string)
	// DisableActions permanently disables feed and play.
	DisableActions()
}

// Flusher is implemented by surfaces that batch updates into frames.
type Flusher interface {
	Flush()
}

// Frame is the complete visible state of a surface.
type Frame struct {
	Images          map[ElementID]string `json:"images"`
	Transforms      map[ElementID]string `json:"transforms"`
	Texts           map[DisplayID]string `json:"texts"`
	Notice          string               `json:"notice,omitempty"`
	ActionsDisabled bool                 `json:"actions_disabled"`
}

func newFrame() Frame {
	return Frame{
		Images:     make(map[ElementID]string),
		Transforms: make(map[ElementID]string),
		Texts:      make(map[DisplayID]string),
	}
}

func (f Frame) clone() Frame {
	out := newFrame()
	for k, v := range f.Images {
		out.Images[k] = v
	}
	for k, v := range f.Transforms {
		out.Transforms[k] = v
	}
	for k, v := range f.Texts {
		out.Texts[k] = v
	}
	out.Notice = f.Notice
	out.ActionsDisabled = f.ActionsDisabled
	return out
}

// Recorder is a Surface that keeps the latest value of every element.
// It backs the websocket surface and doubles as the in-memory fake in tests.
type Recorder struct {
	mu      sync.Mutex
	frame   Frame
	history []Frame
	notices []string
	keep    bool
}

// NewRecorder creates an empty recorder. With keepHistory every Flush
// appends a copy of the frame to History.
func NewRecorder(keepHistory bool) *Recorder {
	return &Recorder{frame: newFrame(), keep: keepHistory}
}

func (r *Recorder) SetImage(el ElementID, src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if src == "" {
		delete(r.frame.Images, el)
		delete(r.frame.Transforms, el)
		return
	}
	r.frame.Images[el] = src
}

func (r *Recorder) SetTransform(el ElementID, transform string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Transforms[el] = transform
}

func (r *Recorder) SetText(d DisplayID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Texts[d] = text
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.Notice = message
	r.notices = append(r.notices, message)
}

func (r *Recorder) DisableActions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame.ActionsDisabled = true
}

// Flush snapshots the frame into the history when enabled.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keep {
		r.history = append(r.history, r.frame.clone())
	}
}

// Frame returns a copy of the current frame.
func (r *Recorder) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame.clone()
}

// History returns copies of every flushed frame.
func (r *Recorder) History() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.history))
	copy(out, r.history)
	return out
}

// Notices returns every notice raised so far.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}
