// Package tray provides a system tray color picker for huedetect.
package tray

import (
	"context"
	"reflect"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/huedetect/internal/palette"
	"github.com/ayusman/huedetect/internal/selector"
)

// Selector lets the user pick the tracked color from a tray menu.
// It implements selector.Selector.
type Selector struct {
	mu       sync.Mutex
	selected *palette.Name
	done     bool
	quit     func()

	// exited is closed when the tray shuts down.
	exited chan struct{}
}

// menuChoice pairs a color with the click channel of its menu item.
type menuChoice struct {
	name    palette.Name
	clicked <-chan struct{}
}

// New creates a new tray Selector.
func New() *Selector {
	return &Selector{quit: systray.Quit, exited: make(chan struct{})}
}

// Select runs the tray until a color is chosen or the menu is cancelled.
// systray must own the main thread, so Select must be called from main.
func (s *Selector) Select(ctx context.Context) (palette.Name, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()

	systray.Run(s.onReady, s.onExit)

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.result()
}

// onReady is called when the system tray is ready.
// It sets up one menu item per palette color plus Cancel.
func (s *Selector) onReady() {
	systray.SetTitle("huedetect")
	systray.SetTooltip("Choose a primary color to detect")

	entries := palette.All()
	items := make([]*systray.MenuItem, len(entries))
	for i, e := range entries {
		items[i] = systray.AddMenuItem(e.Name.String(), "Start detecting "+e.Name.String())
	}
	systray.AddSeparator()
	menuCancel := systray.AddMenuItem("Cancel", "Quit without detecting")

	choices := make([]menuChoice, len(items))
	for i, item := range items {
		choices[i] = menuChoice{name: entries[i].Name, clicked: item.ClickedCh}
	}

	go s.listen(s.exited, menuCancel.ClickedCh, choices)
}

// listen waits for the first menu click and acts on it. It returns without
// acting once exited is closed.
func (s *Selector) listen(exited, cancelled <-chan struct{}, choices []menuChoice) {
	cases := make([]reflect.SelectCase, 0, len(choices)+2)
	cases = append(cases,
		reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(exited)},
		reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(cancelled)},
	)
	for _, c := range choices {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(c.clicked)})
	}

	switch chosen, _, _ := reflect.Select(cases); chosen {
	case 0:
	case 1:
		s.cancel()
	default:
		s.choose(choices[chosen-2].name)
	}
}

// onExit is called when the system tray is about to exit.
// It releases the menu listener.
func (s *Selector) onExit() {
	close(s.exited)
}

// choose records the first selection and closes the tray.
func (s *Selector) choose(name palette.Name) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.selected = &name
	s.done = true
	quit := s.quit
	s.mu.Unlock()

	// Call quit outside the lock to prevent deadlocks
	quit()
}

// cancel closes the tray without a selection.
func (s *Selector) cancel() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	quit := s.quit
	s.mu.Unlock()

	quit()
}

func (s *Selector) result() (palette.Name, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return 0, selector.ErrCancelled
	}
	return *s.selected, nil
}
