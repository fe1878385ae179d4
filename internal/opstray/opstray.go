// Package opstray provides a system tray control panel for a running
// handtrackd process. Unlike a status-only tray, its menu items drive real
// state: toggling hand consumers, swapping settings profiles, and reporting
// the last emitted hand count.
package opstray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray control surface for one handtrackd process.
type Tray struct {
	onToggleTracking func(enabled bool)
	onOpenDashboard  func()
	onSelectProfile  func(name string)
	onQuit           func()

	tracking bool
	mu       sync.RWMutex

	profiles []string

	menuToggle    *systray.MenuItem
	menuLastFrame *systray.MenuItem
	menuProfiles  []*systray.MenuItem
}

// New creates a Tray with tracking enabled by default. profiles lists the
// settings profile names to offer in the tray's profile submenu.
func New(profiles []string) *Tray {
	return &Tray{
		tracking: true,
		profiles: profiles,
	}
}

// OnToggleTracking sets the callback invoked when the operator toggles
// tracking on or off from the tray.
func (t *Tray) OnToggleTracking(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggleTracking = fn
}

// OnOpenDashboard sets the callback invoked when the operator asks to open
// the live dashboard.
func (t *Tray) OnOpenDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenDashboard = fn
}

// OnSelectProfile sets the callback invoked when the operator picks a
// settings profile from the tray's submenu.
func (t *Tray) OnSelectProfile(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSelectProfile = fn
}

// OnQuit sets the callback invoked when the operator quits from the tray.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray application. It blocks until Quit is called from the
// menu or systray.Quit is invoked elsewhere in the process.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("handtrackd")
	systray.SetTooltip("Hand Tracking Service")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuLastFrame = systray.AddMenuItem("Hands: 0", "Hands in the last emitted frame")
	t.menuLastFrame.Disable()
	systray.AddSeparator()

	profileSelected := make(chan string)
	if len(t.profiles) > 0 {
		profileMenu := systray.AddMenuItem("Profile", "Select a settings profile")
		for _, name := range t.profiles {
			item := profileMenu.AddSubMenuItem(name, "Use the "+name+" settings profile")
			t.menuProfiles = append(t.menuProfiles, item)
			go forwardProfileClicks(item.ClickedCh, name, profileSelected)
		}
		systray.AddSeparator()
	}

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the live tracking dashboard")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Stop hand tracking and quit")

	go t.handleClicks(menuDashboard, menuQuit, profileSelected)
}

// forwardProfileClicks fans a single submenu item's click channel into the
// shared profileSelected channel, tagged with that item's profile name, so
// handleClicks can select across an arbitrary number of profiles.
func forwardProfileClicks(clicked <-chan struct{}, name string, out chan<- string) {
	for range clicked {
		out <- name
	}
}

func (t *Tray) handleClicks(menuDashboard, menuQuit *systray.MenuItem, profileSelected <-chan string) {
	for {
		select {
		case <-t.menuToggle.ClickedCh:
			t.handleToggle()
		case <-menuDashboard.ClickedCh:
			t.handleOpenDashboard()
		case name := <-profileSelected:
			t.handleSelectProfile(name)
		case <-menuQuit.ClickedCh:
			t.handleQuit()
			return
		}
	}
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.tracking = !t.tracking
	tracking := t.tracking
	if tracking {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}
	callback := t.onToggleTracking
	t.mu.Unlock()

	if callback != nil {
		callback(tracking)
	}
}

func (t *Tray) handleOpenDashboard() {
	t.mu.RLock()
	callback := t.onOpenDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleSelectProfile(name string) {
	t.mu.RLock()
	callback := t.onSelectProfile
	t.mu.RUnlock()

	if callback != nil {
		callback(name)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetLastFrameHandCount updates the tray's hand-count readout.
func (t *Tray) SetLastFrameHandCount(count int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuLastFrame == nil {
		return
	}
	if count == 0 {
		t.menuLastFrame.SetTitle("Hands: 0")
		return
	}
	t.menuLastFrame.SetTitle(handCountTitle(count))
}

func handCountTitle(count int) string {
	if count == 1 {
		return "Hands: 1"
	}
	return "Hands: " + itoa(count)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// IsTracking reports the current tracking-enabled state.
func (t *Tray) IsTracking() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracking
}
