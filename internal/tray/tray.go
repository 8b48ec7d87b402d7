// Package tray shows this client's connection state in the system tray.
// Grounded on _examples/aluo96078-vkvm/internal/tray/tray.go's
// getlantern/systray wrapper, re-themed from monitor-profile switching to
// session connection state (Disconnected/Connecting/Active) with a
// Reconnect and Quit action.
package tray

import (
	"fmt"

	"github.com/getlantern/systray"
)

// MenuItem is a tray menu entry.
type MenuItem struct {
	ID       int
	Title    string
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu.
type Tray struct {
	items     []*MenuItem
	statusID  int
	onReady   func()
	onExit    func()
	readyCh   chan struct{}
	quitCh    chan struct{}
}

// New creates a tray with a status line (updated via SetStatus), a
// Reconnect action, a separator, and a Quit action.
func New(onReconnect, onQuit func()) *Tray {
	t := &Tray{
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}

	t.onReady = func() {
		systray.SetTitle("Synergy Client")
		systray.SetTooltip("Synergy-compatible input client")
		close(t.readyCh)
	}
	t.onExit = func() {
		close(t.quitCh)
	}

	t.statusID = t.AddMenuItem("Status: disconnected", nil)
	t.AddMenuItem("Reconnect now", onReconnect)
	t.AddSeparator()
	t.AddMenuItem("Quit", onQuit)

	return t
}

// AddMenuItem adds a menu item and returns its id.
func (t *Tray) AddMenuItem(title string, callback func()) int {
	id := len(t.items)
	t.items = append(t.items, &MenuItem{ID: id, Title: title, Callback: callback})
	return id
}

// AddSeparator adds a separator.
func (t *Tray) AddSeparator() {
	t.items = append(t.items, nil)
}

// SetStatus updates the status line shown at the top of the menu, e.g.
// "Status: active (held keys: 0)".
func (t *Tray) SetStatus(state string, heldKeys int) {
	title := fmt.Sprintf("Status: %s (held keys: %d)", state, heldKeys)
	if item := t.items[t.statusID]; item != nil && item.item != nil {
		item.item.SetTitle(title)
	}
}

// Run starts the tray event loop; blocks until Stop is called.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

func (t *Tray) setupMenu() {
	t.onReady()
	<-t.readyCh

	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}
		item := systray.AddMenuItem(menuItem.Title, "")
		menuItem.item = item

		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
}

// Stop stops the tray.
func (t *Tray) Stop() {
	systray.Quit()
}
