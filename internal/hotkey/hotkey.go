// Package hotkey implements the local "panic button" escape combo described
// in SPEC_FULL.md §5: a configurable key combination that, once matched on
// the local keyboard, lets the user regain control of their own input
// regardless of the session's current state (e.g. by tearing down the
// active session). Grounded on
// _examples/aluo96078-vkvm/internal/hotkey/hotkey.go's combo-matching
// Manager; the platform listener in hotkey_linux.go replaces the teacher's
// darwin/windows global-hook backends with a passive evdev read loop, in
// the style of
// _examples/McNull-blender_navcap's KeyState.isPressed/abortCombo pattern.
package hotkey

import (
	"log"
	"strings"
	"sync"
)

// Manager tracks which combo parts are currently held and fires callbacks
// for every registered combo whose parts are all simultaneously down.
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool
}

type registeredHotkey struct {
	parts    []string
	original string
	callback func()
}

// NewManager creates an empty hotkey manager.
func NewManager() *Manager {
	return &Manager{currentState: make(map[string]bool)}
}

// Register adds a combo (e.g. "LEFTCTRL+LEFTALT+LEFTSHIFT+F12") and the
// callback to run when every part is simultaneously held.
func (m *Manager) Register(combo string, callback func()) {
	if combo == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.ToUpper(combo), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	m.hotkeys = append(m.hotkeys, &registeredHotkey{parts: parts, original: combo, callback: callback})
}

// UpdateState records a key transition and checks for newly matched combos.
func (m *Manager) UpdateState(key string, isDown bool) {
	m.mu.Lock()
	key = strings.ToUpper(key)
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown {
		m.checkMatches()
	}
}

func (m *Manager) checkMatches() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}
		if match {
			log.Printf("hotkey: combo triggered: %s", hk.original)
			go hk.callback()
		}
	}
}

// Start begins the platform listener. On Linux this opens every detected
// keyboard device in non-exclusive (non-grabbing) mode so local presses
// still reach the desktop normally; see hotkey_linux.go.
func (m *Manager) Start() error {
	return m.startPlatform()
}
