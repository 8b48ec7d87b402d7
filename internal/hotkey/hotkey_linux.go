package hotkey

import (
	"log"

	"github.com/holoplot/go-evdev"

	"synergyclient/internal/keycodes"
)

// startPlatform opens every input device evdev reports and watches it for
// key events, feeding each one into UpdateState. Devices are opened
// read-only and never grabbed: this listener observes local keypresses
// purely to detect the escape combo, it must never prevent them from
// reaching the rest of the desktop. Grounded on
// _examples/McNull-blender_navcap's startListener/sendKey read loop,
// simplified to read-only observation instead of capture-and-reinject.
func (m *Manager) startPlatform() error {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return err
	}

	opened := 0
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		types := dev.CapableTypes()
		isKeyboard := false
		for _, t := range types {
			if t == evdev.EV_KEY {
				isKeyboard = true
				break
			}
		}
		if !isKeyboard {
			dev.Close()
			continue
		}
		dev.NonBlock()
		opened++
		go m.watch(dev)
	}

	log.Printf("hotkey: watching %d keyboard device(s) for the escape combo", opened)
	return nil
}

func (m *Manager) watch(dev *evdev.InputDevice) {
	defer dev.Close()
	for {
		event, err := dev.ReadOne()
		if err != nil {
			return
		}
		if event == nil || event.Type != evdev.EV_KEY {
			continue
		}
		// value 1 = down, 0 = up, 2 = autorepeat; autorepeat doesn't
		// change combo state.
		if event.Value == 2 {
			continue
		}
		vk, ok := keycodes.EventToVK(keycodes.EvCode(event.Code))
		if !ok {
			continue
		}
		m.UpdateState(string(vk), event.Value == 1)
	}
}
