package cart

import "sync"

// Drawer is the open/closed flag for the slide-out cart panel. It is kept
// apart from the engine on purpose: it is presentation state, it is never
// persisted, and it must not leak into pricing or lifecycle logic.
type Drawer struct {
	mu   sync.Mutex
	open bool
}

// Open sets the drawer open. Add convention: adding to the cart opens the
// drawer, so handlers call this after Engine.Add.
func (d *Drawer) Open() {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
}

// Close sets the drawer closed.
func (d *Drawer) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}

// Toggle flips the drawer and returns the new state.
func (d *Drawer) Toggle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = !d.open
	return d.open
}

// IsOpen reports the current state.
func (d *Drawer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}
