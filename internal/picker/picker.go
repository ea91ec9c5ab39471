// Package picker implements the model selection dropdown as a headless state
// component. Rendering is left to the host UI.
package picker

import (
	"fmt"
	"sync"

	"github.com/nikhilbhutani/geniechat/internal/models"
)

type Picker struct {
	mu          sync.Mutex
	descriptors []models.Descriptor
	selected    string
	open        bool
	onChange    func(id string)

	source  PointerSource
	bounds  Rect
	release func()
}

// New creates a picker over the built-in catalog. selected is the
// externally held selection; onChange is called when the user picks a
// different model.
func New(source PointerSource, selected string, onChange func(id string)) *Picker {
	return &Picker{
		descriptors: models.Catalog(),
		selected:    selected,
		onChange:    onChange,
		source:      source,
	}
}

func (p *Picker) Descriptors() []models.Descriptor {
	out := make([]models.Descriptor, len(p.descriptors))
	copy(out, p.descriptors)
	return out
}

// Selected returns the descriptor for the current selection, or the first
// descriptor when the selection matches no known id.
func (p *Picker) Selected() models.Descriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedLocked()
}

func (p *Picker) selectedLocked() models.Descriptor {
	for _, d := range p.descriptors {
		if d.ID == p.selected {
			return d
		}
	}
	return p.descriptors[0]
}

// SetSelected updates the externally held selection without firing onChange.
func (p *Picker) SetSelected(id string) {
	p.mu.Lock()
	p.selected = id
	p.mu.Unlock()
}

func (p *Picker) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Picker) Toggle() {
	p.mu.Lock()
	p.open = !p.open
	p.mu.Unlock()
}

func (p *Picker) Open() {
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

func (p *Picker) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

// Select picks the descriptor with the given id and closes the dropdown.
// onChange fires once whenever id differs from the host's value, including
// when that value names no known model.
func (p *Picker) Select(id string) error {
	p.mu.Lock()
	known := false
	for _, d := range p.descriptors {
		if d.ID == id {
			known = true
			break
		}
	}
	if !known {
		p.mu.Unlock()
		return fmt.Errorf("unknown model %q", id)
	}

	changed := p.selected != id
	p.selected = id
	p.open = false
	onChange := p.onChange
	p.mu.Unlock()

	if changed && onChange != nil {
		onChange(id)
	}
	return nil
}

// Mount starts watching for pointer-downs outside bounds, which close the
// dropdown. It resets the dropdown to closed. The returned func releases the
// subscription and is safe to call more than once.
func (p *Picker) Mount(bounds Rect) func() {
	p.Unmount()

	unsubscribe := p.source.Subscribe(p.handlePointer)

	var once sync.Once
	release := func() {
		once.Do(unsubscribe)
	}

	p.mu.Lock()
	p.open = false
	p.bounds = bounds
	p.release = release
	p.mu.Unlock()

	return release
}

// Unmount releases the pointer subscription if the picker is mounted.
func (p *Picker) Unmount() {
	p.mu.Lock()
	release := p.release
	p.release = nil
	p.mu.Unlock()

	if release != nil {
		release()
	}
}

// SetBounds updates the on-screen area after a layout change.
func (p *Picker) SetBounds(bounds Rect) {
	p.mu.Lock()
	p.bounds = bounds
	p.mu.Unlock()
}

func (p *Picker) handlePointer(ev PointerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open && !p.bounds.Contains(ev.At) {
		p.open = false
	}
}
