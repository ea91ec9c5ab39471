package picker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var bounds = Rect{X: 10, Y: 10, Width: 200, Height: 40}

func newPicker(selected string) (*Picker, *PointerBus, *[]string) {
	var changes []string
	bus := NewPointerBus()
	p := New(bus, selected, func(id string) { changes = append(changes, id) })
	return p, bus, &changes
}

func TestSelected_DefaultsToFirst(t *testing.T) {
	p, _, _ := newPicker("not-a-model")
	require.Equal(t, "llama3-70b-8192", p.Selected().ID)

	p.SetSelected("llama3.2:1b")
	require.Equal(t, "llama3.2:1b", p.Selected().ID)
	require.Len(t, p.Descriptors(), 2)
}

func TestSelect_NewModelFiresOnceAndCloses(t *testing.T) {
	p, _, changes := newPicker("llama3-70b-8192")
	p.Toggle()
	require.True(t, p.IsOpen())

	require.NoError(t, p.Select("llama3.2:1b"))
	require.Equal(t, []string{"llama3.2:1b"}, *changes)
	require.False(t, p.IsOpen())
	require.Equal(t, "llama3.2:1b", p.Selected().ID)
}

func TestSelect_SameModelClosesWithoutCallback(t *testing.T) {
	p, _, changes := newPicker("llama3-70b-8192")
	p.Open()

	require.NoError(t, p.Select("llama3-70b-8192"))
	require.Empty(t, *changes)
	require.False(t, p.IsOpen())
}

func TestSelect_UnknownModel(t *testing.T) {
	p, _, changes := newPicker("")
	p.Open()

	require.Error(t, p.Select("gpt-4"))
	require.Empty(t, *changes)
	require.True(t, p.IsOpen())
}

func TestToggle(t *testing.T) {
	p, _, _ := newPicker("")
	require.False(t, p.IsOpen())
	p.Toggle()
	require.True(t, p.IsOpen())
	p.Toggle()
	require.False(t, p.IsOpen())
	p.Open()
	p.Close()
	require.False(t, p.IsOpen())
}

func TestClickOutsideClosesWhileMounted(t *testing.T) {
	p, bus, _ := newPicker("")
	release := p.Mount(bounds)
	defer release()
	require.Equal(t, 1, bus.Len())

	p.Open()
	bus.Dispatch(PointerEvent{At: Point{X: 50, Y: 20}})
	require.True(t, p.IsOpen(), "click inside keeps it open")

	bus.Dispatch(PointerEvent{At: Point{X: 500, Y: 500}})
	require.False(t, p.IsOpen(), "click outside closes it")
}

func TestUnmountReleasesObserver(t *testing.T) {
	p, bus, _ := newPicker("")
	release := p.Mount(bounds)
	require.Equal(t, 1, bus.Len())

	release()
	release()
	require.Equal(t, 0, bus.Len())

	p.Open()
	bus.Dispatch(PointerEvent{At: Point{X: 500, Y: 500}})
	require.True(t, p.IsOpen(), "unmounted picker ignores pointer events")

	p.Unmount()
	require.Equal(t, 0, bus.Len())
}

func TestRemountResetsToClosed(t *testing.T) {
	p, bus, _ := newPicker("")
	p.Mount(bounds)
	p.Open()

	p.Mount(bounds)
	require.False(t, p.IsOpen())
	require.Equal(t, 1, bus.Len(), "remount must not leak the previous observer")

	p.Unmount()
	require.Equal(t, 0, bus.Len())
}

func TestSetBounds(t *testing.T) {
	p, bus, _ := newPicker("")
	defer p.Mount(bounds)()

	p.SetBounds(Rect{X: 400, Y: 400, Width: 200, Height: 200})
	p.Open()
	bus.Dispatch(PointerEvent{At: Point{X: 500, Y: 500}})
	require.True(t, p.IsOpen())
}

func TestRectContains(t *testing.T) {
	require.True(t, bounds.Contains(Point{X: 10, Y: 10}))
	require.False(t, bounds.Contains(Point{X: 210, Y: 20}))
	require.False(t, bounds.Contains(Point{X: 9.9, Y: 20}))
}

func TestPointerBus_Concurrent(t *testing.T) {
	bus := NewPointerBus()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(func(PointerEvent) {})
			bus.Dispatch(PointerEvent{})
			unsub()
		}()
	}
	wg.Wait()
	require.Equal(t, 0, bus.Len())
}

func TestCallbackMaySetSelection(t *testing.T) {
	bus := NewPointerBus()
	var p *Picker
	p = New(bus, "", func(id string) { p.SetSelected(id) })

	require.NoError(t, p.Select("llama3.2:1b"))
	require.Equal(t, "llama3.2:1b", p.Selected().ID)
}

func TestSelect_ReplacesUnknownHostValue(t *testing.T) {
	p, _, changes := newPicker("gpt-4-retired")
	require.Equal(t, "llama3-70b-8192", p.Selected().ID)

	require.NoError(t, p.Select("llama3-70b-8192"))
	require.Equal(t, []string{"llama3-70b-8192"}, *changes)

	// the host value is now valid, so picking it again is a no-op
	require.NoError(t, p.Select("llama3-70b-8192"))
	require.Len(t, *changes, 1)
}
