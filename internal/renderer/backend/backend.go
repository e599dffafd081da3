// Package backend provides the display backends for the renderer.
//
// Backends translate their native input into the engine's key and pointer
// events. Pointer positions are reported in cell coordinates; the
// renderer's viewport converts them to content units.
package backend

import (
	"sync"

	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/renderer/core"
)

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventPointer
	EventResize
	EventInterrupt
)

// Event is a backend event.
type Event struct {
	Type EventType

	Key     key.Event
	Pointer pointer.Event

	// Width and Height are set for resize events, in cells.
	Width, Height int

	// Data carries the payload of an interrupt.
	Data any
}

// Backend draws cells and produces input events.
type Backend interface {
	// Init prepares the backend. It must be called first.
	Init() error

	// Shutdown restores the display.
	Shutdown()

	// Size returns the display size in cells.
	Size() (width, height int)

	// SetCell sets a single cell. Positions outside the display are
	// ignored.
	SetCell(x, y int, cell core.Cell)

	// Fill fills a rectangle with cell.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear resets every cell to the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent blocks for the next event. It returns EventNone once the
	// backend has shut down.
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data.
	Interrupt(data any)

	// EnableMouse enables pointer reporting.
	EnableMouse()

	// DisableMouse disables pointer reporting.
	DisableMouse()
}

// NullBackend is an in-memory backend for tests.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	shows         int
	mouse         bool
	events        chan Event
	done          chan struct{}
	once          sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
	b.cells = blank(width, height)
	return b
}

func blank(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyCell()
		}
	}
	return cells
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.once.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at (x,y), or an empty cell outside the display.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := max(rect.Top, 0); y < rect.Bottom && y < b.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = blank(b.width, b.height)
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Row returns row y as a string, for assertions.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.Rune != 0 {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return Event{}
	}
}

// PostEvent queues an event for PollEvent.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

func (b *NullBackend) Interrupt(data any) {
	b.PostEvent(Event{Type: EventInterrupt, Data: data})
}

func (b *NullBackend) EnableMouse() {
	b.mu.Lock()
	b.mouse = true
	b.mu.Unlock()
}

func (b *NullBackend) DisableMouse() {
	b.mu.Lock()
	b.mouse = false
	b.mu.Unlock()
}

// MouseEnabled reports whether pointer reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse
}

// Resize changes the size and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.cells = blank(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

var (
	_ Backend = (*NullBackend)(nil)
	_ Backend = (*Terminal)(nil)
)
