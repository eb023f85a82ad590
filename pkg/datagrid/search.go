package datagrid

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/datagrid/internal/debounce"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// SearchBox coalesces keystrokes into search queries. Each Type restarts
// the delay; apply receives the latest text once typing pauses. apply runs
// on a timer goroutine, so it should hand the query to the goroutine that
// owns the table, for example by sending an ApplySearch on a channel.
type SearchBox struct {
	mu    sync.Mutex
	text  string
	timer *debounce.Timer
	apply func(query string)
}

// NewSearchBox returns a search box with the given delay. A non-positive
// delay uses types.DefaultSearchDebounce.
func NewSearchBox(delay time.Duration, apply func(query string)) *SearchBox {
	if delay <= 0 {
		delay = types.DefaultSearchDebounce
	}
	return &SearchBox{timer: debounce.New(delay), apply: apply}
}

// NewTableSearchBox returns a search box that waits the table's
// Options.SearchDebounce.
func NewTableSearchBox(t *Table, apply func(query string)) *SearchBox {
	return NewSearchBox(t.Options().SearchDebounce, apply)
}

// Delay returns how long the box waits after the last keystroke.
func (b *SearchBox) Delay() time.Duration {
	return b.timer.Delay()
}

// Type records the current input text.
func (b *SearchBox) Type(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
	b.timer.Trigger(b.fire)
}

// Text returns the current input text.
func (b *SearchBox) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Flush applies pending input now, on the calling goroutine.
func (b *SearchBox) Flush() bool {
	return b.timer.Flush()
}

// Close drops pending input.
func (b *SearchBox) Close() {
	b.timer.Stop()
}

func (b *SearchBox) fire() {
	b.apply(b.Text())
}
