package render

import (
	"strings"
	"sync"

	"github.com/aqicn/aqicn/internal/airquality"
)

// DefaultPanelLimit bounds the panel text in bytes.
const DefaultPanelLimit = 64 << 10

const blockSeparator = "\n\n"

// Panel is an appendable text area. Blocks are separated by a blank line and
// the oldest blocks are dropped once the text exceeds the limit. The newest
// block is always kept, even if it alone is over the limit.
type Panel struct {
	mu     sync.Mutex
	blocks []string
	limit  int
}

// NewPanel creates an empty panel. A non-positive limit uses
// DefaultPanelLimit.
func NewPanel(limit int) *Panel {
	if limit <= 0 {
		limit = DefaultPanelLimit
	}
	return &Panel{limit: limit}
}

// RestorePanel rebuilds a panel from text previously returned by String.
func RestorePanel(text string, limit int) *Panel {
	p := NewPanel(limit)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, b := range strings.Split(text, blockSeparator) {
		if strings.TrimSpace(b) != "" {
			p.blocks = append(p.blocks, strings.Trim(b, "\n"))
		}
	}
	p.trim()
	return p
}

// Append adds a block of text.
func (p *Panel) Append(block string) {
	block = strings.Trim(block, "\n")
	if block == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks = append(p.blocks, block)
	p.trim()
}

// Clear empties the panel.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks = nil
}

// Len returns the number of blocks.
func (p *Panel) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.blocks)
}

// String returns the panel text.
func (p *Panel) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.blocks, blockSeparator)
}

// trim drops the oldest blocks until the text fits. Callers hold mu or own p.
func (p *Panel) trim() {
	size := 0
	for _, b := range p.blocks {
		size += len(b) + len(blockSeparator)
	}
	for len(p.blocks) > 1 && size-len(blockSeparator) > p.limit {
		size -= len(p.blocks[0]) + len(blockSeparator)
		p.blocks = p.blocks[1:]
	}
}

// PanelRenderer appends each report or failure to a Panel as one block.
type PanelRenderer struct {
	panel *Panel
}

// NewPanelRenderer creates a renderer appending to panel.
func NewPanelRenderer(panel *Panel) *PanelRenderer {
	return &PanelRenderer{panel: panel}
}

// Current appends a current-conditions report.
func (r *PanelRenderer) Current(report *airquality.Report) error {
	r.panel.Append(strings.Join(Lines(CurrentRows(report)), "\n"))
	return nil
}

// Forecast appends a daily forecast.
func (r *PanelRenderer) Forecast(f *airquality.Forecast) error {
	r.panel.Append(strings.Join(Lines(ForecastRows(f)), "\n"))
	return nil
}

// Failure appends the user-facing message for err.
func (r *PanelRenderer) Failure(err error) error {
	r.panel.Append(FailureMessage(err))
	return nil
}
