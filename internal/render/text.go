package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/aqicn/aqicn/internal/airquality"
)

// Renderer displays reports and lookup failures on an output surface.
type Renderer interface {
	Current(r *airquality.Report) error
	Forecast(f *airquality.Forecast) error
	Failure(err error) error
}

// TextRenderer writes reports line by line, each preceded by a blank line.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Current writes a current-conditions report.
func (t *TextRenderer) Current(r *airquality.Report) error {
	return t.write(CurrentRows(r))
}

// Forecast writes a daily forecast.
func (t *TextRenderer) Forecast(f *airquality.Forecast) error {
	return t.write(ForecastRows(f))
}

// Failure writes the user-facing message for err.
func (t *TextRenderer) Failure(err error) error {
	_, werr := fmt.Fprintf(t.w, "\n %s\n", FailureMessage(err))
	return werr
}

func (t *TextRenderer) write(rows []Row) error {
	_, err := io.WriteString(t.w, "\n"+strings.Join(Lines(rows), "\n")+"\n")
	return err
}
