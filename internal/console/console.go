// Package console runs the interactive text front-end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/geocode"
	"github.com/aqicn/aqicn/internal/render"
)

// GoodbyeMessage is shown in a title box when the console exits.
const GoodbyeMessage = "Good bye from the AQICN Air Quality App!"

const menu = `
 [1] Current air quality
 [2] Air quality forecast
 [3] New location
 [q] Quit
`

// Looker performs air quality lookups.
type Looker interface {
	Current(ctx context.Context, q geocode.Query) (*airquality.Report, error)
	Forecast(ctx context.Context, q geocode.Query) (*airquality.Forecast, error)
}

// Config holds configuration for the console.
type Config struct {
	In      io.Reader
	Out     io.Writer
	Service Looker
	Logger  zerolog.Logger
}

// Console reads location fields and menu choices from In and renders
// reports to Out.
type Console struct {
	in       *bufio.Scanner
	lines    chan inputLine
	stop     chan struct{}
	start    sync.Once
	out      io.Writer
	service  Looker
	renderer render.Renderer
	logger   zerolog.Logger
}

// New creates a console.
func New(cfg Config) *Console {
	return &Console{
		in:       bufio.NewScanner(cfg.In),
		lines:    make(chan inputLine),
		stop:     make(chan struct{}),
		out:      cfg.Out,
		service:  cfg.Service,
		renderer: render.NewTextRenderer(cfg.Out),
		logger:   cfg.Logger,
	}
}

// errQuit ends the session.
var errQuit = errors.New("quit")

// Run loops until the user quits, input ends or ctx is cancelled. Lookup
// failures are reported and never end the session.
func (c *Console) Run(ctx context.Context) error {
	c.printf("%s\n", render.Banner)
	defer c.printf("\n%s\n", render.Title(GoodbyeMessage))
	defer close(c.stop)

	for {
		q, err := c.promptLocation(ctx)
		if err != nil {
			return ignoreQuit(err)
		}

		if err := c.menuLoop(ctx, q); err != nil {
			return ignoreQuit(err)
		}
	}
}

// Once performs a single lookup and renders it. The lookup error is
// returned after it has been rendered.
func (c *Console) Once(ctx context.Context, q geocode.Query, forecast bool) error {
	if forecast {
		return c.forecast(ctx, q)
	}
	return c.current(ctx, q)
}

// menuLoop serves menu choices for one location. It returns nil when the
// user asks for a new location.
func (c *Console) menuLoop(ctx context.Context, q geocode.Query) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("%s", menu)
		choice, err := c.readLine(ctx, " Enter choice: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "1":
			_ = c.current(ctx, q)
		case "2":
			_ = c.forecast(ctx, q)
		case "3":
			return nil
		case "q":
			return errQuit
		default:
			c.printf(" [-] Invalid choice %q.\n", choice)
		}
	}
}

// promptLocation reads city, state and country until at least one is set.
func (c *Console) promptLocation(ctx context.Context) (geocode.Query, error) {
	for {
		var q geocode.Query
		var err error

		if q.City, err = c.readLine(ctx, "\n Enter city: "); err != nil {
			return q, err
		}
		if q.State, err = c.readLine(ctx, " Enter state: "); err != nil {
			return q, err
		}
		if q.Country, err = c.readLine(ctx, " Enter country: "); err != nil {
			return q, err
		}

		if !q.IsEmpty() {
			return q, nil
		}
		c.printf(" %s\n", render.EmptyQueryMessage)
	}
}

func (c *Console) current(ctx context.Context, q geocode.Query) error {
	report, err := c.service.Current(ctx, q)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.renderer.Current(report)
}

func (c *Console) forecast(ctx context.Context, q geocode.Query) error {
	f, err := c.service.Forecast(ctx, q)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.renderer.Forecast(f)
}

func (c *Console) fail(err error) {
	if werr := c.renderer.Failure(err); werr != nil {
		c.logger.Error().Err(werr).Msg("failed to write failure message")
	}
}

type inputLine struct {
	text string
	err  error
}

// scan feeds input lines to c.lines until input ends or Run returns.
func (c *Console) scan() {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- inputLine{text: c.in.Text()}:
		case <-c.stop:
			return
		}
	}
	if err := c.in.Err(); err != nil {
		select {
		case c.lines <- inputLine{err: fmt.Errorf("read input: %w", err)}:
		case <-c.stop:
		}
	}
}

// readLine prints prompt and returns the next trimmed input line. End of
// input is reported as errQuit. Cancelling ctx stops the wait.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.start.Do(func() { go c.scan() })
	c.printf("%s", prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", errQuit
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (c *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.logger.Error().Err(err).Msg("failed to write to console")
	}
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
