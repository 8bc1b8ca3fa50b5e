package presenter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
)

// ErrSuperseded is returned by a load whose response arrived after a newer
// request was issued. The response is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// State is the presenter's lifecycle position.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// WeatherClient fetches a normalized reading for a city.
type WeatherClient interface {
	Current(ctx context.Context, city string) (domain.Reading, error)
}

// Notifier shows a transient message, such as a toast.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Snapshot is a point-in-time copy of presenter state.
type Snapshot struct {
	State     State
	City      string
	Loading   bool
	Error     string
	Reading   *domain.Reading
	FetchedAt time.Time
}

// ShowErrorPanel reports whether the last failure left nothing to display.
func (s Snapshot) ShowErrorPanel() bool {
	return s.Error != "" && s.Reading == nil
}

// View derives display values from the current reading. ok is false when no
// reading has been received yet.
func (s Snapshot) View() (display domain.Display, ok bool) {
	if s.Reading == nil {
		return domain.Display{}, false
	}
	return domain.NewDisplay(*s.Reading), true
}

// Presenter owns the dashboard state and drives the proxy on mount and search.
// It is safe for concurrent use; when requests overlap the last one issued wins.
type Presenter struct {
	client      WeatherClient
	notifier    Notifier
	defaultCity string
	logger      *slog.Logger

	mu    sync.Mutex
	seq   uint64
	state Snapshot
}

// New creates an idle Presenter. notifier may be nil.
func New(client WeatherClient, notifier Notifier, defaultCity string, logger *slog.Logger) *Presenter {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Presenter{
		client:      client,
		notifier:    notifier,
		defaultCity: defaultCity,
		logger:      logger,
		state:       Snapshot{State: Idle, City: defaultCity},
	}
}

// Mount loads the default city.
func (p *Presenter) Mount(ctx context.Context) error {
	return p.load(ctx, p.defaultCity)
}

// Search loads the city named by input. Blank input returns
// domain.ErrBlankQuery without touching state or the proxy.
func (p *Presenter) Search(ctx context.Context, input string) error {
	query := strings.TrimSpace(input)
	if query == "" {
		return domain.ErrBlankQuery
	}
	return p.load(ctx, query)
}

// Refresh reloads the city currently on display.
func (p *Presenter) Refresh(ctx context.Context) error {
	p.mu.Lock()
	city := p.state.City
	p.mu.Unlock()
	if city == "" {
		city = p.defaultCity
	}
	return p.load(ctx, city)
}

// Snapshot returns a copy of the current state.
func (p *Presenter) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// View derives display values from the current reading.
func (p *Presenter) View() (domain.Display, bool) {
	return p.Snapshot().View()
}

func (p *Presenter) load(ctx context.Context, city string) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.state.State = Loading
	p.state.Loading = true
	p.state.Error = ""
	p.mu.Unlock()

	reading, err := p.client.Current(ctx, city)

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		p.logger.Debug("discarding superseded response", "city", city)
		return ErrSuperseded
	}
	p.state.Loading = false

	if err != nil {
		msg := userMessage(err)
		p.state.State = Failure
		p.state.Error = msg
		p.mu.Unlock()

		p.logger.Warn("weather load failed", "city", city, "error", err)
		p.notifier.Notify(msg)
		return err
	}

	p.state.State = Success
	p.state.Reading = &reading
	p.state.FetchedAt = domain.Now()
	if reading.Location.Name != "" {
		p.state.City = reading.Location.Name
	}
	p.mu.Unlock()

	p.logger.Debug("weather loaded", "city", reading.Location.Name)
	return nil
}

// userMessage picks the text shown for a failed load. Only a ResponseError
// carries wording meant for users; anything else gets the generic message.
func userMessage(err error) string {
	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.Message != "" {
		return respErr.Message
	}
	return UnavailableMessage
}
