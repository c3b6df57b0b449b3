package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
)

// fakeEventRepo records appended events and serves List from a canned slice.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.NodeEvent
	appendFn func(models.NodeEvent) error

	gotFrom, gotTo time.Time
	gotType        string
	gotLimit       int
	listCalls      int
	listResp       []models.NodeEvent
	listErr        error
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.NodeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendFn != nil {
		if err := f.appendFn(e); err != nil {
			return err
		}
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.NodeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.gotFrom, f.gotTo, f.gotType, f.gotLimit = from, to, typ, limit
	return f.listResp, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeEventRepo) ofType(typ string) []models.NodeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.NodeEvent
	for _, e := range f.appended {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeTransmissionRepo struct {
	mu      sync.Mutex
	saved   []models.TransmissionRecord
	saveErr error
	load    *models.TransmissionRecord
	loadErr error
}

func (f *fakeTransmissionRepo) Save(ctx context.Context, r models.TransmissionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return f.saveErr
}

func (f *fakeTransmissionRepo) Load(ctx context.Context) (*models.TransmissionRecord, error) {
	return f.load, f.loadErr
}

func (f *fakeTransmissionRepo) last() (models.TransmissionRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return models.TransmissionRecord{}, false
	}
	return f.saved[len(f.saved)-1], true
}

// fakeRadio associates according to associateFn; nil means immediate success.
type fakeRadio struct {
	mu          sync.Mutex
	associated  bool
	attempts    int
	disassocs   int
	associateFn func(ctx context.Context) error
	// onDisassociate observes state at the moment the radio is torn down.
	onDisassociate func()
}

func (r *fakeRadio) Associate(ctx context.Context) error {
	r.mu.Lock()
	r.attempts++
	fn := r.associateFn
	r.mu.Unlock()

	if fn != nil {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.associated = true
	r.mu.Unlock()
	return nil
}

func (r *fakeRadio) Disassociate() error {
	r.mu.Lock()
	r.associated = false
	r.disassocs++
	cb := r.onDisassociate
	r.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}

func (r *fakeRadio) Associated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.associated
}

func (r *fakeRadio) drop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.associated = false
}

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type postCall struct {
	url  string
	form url.Values
}

type fakeTransport struct {
	mu     sync.Mutex
	calls  []postCall
	postFn func(ctx context.Context) (int, error)
}

func (f *fakeTransport) Post(ctx context.Context, u string, form url.Values) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, postCall{url: u, form: form})
	fn := f.postFn
	f.mu.Unlock()
	if fn == nil {
		return 200, nil
	}
	return fn(ctx)
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// scriptedProbe returns values in order, repeating the last one.
type scriptedProbe struct {
	mu     sync.Mutex
	values []float64
	err    error
	calls  int
}

func (p *scriptedProbe) next() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	i := p.calls - 1
	if i >= len(p.values) {
		i = len(p.values) - 1
	}
	return p.values[i], nil
}

func (p *scriptedProbe) ReadTemperature(ctx context.Context) (float64, error) { return p.next() }
func (p *scriptedProbe) ReadHumidity(ctx context.Context) (float64, error)    { return p.next() }

func (p *scriptedProbe) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeEstimator struct {
	mu    sync.Mutex
	resp  gas.Percentages
	err   error
	calls int
}

func (f *fakeEstimator) GasPercentages(ctx context.Context) (gas.Percentages, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

func (f *fakeEstimator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCalibrator struct {
	cal gas.Calibration
	err error
}

func (f fakeCalibrator) Calibrate(ctx context.Context) (gas.Calibration, error) {
	if err := ctx.Err(); err != nil {
		return gas.Calibration{}, err
	}
	return f.cal, f.err
}

var errBoom = errors.New("boom")

// connected returns a coordinator that already has the radio up.
func connected(mode node.Mode) *node.Coordinator {
	c := node.NewCoordinator(mode)
	if mode == node.ModeEventTriggered {
		c.RecordHumidity(25)
	}
	c.BeginConnect()
	c.ConnectSucceeded()
	return c
}

func gasPct(co, smoke int) gas.Percentages {
	return gas.Percentages{CO: co, Smoke: smoke}
}
