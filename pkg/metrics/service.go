package metrics

import (
	"context"
	"time"

	"github.com/dataobs/lens/pkg/loadpattern"
	"github.com/dataobs/lens/pkg/observability"
)

// DefaultQueryTimeout bounds a single backend query when the caller supplies no limit
const DefaultQueryTimeout = 10 * time.Second

// Service aggregates the four report types behind one request-scoped API.
// Backend queries run sequentially; the stores are independent and failures
// stay isolated per store. Every call builds a fresh report, nothing is shared
// between requests.
type Service struct {
	creation   *CreationMetrics
	access     *AccessMetrics
	movement   *MovementMetrics
	usage      *UsageMetrics
	classifier *loadpattern.Classifier
	timeout    time.Duration
	logger     *observability.Logger
	metrics    *observability.Metrics
}

// ServiceDeps collects the adapters and instrumentation the service drives
type ServiceDeps struct {
	Creation *CreationMetrics
	Access   *AccessMetrics
	Movement *MovementMetrics
	Usage    *UsageMetrics

	Logger  *observability.Logger
	Metrics *observability.Metrics // optional

	// QueryTimeout bounds each backend call; zero selects DefaultQueryTimeout
	QueryTimeout time.Duration
}

// NewService creates a new metrics service
func NewService(deps ServiceDeps) *Service {
	timeout := deps.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Service{
		creation:   deps.Creation,
		access:     deps.Access,
		movement:   deps.Movement,
		usage:      deps.Usage,
		classifier: loadpattern.NewClassifier(),
		timeout:    timeout,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// GetCreationMetrics reports data creation activity over the window
func (s *Service) GetCreationMetrics(ctx context.Context, window TimeWindow) (*CreationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.creation.Fetch(ctx, window)
	s.observe(BackendMongo, start, err)
	return report, err
}

// GetAccessPatterns reports data access activity over the window
func (s *Service) GetAccessPatterns(ctx context.Context, window TimeWindow) (*AccessReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.access.Fetch(ctx, window)
	s.observe(BackendElastic, start, err)
	return report, err
}

// GetMovementData reports data movement activity over the window
func (s *Service) GetMovementData(ctx context.Context, window TimeWindow) (*MovementReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.movement.Fetch(ctx, window)
	s.observe(BackendTimescale, start, err)
	return report, err
}

// GetUsageAnalytics reports live and historical usage over the window
func (s *Service) GetUsageAnalytics(ctx context.Context, window TimeWindow) (*UsageReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.usage.Fetch(ctx, window)
	s.observe(BackendRedis, start, err)
	return report, err
}

// AnalyzeLoad classifies hourly load from the creation report for the window.
// Returns nil when the window holds no creation events.
func (s *Service) AnalyzeLoad(ctx context.Context, window TimeWindow) (*loadpattern.Analysis, error) {
	report, err := s.GetCreationMetrics(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.classifier.Analyze(report.ByHour)
}

// Snapshot bundles all four reports for one window. Reports from unreachable
// backends are absent and their failure reasons recorded; one bad backend
// never blocks the other three.
type Snapshot struct {
	Window   TimeWindow        `json:"window"`
	Creation *CreationReport   `json:"creation,omitempty"`
	Access   *AccessReport     `json:"access,omitempty"`
	Movement *MovementReport   `json:"movement,omitempty"`
	Usage    *UsageReport      `json:"usage,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// GetSnapshot fetches all four reports sequentially
func (s *Service) GetSnapshot(ctx context.Context, window TimeWindow) (*Snapshot, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Window: window, Errors: make(map[string]string)}

	if report, err := s.GetCreationMetrics(ctx, window); err != nil {
		s.logger.WithError(err).Warn("snapshot: creation report failed")
		snap.Errors["creation"] = err.Error()
	} else {
		snap.Creation = report
	}

	if report, err := s.GetAccessPatterns(ctx, window); err != nil {
		s.logger.WithError(err).Warn("snapshot: access report failed")
		snap.Errors["access"] = err.Error()
	} else {
		snap.Access = report
	}

	if report, err := s.GetMovementData(ctx, window); err != nil {
		s.logger.WithError(err).Warn("snapshot: movement report failed")
		snap.Errors["movement"] = err.Error()
	} else {
		snap.Movement = report
	}

	if report, err := s.GetUsageAnalytics(ctx, window); err != nil {
		s.logger.WithError(err).Warn("snapshot: usage report failed")
		snap.Errors["usage"] = err.Error()
	} else {
		snap.Usage = report
	}

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap, nil
}

func (s *Service) observe(backend string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveBackendQuery(backend, time.Since(start), err)
}
