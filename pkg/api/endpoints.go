package api

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
	"github.com/hazyhaar/greenmeds/pkg/kit"
	"github.com/hazyhaar/greenmeds/pkg/report"
	"github.com/hazyhaar/greenmeds/pkg/resolve"
	"github.com/hazyhaar/greenmeds/pkg/score"
)

// MaxBatch is the largest number of inputs one resolve_batch call accepts.
const MaxBatch = 100

// DefaultConcurrency bounds parallel lookups in a batch when none is set.
const DefaultConcurrency = 8

var (
	ErrEmptyBatch      = eris.New("inputs array is empty")
	ErrBatchTooLarge   = eris.New("too many inputs")
	ErrUnknownMedicine = eris.New("unknown medicine")
	ErrPickOutOfRange  = eris.New("pick out of range")
	ErrUnknownToxicity = eris.New("unknown toxicity level")
	ErrNothingToPick   = eris.New("pick given but input is not ambiguous")
)

// Shared request/response types used by the CLI and MCP transports.

// LookupRequest resolves one free-text input. Pick, when positive, selects
// the 1-based candidate of an ambiguous resolution.
type LookupRequest struct {
	Input string `json:"input"`
	Pick  int    `json:"pick,omitempty"`
}

// LookupResponse carries the resolution and, once a record is settled
// (exact match or picked candidate), its report.
type LookupResponse struct {
	Resolution resolve.Resolution `json:"resolution"`
	Report     *report.Report     `json:"report,omitempty"`
}

type BatchRequest struct {
	Inputs []string `json:"inputs"`
}

type BatchItem struct {
	Resolution resolve.Resolution `json:"resolution"`
	Assessment *score.Assessment  `json:"assessment,omitempty"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

type ListRequest struct {
	Toxicity string `json:"toxicity,omitempty"`
}

type ListResponse struct {
	Count     int              `json:"count"`
	Medicines []catalog.Record `json:"medicines"`
}

type ScoreRequest struct {
	Name string `json:"name"`
}

// Service binds the endpoints to a resolver. The resolver can be swapped
// at runtime with Reload; each call works on the one current when it starts.
type Service struct {
	mu          sync.RWMutex
	resolver    *resolve.Resolver
	concurrency int
}

// NewService creates a Service. A concurrency below 1 selects DefaultConcurrency.
func NewService(r *resolve.Resolver, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{resolver: r, concurrency: concurrency}
}

func (s *Service) current() *resolve.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

// Store returns the catalog currently served.
func (s *Service) Store() *catalog.Store { return s.current().Store() }

// Reload loads the catalog at path and swaps it in with the same resolver
// options (hot reload). On error the current catalog stays in place.
func (s *Service) Reload(path string) error {
	store, err := catalog.Load(path)
	if err != nil {
		return err
	}
	next := resolve.NewResolver(store, s.current().Options())

	s.mu.Lock()
	s.resolver = next
	s.mu.Unlock()
	return nil
}

// Endpoints groups the service's actions, each wrapped in the standard
// middleware chain.
type Endpoints struct {
	Lookup kit.Endpoint
	Batch  kit.Endpoint
	List   kit.Endpoint
	Score  kit.Endpoint
}

// Endpoints returns the four core kit.Endpoints, logged through logger.
func (s *Service) Endpoints(logger *zap.Logger) Endpoints {
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return Endpoints{
		Lookup: wrap("lookup", s.lookupEndpoint()),
		Batch:  wrap("resolve_batch", s.batchEndpoint()),
		List:   wrap("list_medicines", s.listEndpoint()),
		Score:  wrap("score_medicine", s.scoreEndpoint()),
	}
}

func (s *Service) lookupEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		return s.Lookup(*request.(*LookupRequest))
	}
}

// Lookup resolves req.Input and builds a report when a record is settled.
func (s *Service) Lookup(req LookupRequest) (*LookupResponse, error) {
	r := s.current()
	res := r.Resolve(req.Input)
	resp := &LookupResponse{Resolution: res}

	switch {
	case res.Kind == resolve.Exact:
		rep := report.Build(*res.Record, score.Evaluate(*res.Record))
		resp.Report = &rep
	case req.Pick > 0 && res.Kind == resolve.Ambiguous:
		if req.Pick > len(res.Candidates) {
			return nil, eris.Wrapf(ErrPickOutOfRange, "pick %d of %d candidates", req.Pick, len(res.Candidates))
		}
		name := res.Candidates[req.Pick-1].Name
		rec, ok := r.Store().LookupExact(name)
		if !ok {
			return nil, eris.Wrapf(ErrUnknownMedicine, "%q", name)
		}
		rep := report.Build(rec, score.Evaluate(rec))
		resp.Report = &rep
	case req.Pick > 0:
		return nil, eris.Wrapf(ErrNothingToPick, "%q resolved as %s", req.Input, res.Kind)
	}
	return resp, nil
}

func (s *Service) batchEndpoint() kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return s.Batch(ctx, request.(*BatchRequest).Inputs)
	}
}

// Batch resolves up to MaxBatch inputs concurrently. Results keep input order.
func (s *Service) Batch(ctx context.Context, inputs []string) (*BatchResponse, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(inputs) > MaxBatch {
		return nil, eris.Wrapf(ErrBatchTooLarge, "max %d, got %d", MaxBatch, len(inputs))
	}

	r := s.current()
	results := make([]BatchItem, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.Resolve(in)
			item := BatchItem{Resolution: res}
			if res.Kind == resolve.Exact {
				a := score.Evaluate(*res.Record)
				item.Assessment = &a
			}
			results[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "resolve batch")
	}
	return &BatchResponse{Results: results}, nil
}

func (s *Service) listEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		var req ListRequest
		if r, ok := request.(*ListRequest); ok && r != nil {
			req = *r
		}
		return s.List(req.Toxicity)
	}
}

// List returns the catalog records, optionally only those of one toxicity level.
func (s *Service) List(toxicity string) (*ListResponse, error) {
	var level catalog.Toxicity
	if toxicity != "" {
		var ok bool
		if level, ok = catalog.ParseToxicity(toxicity); !ok {
			return nil, eris.Wrapf(ErrUnknownToxicity, "%q", toxicity)
		}
	}
	recs := s.Store().Filter(level)
	return &ListResponse{Count: len(recs), Medicines: recs}, nil
}

func (s *Service) scoreEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		return s.Score(request.(*ScoreRequest).Name)
	}
}

// Score reports on a medicine given by its exact catalog name.
func (s *Service) Score(name string) (*report.Report, error) {
	rec, ok := s.Store().LookupExact(name)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownMedicine, "%q", name)
	}
	rep := report.Build(rec, score.Evaluate(rec))
	return &rep, nil
}
