package compose

import (
	"errors"
	"sync"

	"github.com/rcrowley/go-metrics"
	"github.com/twitter/groupcache/lru"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/resolver"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownGraph is returned for graph names the model does not declare.
	ErrUnknownGraph = errors.New("unknown graph")
	// ErrExtensionLoop is returned when a graph extends itself through its
	// parent chain.
	ErrExtensionLoop = errors.New("graph extension loop")
	// ErrInvalidDynamicArgument is returned when a dynamic graph's
	// containers are rejected before resolution.
	ErrInvalidDynamicArgument = errors.New("invalid dynamic graph argument")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("coordinator is closed")
)

// Options configures a Coordinator.
type Options struct {
	Resolver resolver.Options
	// Parallelism bounds concurrent graph resolutions; <= 0 means one per CPU.
	Parallelism int
	// MaxErrors caps reported errors per diagnostic code; <= 0 is uncapped.
	MaxErrors int
	// ReleasedCacheSize bounds how many released graphs stay cached.
	ReleasedCacheSize int
	// Registry receives the coordinator's metrics; nil uses a private one.
	Registry metrics.Registry
}

// entry is one cached resolution.
type entry struct {
	graph *resolver.BindingGraph
	rep   *diag.Reporter
	err   error
}

// Coordinator is the process-wide owner of resolved graphs for one model.
// It is safe for concurrent use.
type Coordinator struct {
	model *decl.Model
	opts  Options
	res   *resolver.Resolver

	flight   singleflight.Group
	checking sync.Once
	declRep  *diag.Reporter

	mu       sync.Mutex
	active   map[string]*entry
	reports  map[string]*diag.Reporter
	released *lru.Cache
	closed   bool

	stats *stats
}
