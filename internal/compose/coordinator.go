package compose

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/twitter/groupcache/lru"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/resolver"
	"golang.org/x/sync/errgroup"
)

const defaultReleasedCacheSize = 64

// New creates a coordinator over model.
func New(model *decl.Model, opts Options) *Coordinator {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	if opts.ReleasedCacheSize <= 0 {
		opts.ReleasedCacheSize = defaultReleasedCacheSize
	}
	return &Coordinator{
		model:    model,
		opts:     opts,
		res:      resolver.New(model, opts.Resolver),
		declRep:  diag.NewReporter(0),
		active:   make(map[string]*entry),
		reports:  make(map[string]*diag.Reporter),
		released: lru.New(opts.ReleasedCacheSize),
		stats:    newStats(opts.Registry),
	}
}

// cacheKey identifies a resolution by graph and sorted container set.
func cacheKey(graph string, dynamic []string) string {
	if len(dynamic) == 0 {
		return graph
	}
	return graph + "+" + strings.Join(dynamic, ",")
}

// CheckDeclarations runs the declaration-time checks. It runs at most once;
// every Resolve calls it.
func (c *Coordinator) CheckDeclarations(ctx context.Context) {
	c.checking.Do(func() {
		resolver.CheckDeclarations(ctx, c.model, c.opts.Resolver, c.declRep)
	})
}

// Resolve returns the resolved graph name, resolving it and its ancestors
// on first use. The same pointer is returned until Close.
func (c *Coordinator) Resolve(ctx context.Context, name string) (*resolver.BindingGraph, error) {
	return c.resolve(ctx, name, nil)
}

// ResolveDynamic resolves graph name with caller-supplied containers.
// Identical (graph, container set) pairs share one result regardless of
// the order the containers are given in.
func (c *Coordinator) ResolveDynamic(ctx context.Context, name string, containers []string) (*resolver.BindingGraph, error) {
	if len(containers) == 0 {
		return c.resolve(ctx, name, nil)
	}
	sorted := slices.Clone(containers)
	slices.Sort(sorted)
	return c.resolve(ctx, name, sorted)
}

// ResolveAll resolves every declared graph, at most Parallelism at a time.
// Graphs are returned in name order; graphs that could not be resolved at
// all are omitted, their problems are in Diagnostics.
func (c *Coordinator) ResolveAll(ctx context.Context) ([]*resolver.BindingGraph, error) {
	names := make([]string, 0, len(c.model.Graphs))
	for _, g := range c.model.Graphs {
		names = append(names, g.Name)
	}
	slices.Sort(names)
	names = slices.Compact(names)

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving all graphs.", "count", len(names), "parallelism", c.opts.Parallelism)

	results := make([]*resolver.BindingGraph, len(names))
	var eg errgroup.Group
	eg.SetLimit(c.opts.Parallelism)
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			g, err := c.Resolve(ctx, name)
			switch {
			case err == nil:
				results[i] = g
			case errors.Is(err, ErrClosed):
				return err
			default:
				logger.Debug("Graph skipped.", "graph", name, "error", err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*resolver.BindingGraph, 0, len(results))
	for _, g := range results {
		if g != nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (c *Coordinator) resolve(ctx context.Context, name string, dynamic []string) (*resolver.BindingGraph, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	c.CheckDeclarations(ctx)
	key := cacheKey(name, dynamic)

	if e, ok := c.lookup(key); ok {
		c.stats.cacheHits.Inc(1)
		return e.graph, e.err
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if e, ok := c.lookup(key); ok {
			return e, nil
		}
		e := c.compute(ctx, name, dynamic)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return nil, ErrClosed
		}
		c.active[key] = e
		c.reports[key] = e.rep
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	e := v.(*entry)
	return e.graph, e.err
}

// lookup finds a cached entry, reviving released ones.
func (c *Coordinator) lookup(key string) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.active[key]; ok {
		return e, true
	}
	if v, ok := c.released.Get(key); ok {
		e := v.(*entry)
		c.released.Remove(key)
		c.active[key] = e
		c.stats.revived.Inc(1)
		return e, true
	}
	return nil, false
}

// compute resolves one graph; errors are recorded in the entry so every
// caller sees the same outcome.
func (c *Coordinator) compute(ctx context.Context, name string, dynamic []string) *entry {
	start := time.Now()
	defer c.stats.time(start)

	logger := ctxlog.FromContext(ctx).With("graph", name)
	ctx = ctxlog.WithLogger(ctx, logger)
	rep := diag.NewReporter(0)

	g, ok := c.model.Graph(name)
	if !ok {
		return &entry{rep: rep, err: fmt.Errorf("%w: %s", ErrUnknownGraph, name)}
	}
	if err := c.checkParents(g, rep); err != nil {
		return &entry{rep: rep, err: err}
	}
	if err := c.checkDynamic(g, dynamic, rep); err != nil {
		c.stats.rejected.Inc(1)
		return &entry{rep: rep, err: err}
	}

	var parent *resolver.BindingGraph
	if g.Parent != "" {
		logger.Debug("Waiting for parent graph.", "parent", g.Parent)
		p, err := c.resolve(ctx, g.Parent, nil)
		if err != nil {
			return &entry{rep: rep, err: fmt.Errorf("graph %s: parent: %w", name, err)}
		}
		parent = p
	}

	bg := c.res.Resolve(ctx, g, parent, dynamic, rep)
	c.stats.resolved.Inc(1)
	logger.Debug("Graph cached.", "dynamic", dynamic, "valid", bg.Valid())
	return &entry{graph: bg, rep: rep}
}

// checkParents rejects unknown parents and parent chains that loop.
func (c *Coordinator) checkParents(g *decl.Graph, rep *diag.Reporter) error {
	seen := map[string]bool{g.Name: true}
	path := []string{g.Name}
	for cur := g; cur.Parent != ""; {
		parent, ok := c.model.Graph(cur.Parent)
		if !ok {
			rep.Errorf(diag.BindingContainerError, cur.Range, g.Name, "",
				"graph %s extends unknown graph %s", cur.Name, cur.Parent)
			return fmt.Errorf("%w: %s", ErrUnknownGraph, cur.Parent)
		}
		path = append(path, parent.Name)
		if seen[parent.Name] {
			rep.Errorf(diag.CycleError, g.Range, g.Name, "an extension cannot be its own ancestor",
				"found a graph extension loop: %s", strings.Join(path, " -> "))
			return fmt.Errorf("%w: %s", ErrExtensionLoop, strings.Join(path, " -> "))
		}
		seen[parent.Name] = true
		cur = parent
	}
	return nil
}

// checkDynamic validates caller-supplied containers; containers is sorted.
func (c *Coordinator) checkDynamic(g *decl.Graph, containers []string, rep *diag.Reporter) error {
	bad := 0
	for i, name := range containers {
		if i > 0 && containers[i-1] == name {
			rep.Errorf(diag.InvalidDynamicGraphArgument, g.Range, g.Name, "pass each container once",
				"dynamic graph %s received container %s more than once", g.Name, name)
			bad++
			continue
		}
		ct, ok := c.model.Container(name)
		if !ok {
			rep.Errorf(diag.InvalidDynamicGraphArgument, g.Range, g.Name, "",
				"dynamic graph %s received unknown container %s", g.Name, name)
			bad++
			continue
		}
		if !ct.Kind.Legal() {
			rep.Errorf(diag.InvalidDynamicGraphArgument, ct.Range, g.Name, "dynamic containers must be object, interface or class containers",
				"dynamic graph %s received %s container %s", g.Name, ct.Kind, name)
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d rejected container(s) for %s", ErrInvalidDynamicArgument, bad, g.Name)
	}
	return nil
}

// Release moves a resolved graph to the bounded released cache. Graphs that
// are the parent of an active graph stay pinned. It reports whether the
// graph was released.
func (c *Coordinator) Release(name string, dynamic ...string) bool {
	sorted := slices.Clone(dynamic)
	slices.Sort(sorted)
	key := cacheKey(name, sorted)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.active[key]
	if !ok {
		return false
	}
	if e.graph != nil {
		for k, other := range c.active {
			if k == key || other.graph == nil {
				continue
			}
			for _, anc := range other.graph.Ancestors() {
				if anc == e.graph {
					return false
				}
			}
		}
	}
	delete(c.active, key)
	c.released.Add(key, e)
	c.stats.released.Inc(1)
	return true
}

// Diagnostics merges declaration diagnostics and the diagnostics of every
// resolution since New, in sorted cache-key order, under the MaxErrors cap.
func (c *Coordinator) Diagnostics() []diag.Diagnostic {
	c.mu.Lock()
	keys := make([]string, 0, len(c.reports))
	reps := make(map[string]*diag.Reporter, len(c.reports))
	for k, rep := range c.reports {
		keys = append(keys, k)
		reps[k] = rep
	}
	c.mu.Unlock()
	slices.Sort(keys)

	global := diag.NewReporter(c.opts.MaxErrors)
	global.Merge(c.declRep)
	for _, k := range keys {
		global.Merge(reps[k])
	}
	return global.Diagnostics()
}

// Close drops every cached graph. Later calls fail with ErrClosed.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.active = make(map[string]*entry)
	c.reports = make(map[string]*diag.Reporter)
	c.released = lru.New(c.opts.ReleasedCacheSize)
	return nil
}
