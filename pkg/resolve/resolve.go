package resolve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depwalk/pkg/deps"
	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/observability"
	"github.com/matzehuels/depwalk/pkg/registry"
)

const (
	DefaultMaxDepth = 10 // Default maximum dependency depth
	DefaultWorkers  = 20 // Default concurrent fetches per level
)

// Options configures a resolver run.
type Options struct {
	MaxDepth int                  // Maximum depth to traverse; 0 resolves only the root
	Filter   string               // Admit only dependency names containing this substring
	Workers  int                  // Concurrent fetches per level (default: 20)
	Logger   func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with unset fields replaced by
// defaults. MaxDepth is left alone: zero is a meaningful bound.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Resolver resolves dependency graphs against one metadata source.
// A Resolver holds no per-run state and may be reused.
type Resolver struct {
	src  registry.Source
	opts Options
}

// New creates a resolver that fetches metadata from src.
func New(src registry.Source, opts Options) *Resolver {
	return &Resolver{src: src, opts: opts.WithDefaults()}
}

// Options returns the resolver's effective options.
func (r *Resolver) Options() Options { return r.opts }

// Resolve builds the dependency graph rooted at root. The returned graph
// includes stub and truncated nodes. The only error is ctx's error when the
// run is canceled.
func (r *Resolver) Resolve(ctx context.Context, root registry.PackageRef) (*graph.Graph, error) {
	if r.opts.MaxDepth < 0 {
		panic("resolve: negative MaxDepth")
	}

	g := graph.New(root.Name)
	g.RunID = uuid.NewString()
	g.MaxDepth = r.opts.MaxDepth

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, g.RunID, root.Name, r.opts.MaxDepth)
	start := time.Now()

	run := &run{Resolver: r, g: g}
	err := run.walk(ctx, root)

	hooks.OnResolveComplete(ctx, g.RunID, root.Name, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// run is the state of one resolution. Only the goroutine calling walk
// touches g.
type run struct {
	*Resolver
	g *graph.Graph
}

func (r *run) walk(ctx context.Context, root registry.PackageRef) error {
	rootNode, _ := r.g.Visit(root, 0)
	level := []*graph.Node{rootNode}

	for depth := 0; len(level) > 0; depth++ {
		results := r.fetchLevel(ctx, level, depth)
		if err := ctx.Err(); err != nil {
			return err
		}

		var next []*graph.Node
		for i, n := range level {
			next = r.apply(n, results[i], next)
		}
		r.opts.Logger("depth %d: %d fetched, %d queued", depth, len(level), len(next))
		level = next
	}
	return nil
}

// fetchLevel fetches every node of one level on a bounded pool. results[i]
// belongs to level[i].
func (r *run) fetchLevel(ctx context.Context, level []*graph.Node, depth int) []registry.Result {
	results := make([]registry.Result, len(level))
	hooks := observability.Resolve()

	var eg errgroup.Group
	eg.SetLimit(r.opts.Workers)
	for i, n := range level {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = registry.Result{Ref: n.Ref, Err: err}
				return nil
			}
			start := time.Now()
			res := registry.Do(ctx, r.src, n.Ref)
			hooks.OnFetch(ctx, n.Name(), depth, res.Outcome().String(), time.Since(start), res.Err)
			results[i] = res
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// apply records one fetch result on its node and returns next with any
// newly discovered children appended.
func (r *run) apply(n *graph.Node, res registry.Result, next []*graph.Node) []*graph.Node {
	switch res.Outcome() {
	case registry.OutcomeNotFound, registry.OutcomeNetworkFailure, registry.OutcomeMalformed:
		n.State = graph.StateFailed
		n.Err = res.Err
		r.opts.Logger("fetch failed: %s: %v", n.Name(), res.Err)
		return next
	}

	n.Version = res.Record.Version
	if n.Version == "" && n.Ref.Pinned() {
		n.Version = n.Ref.Version
	}
	n.Declarations = deps.Filter(deps.Extract(res.Record), r.opts.Filter)

	if n.Depth >= r.opts.MaxDepth {
		n.State = graph.StateResolved
		if len(n.Declarations) > 0 {
			n.State = graph.StateTruncated
		}
		return next
	}

	n.State = graph.StateResolved
	for _, d := range n.Declarations {
		child, created := r.g.Visit(registry.PackageRef{Name: d.Name}, n.Depth+1)
		if child == nil {
			continue
		}
		_, _ = r.g.AddEdge(n.Name(), child.Name())
		if created {
			next = append(next, child)
		}
	}
	return next
}
