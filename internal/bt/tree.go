package bt

import (
	gobt "github.com/joeycumines/go-behaviortree"
)

// Observer receives the result of every evaluated node.
type Observer func(name string, kind Kind, status Status)

// Option configures a Tree.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver installs an observer called after each node evaluation.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Tree is a definition bound to one agent context.
type Tree[C any] struct {
	def  *Node[C]
	root gobt.Node
	ctx  C
}

// New binds the definition rooted at root to ctx.
func New[C any](ctx C, root *Node[C], opts ...Option) *Tree[C] {
	if root == nil {
		panic("bt.New: nil root")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[C]{
		def:  root,
		root: root.bind(ctx, o.observer),
		ctx:  ctx,
	}
}

// Tick evaluates the tree once from the root. Any error reported by the
// underlying engine is returned alongside a Failure status.
func (t *Tree[C]) Tick() (Status, error) {
	status, err := t.root.Tick()
	if err != nil {
		return Failure, err
	}
	return status, nil
}

// Root returns the definition the tree was built from.
func (t *Tree[C]) Root() *Node[C] {
	return t.def
}

// Context returns the context the tree is bound to.
func (t *Tree[C]) Context() C {
	return t.ctx
}
