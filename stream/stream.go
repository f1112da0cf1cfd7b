package stream

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/havarnov/multimap"
)

const DefaultConcurrency = 8

type (
	// Source is anything that can emit its pairs lazily. Both
	// sequence-backed multimap variants implement it.
	Source[K comparable, V any] interface {
		Pairs(ctx context.Context) <-chan multimap.Pair[K, V]
	}

	// Collector receives the pairs surviving the pipeline.
	Collector[K comparable, V any] interface {
		Insert(key K, value V)
	}

	FilterFn[K comparable, V any]    func(ctx context.Context, k K, v V) (bool, error)
	MapFn[K comparable, V any]       func(ctx context.Context, k K, v V) (V, error)
	ForEachFn[K comparable, V any]   func(ctx context.Context, k K, v V) error
	ReduceFn[K comparable, V, R any] func(carry R, k K, v V) R

	pipe[K comparable, V any] func(p *pipeline, in <-chan multimap.Pair[K, V]) <-chan multimap.Pair[K, V]

	flowControl struct {
		concurrency uint32
	}

	FlowOption func(fc *flowControl)
)

// Concurrency sets the number of workers of a stage, or of every stage
// when passed to New.
func Concurrency(n uint32) FlowOption {
	return func(fc *flowControl) {
		fc.concurrency = n
	}
}

// Stream is a lazy concurrent pipeline over the pairs of a Source. Stages
// are recorded by Filter, Map and ForEach and run only when a terminal
// (PipeTo, Collect, Reduce) is invoked. Stages with more than one worker
// do not preserve pair order.
type Stream[K comparable, V any] struct {
	source Source[K, V]
	fc     flowControl
	pipes  []pipe[K, V]
}

func New[K comparable, V any](
	source Source[K, V],
	options ...FlowOption,
) *Stream[K, V] {
	fc := flowControl{
		concurrency: DefaultConcurrency,
	}

	for _, o := range options {
		o(&fc)
	}

	return &Stream[K, V]{
		source: source,
		fc:     fc,
	}
}

// pipeline carries the per-run cancellation state; the first stage error
// wins and stops every other worker.
type pipeline struct {
	ctx     context.Context
	cancel  context.CancelFunc
	errOnce sync.Once
	err     error
}

func newPipeline(ctx context.Context) *pipeline {
	runCtx, cancel := context.WithCancel(ctx)
	return &pipeline{ctx: runCtx, cancel: cancel}
}

func (p *pipeline) fail(err error) {
	p.errOnce.Do(func() {
		p.err = err
		p.cancel()
	})
}

func stage[K comparable, V any](
	fc flowControl,
	work func(p *pipeline, pair multimap.Pair[K, V]) (multimap.Pair[K, V], bool),
) pipe[K, V] {
	return func(p *pipeline, in <-chan multimap.Pair[K, V]) <-chan multimap.Pair[K, V] {
		out := make(chan multimap.Pair[K, V])

		var wg sync.WaitGroup
		for i := 0; i < int(fc.concurrency); i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for pair := range in {
					result, keep := work(p, pair)
					if !keep {
						continue
					}

					select {
					case out <- result:
					case <-p.ctx.Done():
						return
					}
				}
			}()
		}

		go func() {
			wg.Wait()
			close(out)
		}()

		return out
	}
}

func (s *Stream[K, V]) localFlowControl(options []FlowOption) flowControl {
	fc := s.fc
	for _, o := range options {
		o(&fc)
	}
	return fc
}

// Filter keeps only the pairs matched by the predicate. Returning ErrSkip
// drops the pair; any other error aborts the run.
func (s *Stream[K, V]) Filter(
	predicate FilterFn[K, V],
	options ...FlowOption,
) *Stream[K, V] {
	fc := s.localFlowControl(options)

	f := stage(fc, func(p *pipeline, pair multimap.Pair[K, V]) (multimap.Pair[K, V], bool) {
		keep, err := predicate(p.ctx, pair.Key, pair.Value)
		if err != nil {
			if errors.Is(err, ErrSkip) {
				return pair, false
			}
			p.fail(errors.Wrap(err, "stream filter failed"))
			return pair, false
		}

		return pair, keep
	})

	s.pipes = append(s.pipes, f)
	return s
}

// Map replaces every value with the mapper's result, keeping the key.
// Returning ErrSkip drops the pair; any other error aborts the run.
func (s *Stream[K, V]) Map(
	mapper MapFn[K, V],
	options ...FlowOption,
) *Stream[K, V] {
	fc := s.localFlowControl(options)

	f := stage(fc, func(p *pipeline, pair multimap.Pair[K, V]) (multimap.Pair[K, V], bool) {
		newValue, err := mapper(p.ctx, pair.Key, pair.Value)
		if err != nil {
			if errors.Is(err, ErrSkip) {
				return pair, false
			}
			p.fail(errors.Wrap(err, "stream map failed"))
			return pair, false
		}

		return multimap.Pair[K, V]{Key: pair.Key, Value: newValue}, true
	})

	s.pipes = append(s.pipes, f)
	return s
}

// ForEach runs a side effect per pair and passes the pair through
// unchanged. An error aborts the run.
func (s *Stream[K, V]) ForEach(
	effector ForEachFn[K, V],
	options ...FlowOption,
) *Stream[K, V] {
	fc := s.localFlowControl(options)

	f := stage(fc, func(p *pipeline, pair multimap.Pair[K, V]) (multimap.Pair[K, V], bool) {
		if err := effector(p.ctx, pair.Key, pair.Value); err != nil {
			p.fail(errors.Wrap(err, "stream for each failed"))
			return pair, false
		}

		return pair, true
	})

	s.pipes = append(s.pipes, f)
	return s
}

func (s *Stream[K, V]) run(p *pipeline) <-chan multimap.Pair[K, V] {
	ch := s.source.Pairs(p.ctx)
	for _, f := range s.pipes {
		ch = f(p, ch)
	}
	return ch
}

// PipeTo runs the pipeline and inserts every surviving pair into dest.
// The same Stream may be run any number of times; every run iterates the
// source afresh.
func (s *Stream[K, V]) PipeTo(ctx context.Context, dest Collector[K, V]) error {
	p := newPipeline(ctx)
	defer p.cancel()

	for pair := range s.run(p) {
		dest.Insert(pair.Key, pair.Value)
	}

	if p.err != nil {
		return p.err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "stream interrupted")
	}

	return nil
}

// Collect runs the pipeline into a fresh MultiMap.
func (s *Stream[K, V]) Collect(ctx context.Context) (*multimap.MultiMap[K, V], error) {
	result := multimap.New[K, V]()
	if err := s.PipeTo(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// Reduce runs the pipeline and folds every surviving pair into a single
// value, starting from initial. The fold itself is sequential; only the
// stages run concurrently.
func Reduce[K comparable, V, R any](
	ctx context.Context,
	s *Stream[K, V],
	reducer ReduceFn[K, V, R],
	initial R,
) (R, error) {
	p := newPipeline(ctx)
	defer p.cancel()

	carry := initial
	for pair := range s.run(p) {
		carry = reducer(carry, pair.Key, pair.Value)
	}

	if p.err != nil {
		return initial, p.err
	}
	if err := ctx.Err(); err != nil {
		return initial, errors.Wrap(err, "stream reduce interrupted")
	}

	return carry, nil
}
