/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collection

import (
	"context"
	"errors"
)

// ErrMaterializing is returned when a read is issued while the fetch query of
// the same collection is still running.
var ErrMaterializing = errors.New("collection is being materialized")

type options struct {
	readOnly            bool
	forcePartialLoad    *bool
	useDistinct         bool
	useOutputWalkers    bool
	fetchJoinCollection bool
}

func defaultOptions() options {
	return options{
		useDistinct:         true,
		useOutputWalkers:    true,
		fetchJoinCollection: true,
	}
}

// Collection is a lazily materialized page of entities. It is meant for a
// single consumer and is not safe for concurrent use.
type Collection[T any] struct {
	descriptor Descriptor[T]
	override   Descriptor[T]
	opts       options

	status         Status
	items          []*T
	paginator      Paginator[T]
	countPaginator Paginator[T]
}

// New wraps the descriptor in an uninitialized collection with default options.
func New[T any](descriptor Descriptor[T]) *Collection[T] {
	return &Collection[T]{
		descriptor: descriptor,
		opts:       defaultOptions(),
	}
}

func (c *Collection[T]) SetReadOnly(readOnly bool) *Collection[T] {
	c.opts.readOnly = readOnly
	c.reset()
	return c
}

func (c *Collection[T]) SetUseDistinct(useDistinct bool) *Collection[T] {
	c.opts.useDistinct = useDistinct
	c.reset()
	return c
}

func (c *Collection[T]) SetForcePartialLoad(forcePartialLoad bool) *Collection[T] {
	c.opts.forcePartialLoad = &forcePartialLoad
	c.reset()
	return c
}

func (c *Collection[T]) SetUseOutputWalkers(useOutputWalkers bool) *Collection[T] {
	c.opts.useOutputWalkers = useOutputWalkers
	c.reset()
	return c
}

func (c *Collection[T]) SetFetchJoinCollection(fetchJoinCollection bool) *Collection[T] {
	c.opts.fetchJoinCollection = fetchJoinCollection
	c.reset()
	return c
}

// SetPaginatorDescriptor installs the descriptor used for fetch and count in
// place of the one the collection was built with.
func (c *Collection[T]) SetPaginatorDescriptor(descriptor Descriptor[T]) *Collection[T] {
	c.override = descriptor
	c.reset()
	return c
}

// ClearSortForCountRequest installs an unordered clone of the base descriptor
// as the paginator descriptor. Fetch uses it as well.
func (c *Collection[T]) ClearSortForCountRequest() *Collection[T] {
	d := c.descriptor.Clone()
	d.ClearOrdering()
	return c.SetPaginatorDescriptor(d)
}

// SetLimit sets the max results on the base descriptor and on the paginator
// descriptor if one is installed.
func (c *Collection[T]) SetLimit(limit int) *Collection[T] {
	c.descriptor.SetMaxResults(limit)
	if c.override != nil {
		c.override.SetMaxResults(limit)
	}
	c.reset()
	return c
}

// SetOffset sets the first result on the base descriptor and on the paginator
// descriptor if one is installed.
func (c *Collection[T]) SetOffset(offset int) *Collection[T] {
	c.descriptor.SetFirstResult(offset)
	if c.override != nil {
		c.override.SetFirstResult(offset)
	}
	c.reset()
	return c
}

// ForcePartialLoad reports the force-partial-load option and whether it was
// set explicitly.
func (c *Collection[T]) ForcePartialLoad() (value bool, ok bool) {
	if c.opts.forcePartialLoad == nil {
		return false, false
	}
	return *c.opts.forcePartialLoad, true
}

func (c *Collection[T]) ReadOnly() bool { return c.opts.readOnly }

func (c *Collection[T]) UseDistinct() bool { return c.opts.useDistinct }

func (c *Collection[T]) UseOutputWalkers() bool { return c.opts.useOutputWalkers }

func (c *Collection[T]) FetchJoinCollection() bool { return c.opts.fetchJoinCollection }

// Paginator returns the handle of the last fetch, or nil.
func (c *Collection[T]) Paginator() Paginator[T] { return c.paginator }

// CountPaginator returns the handle of the last count, or nil.
func (c *Collection[T]) CountPaginator() Paginator[T] { return c.countPaginator }

// PaginatorDescriptor returns the descriptor used for execution.
func (c *Collection[T]) PaginatorDescriptor() Descriptor[T] {
	if c.override != nil {
		return c.override
	}
	return c.descriptor
}

func (c *Collection[T]) Status() Status { return c.status }

func (c *Collection[T]) IsInitialized() bool { return c.status == Materialized }

// ToSlice materializes the collection and returns a copy of its items.
func (c *Collection[T]) ToSlice(ctx context.Context) ([]*T, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return nil, err
	}
	out := make([]*T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Get returns the item at index i, or nil when i is out of range.
func (c *Collection[T]) Get(ctx context.Context, i int) (*T, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(c.items) {
		return nil, nil
	}
	return c.items[i], nil
}

func (c *Collection[T]) First(ctx context.Context) (*T, error) {
	return c.Get(ctx, 0)
}

func (c *Collection[T]) Last(ctx context.Context) (*T, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return nil, err
	}
	return c.Get(ctx, len(c.items)-1)
}

// IsEmpty reports whether the materialized page holds no items.
func (c *Collection[T]) IsEmpty(ctx context.Context) (bool, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return false, err
	}
	return len(c.items) == 0, nil
}

// Filter returns the materialized items accepted by keep, in order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(c.items))
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// ForEach calls fn for every materialized item and stops at the first error.
func (c *Collection[T]) ForEach(ctx context.Context, fn func(i int, item *T) error) error {
	if err := c.ensureMaterialized(ctx); err != nil {
		return err
	}
	for i, item := range c.items {
		if err := fn(i, item); err != nil {
			return err
		}
	}
	return nil
}

// Count materializes the collection, then runs a separate count over the
// paginator descriptor. The count is executed again on every call.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	if err := c.ensureMaterialized(ctx); err != nil {
		return 0, err
	}
	query, err := c.PaginatorDescriptor().Compile()
	if err != nil {
		return 0, err
	}
	query.SetHint(HintDistinct, c.opts.useDistinct)

	c.countPaginator = c.newPaginator(query, false)
	return c.countPaginator.Count(ctx)
}

func (c *Collection[T]) ensureMaterialized(ctx context.Context) error {
	switch c.status {
	case Materialized:
		return nil
	case Materializing:
		return ErrMaterializing
	}
	c.status = Materializing

	items, err := c.materialize(ctx)
	if err != nil {
		c.status = Uninitialized
		return err
	}
	c.items = items
	c.status = Materialized
	return nil
}

// materialize fetches through PaginatorDescriptor, so an installed override
// descriptor drives the fetch as well as the count.
func (c *Collection[T]) materialize(ctx context.Context) ([]*T, error) {
	query, err := c.PaginatorDescriptor().Compile()
	if err != nil {
		return nil, err
	}
	query.SetHint(HintReadOnly, c.opts.readOnly)
	query.SetHint(HintDistinct, c.opts.useDistinct)
	if c.opts.forcePartialLoad != nil {
		query.SetHint(HintForcePartialLoad, *c.opts.forcePartialLoad)
	}

	c.paginator = c.newPaginator(query, c.opts.fetchJoinCollection)
	return c.paginator.Items(ctx)
}

func (c *Collection[T]) newPaginator(query Query[T], fetchJoinCollection bool) Paginator[T] {
	p := query.Paginate(fetchJoinCollection)
	p.SetUseOutputWalkers(c.opts.useOutputWalkers)
	return p
}

func (c *Collection[T]) reset() {
	c.status = Uninitialized
	c.items = nil
	c.paginator = nil
	c.countPaginator = nil
}
