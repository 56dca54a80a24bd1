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

package bunquery

import (
	"errors"
	"math"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/tomoncle/lazyhummer/collection"
)

var (
	ErrNoDB           = errors.New("bunquery: builder has no database")
	ErrNoIdentifier   = errors.New("bunquery: identifier column is empty")
	ErrNegativeLimit  = errors.New("bunquery: max results must not be negative")
	ErrNegativeOffset = errors.New("bunquery: first result must not be negative")
)

const defaultIdentifier = "id"

type clause struct {
	query string
	args  []interface{}
	or    bool
	raw   bool
}

// Builder describes a select over the table of T. It is not executed until
// compiled and paginated.
type Builder[T any] struct {
	db          bun.IDB
	identifier  string
	wheres      []clause
	joins       []clause
	orders      []clause
	relations   []string
	maxResults  *int
	firstResult *int
	metrics     *Metrics
}

var _ collection.Descriptor[struct{}] = (*Builder[struct{}])(nil)

func NewBuilder[T any](db bun.IDB) *Builder[T] {
	return &Builder[T]{db: db, identifier: defaultIdentifier}
}

func (b *Builder[T]) Where(query string, args ...interface{}) *Builder[T] {
	b.wheres = append(b.wheres, clause{query: query, args: args})
	return b
}

func (b *Builder[T]) WhereOr(query string, args ...interface{}) *Builder[T] {
	b.wheres = append(b.wheres, clause{query: query, args: args, or: true})
	return b
}

// Join adds a raw join, e.g. "JOIN tags AS t ON t.product_id = p.id". Joins
// are applied to fetch, identifier and count queries alike.
func (b *Builder[T]) Join(join string, args ...interface{}) *Builder[T] {
	b.joins = append(b.joins, clause{query: join, args: args})
	return b
}

// Order adds "column [ASC|DESC]" orderings quoted by Bun.
func (b *Builder[T]) Order(orders ...string) *Builder[T] {
	for _, o := range orders {
		b.orders = append(b.orders, clause{query: o})
	}
	return b
}

// OrderExpr adds a raw ordering expression.
func (b *Builder[T]) OrderExpr(query string, args ...interface{}) *Builder[T] {
	b.orders = append(b.orders, clause{query: query, args: args, raw: true})
	return b
}

// Relation loads a Bun relation with the fetched entities unless the query
// is hinted to load partially.
func (b *Builder[T]) Relation(name string) *Builder[T] {
	b.relations = append(b.relations, name)
	return b
}

// Identifier sets the root identifier column used to page and count
// distinct entities. It defaults to "id".
func (b *Builder[T]) Identifier(column string) *Builder[T] {
	b.identifier = column
	return b
}

func (b *Builder[T]) WithMetrics(m *Metrics) *Builder[T] {
	b.metrics = m
	return b
}

func (b *Builder[T]) SetMaxResults(n int) { b.maxResults = &n }

func (b *Builder[T]) SetFirstResult(n int) { b.firstResult = &n }

func (b *Builder[T]) MaxResults() (int, bool) {
	if b.maxResults == nil {
		return 0, false
	}
	return *b.maxResults, true
}

func (b *Builder[T]) FirstResult() (int, bool) {
	if b.firstResult == nil {
		return 0, false
	}
	return *b.firstResult, true
}

func (b *Builder[T]) HasOrdering() bool { return len(b.orders) > 0 }

func (b *Builder[T]) ClearOrdering() { b.orders = nil }

func (b *Builder[T]) Clone() collection.Descriptor[T] {
	return b.clone()
}

func (b *Builder[T]) clone() *Builder[T] {
	c := *b
	c.wheres = append([]clause(nil), b.wheres...)
	c.joins = append([]clause(nil), b.joins...)
	c.orders = append([]clause(nil), b.orders...)
	c.relations = append([]string(nil), b.relations...)
	if b.maxResults != nil {
		n := *b.maxResults
		c.maxResults = &n
	}
	if b.firstResult != nil {
		n := *b.firstResult
		c.firstResult = &n
	}
	return &c
}

// Compile validates the builder and snapshots it into a Query. Later changes
// to the builder do not affect the compiled query.
func (b *Builder[T]) Compile() (collection.Query[T], error) {
	switch {
	case b.db == nil:
		return nil, ErrNoDB
	case b.identifier == "":
		return nil, ErrNoIdentifier
	case b.maxResults != nil && *b.maxResults < 0:
		return nil, ErrNegativeLimit
	case b.firstResult != nil && *b.firstResult < 0:
		return nil, ErrNegativeOffset
	}
	return newQuery(b.clone()), nil
}

// Collection wraps the builder in a lazy collection.
func (b *Builder[T]) Collection() *collection.Collection[T] {
	return collection.New[T](b)
}

// filter applies joins and where clauses.
func (b *Builder[T]) filter(q *bun.SelectQuery) *bun.SelectQuery {
	for _, j := range b.joins {
		q = q.Join(j.query, j.args...)
	}
	for _, w := range b.wheres {
		if w.or {
			q = q.WhereOr(w.query, w.args...)
		} else {
			q = q.Where(w.query, w.args...)
		}
	}
	return q
}

func (b *Builder[T]) order(q *bun.SelectQuery) *bun.SelectQuery {
	for _, o := range b.orders {
		if o.raw {
			q = q.OrderExpr(o.query, o.args...)
		} else {
			q = q.Order(o.query)
		}
	}
	return q
}

// window applies max and first results. MySQL and SQLite reject OFFSET
// without LIMIT, so an offset alone gets the largest limit they accept.
func (b *Builder[T]) window(q *bun.SelectQuery) *bun.SelectQuery {
	offset := b.firstResult != nil && *b.firstResult > 0
	switch {
	case b.maxResults != nil:
		q = q.Limit(*b.maxResults)
	case offset && needsLimitForOffset(b.db.Dialect().Name()):
		q = q.Limit(math.MaxInt)
	}
	if offset {
		q = q.Offset(*b.firstResult)
	}
	return q
}

func needsLimitForOffset(name dialect.Name) bool {
	return name == dialect.MySQL || name == dialect.SQLite
}
