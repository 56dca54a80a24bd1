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
	"github.com/tomoncle/lazyhummer/collection"
)

// Query is a compiled Builder snapshot carrying execution hints.
type Query[T any] struct {
	builder *Builder[T]
	hints   map[collection.Hint]bool
}

func newQuery[T any](b *Builder[T]) *Query[T] {
	return &Query[T]{builder: b, hints: make(map[collection.Hint]bool, 3)}
}

func (q *Query[T]) SetHint(hint collection.Hint, value bool) {
	q.hints[hint] = value
}

func (q *Query[T]) Hint(hint collection.Hint) (bool, bool) {
	v, ok := q.hints[hint]
	return v, ok
}

func (q *Query[T]) MaxResults() (int, bool) { return q.builder.MaxResults() }

func (q *Query[T]) FirstResult() (int, bool) { return q.builder.FirstResult() }

// Paginate returns a paginator using output walkers by default.
func (q *Query[T]) Paginate(fetchJoinCollection bool) collection.Paginator[T] {
	return &Paginator[T]{
		query:               q,
		fetchJoinCollection: fetchJoinCollection,
		useOutputWalkers:    true,
	}
}

// distinct defaults to true like the collection option.
func (q *Query[T]) distinct() bool {
	if v, ok := q.hints[collection.HintDistinct]; ok {
		return v
	}
	return true
}

func (q *Query[T]) partial() bool {
	return q.hints[collection.HintForcePartialLoad]
}

func (q *Query[T]) readOnly() bool {
	return q.hints[collection.HintReadOnly]
}
