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

	"github.com/tomoncle/lazyhummer/types"
)

// Descriptor is a not yet executed query owned by the caller.
// Limit and offset are kept on the descriptor, not on the collection.
type Descriptor[T any] interface {
	// Compile turns the descriptor into a hintable, executable query.
	Compile() (Query[T], error)

	// Clone returns an independent copy of the descriptor.
	Clone() Descriptor[T]

	// ClearOrdering removes every ordering clause.
	ClearOrdering()

	SetMaxResults(n int)
	SetFirstResult(n int)
}

// Query is a compiled descriptor that accepts execution hints.
type Query[T any] interface {
	SetHint(hint Hint, value bool)

	// Hint reports the hint value and whether it was set at all.
	Hint(hint Hint) (value bool, ok bool)

	MaxResults() (int, bool)
	FirstResult() (int, bool)

	// Paginate returns a pagination strategy over this query.
	Paginate(fetchJoinCollection bool) Paginator[T]
}

// Paginator executes a query under a pagination strategy. Items yields the
// page of entities, Count yields the total number of matching entities.
type Paginator[T any] interface {
	Query() Query[T]
	FetchJoinCollection() bool
	UseOutputWalkers() bool
	SetUseOutputWalkers(use bool)
	Items(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int, error)
}

// Hint is an execution directive attached to a compiled query.
type Hint int

const (
	HintReadOnly Hint = iota
	HintDistinct
	HintForcePartialLoad
)

var _ types.BaseEnum = HintReadOnly

var hintNames = map[Hint][2]string{
	HintReadOnly:         {"read_only", "entities are loaded for reading only"},
	HintDistinct:         {"distinct", "count and identifier queries select distinct roots"},
	HintForcePartialLoad: {"force_partial_load", "associations are not loaded with the root entities"},
}

func (h Hint) IsValid() bool {
	_, ok := hintNames[h]
	return ok
}

func (h Hint) Number() int {
	if !h.IsValid() {
		return types.IllegalValue
	}
	return int(h)
}

func (h Hint) Name() string {
	if n, ok := hintNames[h]; ok {
		return n[0]
	}
	return types.IllegalName
}

func (h Hint) Desc() string {
	if n, ok := hintNames[h]; ok {
		return n[1]
	}
	return types.IllegalDesc
}

func (h Hint) String() string { return h.Name() }

// ParseHint returns the hint named name, e.g. "force_partial_load".
func ParseHint(name string) (Hint, bool) {
	return types.ParseEnum(name, HintReadOnly, HintDistinct, HintForcePartialLoad)
}
