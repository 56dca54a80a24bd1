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

package lazyhummer

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/lazyhummer/collection"
	"github.com/tomoncle/lazyhummer/database"
	"github.com/tomoncle/lazyhummer/repository"
	"github.com/tomoncle/lazyhummer/types"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier, or nil when absent.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Collection returns a lazy collection configured with the pagination
	// section of the global config.
	Collection(filter *types.QueryFilter, orders ...string) *collection.Collection[T]

	// Page returns one page of entities and the total count.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// Update modifies an existing entity.
	Update(ctx context.Context, model *T) error

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) error

	// SelectBuilder returns a Bun select query builder for the entity.
	SelectBuilder() *bun.SelectQuery
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a default Service implementation using the generic
// repository backed by the global database connection.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](database.GetDB()) })
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().GetOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().GetAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return s.Collection(filter).ToSlice(ctx)
}

func (s *baseServiceImpl[T]) Collection(filter *types.QueryFilter, orders ...string) *collection.Collection[T] {
	c := s.baseRepo().Collection(filter, orders...)
	if cfg := database.GetConfig(); cfg != nil {
		ApplyPaginationConfig(c, &cfg.PaginationConfig)
	}
	return c
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	return repository.PageOf(ctx, s.Collection(page.GetFilter(), page.GetOrders()...), page)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.baseRepo().Create(ctx, model...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) error {
	return s.baseRepo().Update(ctx, model)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.baseRepo().NewSelect()
}

// ApplyPaginationConfig sets every option present in cfg on c. Unset options
// keep the collection defaults.
func ApplyPaginationConfig[T any](c *collection.Collection[T], cfg *database.PaginationConfig) *collection.Collection[T] {
	if cfg.ReadOnly != nil {
		c.SetReadOnly(*cfg.ReadOnly)
	}
	if cfg.ForcePartialLoad != nil {
		c.SetForcePartialLoad(*cfg.ForcePartialLoad)
	}
	if cfg.UseDistinct != nil {
		c.SetUseDistinct(*cfg.UseDistinct)
	}
	if cfg.UseOutputWalkers != nil {
		c.SetUseOutputWalkers(*cfg.UseOutputWalkers)
	}
	if cfg.FetchJoinCollection != nil {
		c.SetFetchJoinCollection(*cfg.FetchJoinCollection)
	}
	if cfg.ClearSortForCount {
		c.ClearSortForCountRequest()
	}
	return c
}
