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

package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/lazyhummer/bunquery"
	"github.com/tomoncle/lazyhummer/collection"
	"github.com/tomoncle/lazyhummer/database"
	"github.com/tomoncle/lazyhummer/types"
)

type baseRepositoryImpl[T any] struct {
	db      bun.IDB
	metrics *bunquery.Metrics
}

// NewRepository returns a generic repository backed by the provided Bun DB
// or transaction.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

// NewRepositoryWithMetrics is NewRepository with paginator metrics recorded
// for every collection it builds.
func NewRepositoryWithMetrics[T any](db bun.IDB, metrics *bunquery.Metrics) Repository[T] {
	return &baseRepositoryImpl[T]{db: db, metrics: metrics}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if is, kind := database.IsSqlError(err); is && kind == database.NoRowsErr {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return r.Collection(filter).ToSlice(ctx)
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return r.Collection(types.NewQueryFilter(query, args...)).ToSlice(ctx)
}

func (r *baseRepositoryImpl[T]) Builder(filter *types.QueryFilter, orders ...string) *bunquery.Builder[T] {
	b := bunquery.NewBuilder[T](r.db).WithMetrics(r.metrics)
	if filter != nil && filter.Schema != "" {
		b.Where(filter.Schema, filter.Args...)
	}
	return b.Order(orders...)
}

func (r *baseRepositoryImpl[T]) Collection(filter *types.QueryFilter, orders ...string) *collection.Collection[T] {
	return r.Builder(filter, orders...).Collection()
}

// Page reads one window of the filtered, ordered entities and the total
// number of matching entities.
func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	return PageOf(ctx, r.Collection(pageRequest.GetFilter(), pageRequest.GetOrders()...), pageRequest)
}

// PageOf applies the window of pageRequest to c, then reads its items and
// total count.
func PageOf[T any](ctx context.Context, c *collection.Collection[T], pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	c.SetLimit(pageRequest.GetLimit()).SetOffset(pageRequest.GetOffset())

	items, err := c.ToSlice(ctx)
	if err != nil {
		return nil, fmt.Errorf("page items: %w", err)
	}
	total, err := c.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return types.NewPagination(pageRequest, total, items), nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := make([]*T, len(entity))
	copy(entities, entity)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	var entity T
	_, err := r.db.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return err
}
