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
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/tomoncle/lazyhummer/collection"
	"github.com/tomoncle/lazyhummer/database"
)

const (
	resultAlias = "page_ids"
	countAlias  = "page_rows"
)

// Paginator runs a compiled Query. With fetchJoinCollection and a limit, the
// page is selected by identifier first so joined rows cannot shrink it. With
// output walkers, identifier and count queries are wrapped in derived tables.
type Paginator[T any] struct {
	query               *Query[T]
	fetchJoinCollection bool
	useOutputWalkers    bool
}

func (p *Paginator[T]) Query() collection.Query[T] { return p.query }

func (p *Paginator[T]) FetchJoinCollection() bool { return p.fetchJoinCollection }

func (p *Paginator[T]) UseOutputWalkers() bool { return p.useOutputWalkers }

func (p *Paginator[T]) SetUseOutputWalkers(use bool) { p.useOutputWalkers = use }

// Items fetches the page of entities.
func (p *Paginator[T]) Items(ctx context.Context) ([]*T, error) {
	start := time.Now()
	items, err := p.items(ctx)
	p.observe(strategyFetch, start, err, "rows", len(items))
	return items, err
}

// Count returns the number of entities matching the query, ignoring its
// ordering, limit and offset.
func (p *Paginator[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := p.count(ctx)
	p.observe(strategyCount, start, err, "total", n)
	return n, err
}

func (p *Paginator[T]) items(ctx context.Context) ([]*T, error) {
	b := p.query.builder
	items := make([]*T, 0)
	limit, limited := b.MaxResults()
	if limited && limit == 0 {
		return items, nil
	}

	q := b.order(b.filter(b.db.NewSelect().Model(&items)))
	if p.fetchJoinCollection && len(b.joins) > 0 {
		q = q.Distinct()
	}
	if !p.query.partial() {
		for _, rel := range b.relations {
			q = q.Relation(rel)
		}
	}
	if p.fetchJoinCollection && limited {
		q = q.Where("?TableAlias.? IN (?)", bun.Ident(b.identifier), p.identifierQuery())
	} else {
		q = b.window(q)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// identifierQuery selects the identifiers of the requested page.
func (p *Paginator[T]) identifierQuery() *bun.SelectQuery {
	b := p.query.builder
	ids := b.db.NewSelect().
		Model((*T)(nil)).
		ColumnExpr("?TableAlias.?", bun.Ident(b.identifier))
	if p.query.distinct() {
		ids = ids.Distinct()
	}
	ids = b.window(b.order(b.filter(ids)))
	// MySQL does not accept LIMIT inside an IN subquery, only in a derived table.
	if !p.useOutputWalkers && b.db.Dialect().Name() != dialect.MySQL {
		return ids
	}
	return b.db.NewSelect().
		ColumnExpr("?.?", bun.Ident(resultAlias), bun.Ident(b.identifier)).
		TableExpr("(?) AS ?", ids, bun.Ident(resultAlias))
}

func (p *Paginator[T]) count(ctx context.Context) (int, error) {
	b := p.query.builder
	var n int

	if p.useOutputWalkers {
		inner := b.db.NewSelect().
			Model((*T)(nil)).
			ColumnExpr("?TableAlias.?", bun.Ident(b.identifier))
		if p.query.distinct() {
			inner = inner.Distinct()
		}
		err := b.db.NewSelect().
			ColumnExpr("count(*)").
			TableExpr("(?) AS ?", b.filter(inner), bun.Ident(countAlias)).
			Scan(ctx, &n)
		return n, err
	}

	expr := "count(?TableAlias.?)"
	if p.query.distinct() {
		expr = "count(DISTINCT ?TableAlias.?)"
	}
	q := b.db.NewSelect().Model((*T)(nil)).ColumnExpr(expr, bun.Ident(b.identifier))
	err := b.filter(q).Scan(ctx, &n)
	return n, err
}

func (p *Paginator[T]) observe(strategy string, start time.Time, err error, fields ...interface{}) {
	elapsed := time.Since(start)
	p.query.builder.metrics.observe(strategy, elapsed, err)

	fields = append(fields,
		"strategy", strategy,
		"fetch_join_collection", p.fetchJoinCollection,
		"output_walkers", p.useOutputWalkers,
		"read_only", p.query.readOnly(),
		"duration", elapsed,
	)
	if err != nil {
		database.GetLogger().Warn("Paginator execution failed", append(fields, "error", err)...)
		return
	}
	database.GetLogger().Debug("Paginator executed", fields...)
}
