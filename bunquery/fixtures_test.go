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

package bunquery_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/lazyhummer/database"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Name       string    `bun:"name,notnull"`
	Price      int       `bun:"price,notnull"`
	CategoryID int64     `bun:"category_id,notnull"`
	Category   *Category `bun:"rel:belongs-to,join:category_id=id"`
	Tags       []*Tag    `bun:"rel:has-many,join:id=product_id"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID        int64  `bun:"id,pk,autoincrement"`
	ProductID int64  `bun:"product_id,notnull"`
	Name      string `bun:"name,notnull"`
}

const (
	productCount   = 10
	tagsPerProduct = 3
	joinTags       = "JOIN tags AS t ON t.product_id = p.id"
)

// openDB opens a private in-memory database holding the tables of the test
// models, optionally seeded with products 1..10 spread over three categories,
// each product carrying three tags.
func openDB(t *testing.T, seed bool) *bun.DB {
	t.Helper()
	ctx := context.Background()

	conn := database.DefaultConnectionConfig()
	conn.Type = "sqlite"
	conn.DBName = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn.MaxOpenConns = 1
	conn.SlowQueryTime = 0

	db, err := database.Open(ctx, conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, model := range []interface{}{(*Category)(nil), (*Product)(nil), (*Tag)(nil)} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}
	if !seed {
		return db
	}

	categories := make([]*Category, 0, 3)
	for i := 1; i <= 3; i++ {
		categories = append(categories, &Category{Name: fmt.Sprintf("category-%d", i)})
	}
	_, err = db.NewInsert().Model(&categories).Exec(ctx)
	require.NoError(t, err)

	products := make([]*Product, 0, productCount)
	for i := 1; i <= productCount; i++ {
		products = append(products, &Product{
			Name:       fmt.Sprintf("product-%02d", i),
			Price:      i * 100,
			CategoryID: int64(i%3 + 1),
		})
	}
	_, err = db.NewInsert().Model(&products).Exec(ctx)
	require.NoError(t, err)

	tags := make([]*Tag, 0, productCount*tagsPerProduct)
	for i := 1; i <= productCount; i++ {
		for j := 1; j <= tagsPerProduct; j++ {
			tags = append(tags, &Tag{ProductID: int64(i), Name: fmt.Sprintf("tag-%d-%d", i, j)})
		}
	}
	_, err = db.NewInsert().Model(&tags).Exec(ctx)
	require.NoError(t, err)
	return db
}

func productIDs(items []*Product) []int64 {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}
