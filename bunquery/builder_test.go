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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/lazyhummer/bunquery"
	"github.com/tomoncle/lazyhummer/collection"
)

func TestBuilder_CompileErrors(t *testing.T) {
	db := openDB(t, false)

	_, err := bunquery.NewBuilder[Product](nil).Compile()
	assert.ErrorIs(t, err, bunquery.ErrNoDB)

	_, err = bunquery.NewBuilder[Product](db).Identifier("").Compile()
	assert.ErrorIs(t, err, bunquery.ErrNoIdentifier)

	b := bunquery.NewBuilder[Product](db)
	b.SetMaxResults(-1)
	_, err = b.Compile()
	assert.ErrorIs(t, err, bunquery.ErrNegativeLimit)

	b = bunquery.NewBuilder[Product](db)
	b.SetFirstResult(-5)
	_, err = b.Compile()
	assert.ErrorIs(t, err, bunquery.ErrNegativeOffset)
}

func TestBuilder_CompileErrorLeavesCollectionUninitialized(t *testing.T) {
	c := bunquery.NewBuilder[Product](nil).Collection()

	_, err := c.First(context.Background())
	assert.ErrorIs(t, err, bunquery.ErrNoDB)
	assert.Equal(t, collection.Uninitialized, c.Status())
	assert.Nil(t, c.Paginator())
}

func TestBuilder_CompileSnapshots(t *testing.T) {
	db := openDB(t, true)

	b := bunquery.NewBuilder[Product](db).Order("p.id ASC")
	b.SetMaxResults(2)
	q, err := b.Compile()
	require.NoError(t, err)

	b.SetMaxResults(5)
	b.SetFirstResult(1)
	b.ClearOrdering()

	n, ok := q.MaxResults()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = q.FirstResult()
	assert.False(t, ok)

	items, err := q.Paginate(false).Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, productIDs(items))
}

func TestBuilder_Clone(t *testing.T) {
	db := openDB(t, false)

	b := bunquery.NewBuilder[Product](db).Where("p.price > ?", 1).Order("p.id ASC")
	b.SetMaxResults(3)

	c := b.Clone().(*bunquery.Builder[Product])
	c.ClearOrdering()
	c.SetMaxResults(7)

	assert.True(t, b.HasOrdering())
	assert.False(t, c.HasOrdering())
	n, _ := b.MaxResults()
	assert.Equal(t, 3, n)
	n, _ = c.MaxResults()
	assert.Equal(t, 7, n)
}

func TestQuery_Hints(t *testing.T) {
	db := openDB(t, false)

	q, err := bunquery.NewBuilder[Product](db).Compile()
	require.NoError(t, err)

	_, ok := q.Hint(collection.HintForcePartialLoad)
	assert.False(t, ok)

	q.SetHint(collection.HintReadOnly, true)
	v, ok := q.Hint(collection.HintReadOnly)
	assert.True(t, ok)
	assert.True(t, v)

	p := q.Paginate(true)
	assert.True(t, p.FetchJoinCollection())
	assert.True(t, p.UseOutputWalkers())
	p.SetUseOutputWalkers(false)
	assert.False(t, p.UseOutputWalkers())
	assert.Same(t, q, p.Query())
}
