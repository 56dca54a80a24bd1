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

package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *Config {
	conn := DefaultConnectionConfig()
	conn.Type = "sqlite"
	conn.DBName = "file::memory:?cache=shared"
	conn.MaxOpenConns = 1
	return &Config{ConnectionConfig: *conn}
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })

	assert.Same(t, db, GetDB())
	assert.Equal(t, "sqlite", GetConfig().ConnectionConfig.Type)

	var one int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)

	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
	assert.NoError(t, CloseDB())
}

func TestOpen_Errors(t *testing.T) {
	_, err := InitDB(nil)
	assert.Error(t, err)

	_, err = Open(context.Background(), &ConnectionConfig{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestDSN(t *testing.T) {
	cfg := &ConnectionConfig{
		Username:       "app",
		Password:       "secret",
		Host:           "db",
		Port:           5432,
		DBName:         "shop",
		ConnectTimeout: 5 * time.Second,
	}
	assert.Equal(t, "postgres://app:secret@db:5432/shop?sslmode=disable&connect_timeout=5", postgresDSN(cfg))
	assert.Contains(t, mysqlDSN(cfg), "app:secret@tcp(db:5432)/shop?charset=utf8mb4")
	assert.Equal(t, "shop.db", sqliteDSN(cfg))

	cfg.DBName = ":memory:"
	assert.Equal(t, ":memory:", sqliteDSN(cfg))
}

func TestQueryHook_PrintsQueries(t *testing.T) {
	var buf bytes.Buffer
	db, err := Open(context.Background(), &memoryConfig().ConnectionConfig)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.AddQueryHook(&QueryHook{Enabled: true, Verbose: true, Writer: &buf})

	var one int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one))
	assert.Contains(t, buf.String(), "[BUN]")
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestSetDB(t *testing.T) {
	cfg := memoryConfig()
	db, err := Open(context.Background(), &cfg.ConnectionConfig)
	require.NoError(t, err)

	SetDB(db, cfg)
	t.Cleanup(func() { _ = CloseDB() })

	assert.Same(t, db, GetDB())
	assert.Same(t, cfg, GetConfig())
}
