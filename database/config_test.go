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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
connection:
  type: mysql
  host: 127.0.0.1
  port: 3306
  dbname: shop
  slow_query_time: 500ms
pagination:
  use_distinct: false
  force_partial_load: true
  clear_sort_for_count: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	conn := cfg.ConnectionConfig
	assert.Equal(t, "mysql", conn.Type)
	assert.Equal(t, 3306, conn.Port)
	assert.Equal(t, "shop", conn.DBName)
	assert.Equal(t, 500*time.Millisecond, conn.SlowQueryTime)
	assert.Equal(t, 100, conn.MaxOpenConns, "defaults survive partial YAML")

	p := cfg.PaginationConfig
	require.NotNil(t, p.UseDistinct)
	assert.False(t, *p.UseDistinct)
	require.NotNil(t, p.ForcePartialLoad)
	assert.True(t, *p.ForcePartialLoad)
	assert.Nil(t, p.FetchJoinCollection)
	assert.True(t, p.ClearSortForCount)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", ":memory:")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.ConnectionConfig.Type)
	assert.Equal(t, 5433, cfg.ConnectionConfig.Port)
	assert.Equal(t, ":memory:", cfg.ConnectionConfig.DBName)
	assert.True(t, cfg.ConnectionConfig.EnableQueryLog)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "connection: [unterminated"))
	assert.Error(t, err)
}
