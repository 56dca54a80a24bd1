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

import "github.com/tomoncle/lazyhummer/types"

// Status is the materialization state of a collection.
type Status int

const (
	Uninitialized Status = iota
	Materializing
	Materialized
)

var _ types.BaseEnum = Uninitialized

func (s Status) IsValid() bool {
	return s >= Uninitialized && s <= Materialized
}

func (s Status) Number() int {
	if !s.IsValid() {
		return types.IllegalValue
	}
	return int(s)
}

func (s Status) Name() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Materializing:
		return "materializing"
	case Materialized:
		return "materialized"
	default:
		return types.IllegalName
	}
}

func (s Status) Desc() string {
	switch s {
	case Uninitialized:
		return "query not executed yet"
	case Materializing:
		return "fetch query is running"
	case Materialized:
		return "items are cached"
	default:
		return types.IllegalDesc
	}
}

func (s Status) String() string { return s.Name() }
