// Package collection provides a lazy, paginated entity collection. The wrapped
// query is compiled and executed only when items or a count are requested,
// and any option change discards the cached result.
package collection
