// Package bunquery implements the collection engine on top of Bun. A Builder
// is the query descriptor, Compile turns it into a hintable Query, and the
// Query's Paginator runs the fetch and count strategies.
package bunquery
