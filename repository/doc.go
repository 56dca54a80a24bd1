// Package repository provides a generic repository built on Bun for CRUD
// operations, lazy collections and page queries. It accepts any bun.IDB, so
// a repository bound to a bun.Tx runs inside that transaction.
package repository
