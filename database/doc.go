// Package database provides configuration loading, connection opening for
// mysql, postgres and sqlite, the global Bun database, query logging hooks,
// the logger facade and SQL error classification.
package database
