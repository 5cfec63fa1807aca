//go:build !(sqlite_vec && cgo)

package sqlite

const vecEnabled = false
