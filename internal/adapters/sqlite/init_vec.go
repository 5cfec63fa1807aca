//go:build sqlite_vec && cgo

package sqlite

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

const vecEnabled = true

func init() {
	// Registers vec_distance_cosine and friends with mattn/go-sqlite3.
	vec.Auto()
}
