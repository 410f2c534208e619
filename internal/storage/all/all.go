// Package all wires every built-in storage backend into the storage
// factory.
//
// It exists purely for side effects: a blank import runs each backend's
// init function, which registers its factory with the storage package. The
// wiring layer (cmd/cleanse) imports it once; everything else depends only
// on the storage abstraction.
//
// Registered kinds: "csv", "sqlite", "postgres", "mysql".
package all

import (
	_ "cleanse/internal/storage/csvstore"
	_ "cleanse/internal/storage/mysql"
	_ "cleanse/internal/storage/postgres"
	_ "cleanse/internal/storage/sqlite"
)
