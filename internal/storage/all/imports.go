// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it (even as a blank import)
// runs the init functions of each concrete backend, which register their
// factories with the storage package. Importing this package makes the
// following storage kinds available at runtime:
//
//   - "sqlite"   (tidycatch/internal/storage/sqlite)
//   - "postgres" (tidycatch/internal/storage/postgres)
//
// A binary that only needs one backend can blank-import that backend's
// package directly instead of this one.
package all

import (
	_ "tidycatch/internal/storage/postgres"
	_ "tidycatch/internal/storage/sqlite"
)
