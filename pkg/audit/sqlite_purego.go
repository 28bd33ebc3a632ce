package audit

import (
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DriverPurego is the modernc.org/sqlite driver. It needs no C toolchain,
// at some cost in write throughput; select it for cross-compiled builds.
const DriverPurego = "sqlite"
