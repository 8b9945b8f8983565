package gpu

import (
	"log/slog"

	"github.com/gogpu/curvefill"
)

// slogger returns the current package logger.
// All logging in this package goes through this function, sharing the
// module-level logger configured via curvefill.SetLogger.
func slogger() *slog.Logger { return curvefill.Logger() }
