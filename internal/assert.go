package internal

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Assert panics (through the logger, so the message reaches the configured
// sink) when an internal invariant is broken.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	if len(extraArgs) == 0 {
		logger.Panic(ctx, "internal invariant broken")
		return
	}

	logger.Panic(ctx, "internal invariant broken", extraArgs)
}
