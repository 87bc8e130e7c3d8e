package safe

import (
	"context"
	"io"

	"github.com/competeai/competeai/pkg/utils/logging"
)

// Close closes c and logs a failure with the name of the resource. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer, name string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "target", name, "error", err.Error())
	}
}

// Write writes data to w and logs a failure, typically a client that went away mid-response
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if n, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write", "written", n, "size", len(data), "error", err.Error())
	}
}
