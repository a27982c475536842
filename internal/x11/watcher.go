package x11

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
)

// WatchScreenChanges subscribes to RandR screen-change notifications and
// invokes onChange for every display topology change until ctx is done or
// the connection closes. onChange runs on the watcher goroutine.
func (c *Connection) WatchScreenChanges(ctx context.Context, logger *slog.Logger, onChange func()) error {
	x := c.XUtil.Conn()
	if err := randr.Init(x); err != nil {
		return fmt.Errorf("randr init failed: %w", err)
	}

	err := randr.SelectInputChecked(x, c.Root,
		randr.NotifyMaskScreenChange|
			randr.NotifyMaskCrtcChange|
			randr.NotifyMaskOutputChange).Check()
	if err != nil {
		return fmt.Errorf("failed to select randr input: %w", err)
	}

	go func() {
		for {
			ev, xerr := x.WaitForEvent()
			if ev == nil && xerr == nil {
				// Connection closed.
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if xerr != nil {
				logger.Warn("x11 event error", "error", xerr)
				continue
			}
			switch ev.(type) {
			case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
				onChange()
			}
		}
	}()

	return nil
}
