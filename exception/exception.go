package exception

import (
	"runtime/debug"

	"github.com/robynasuro/octra-client/logx"
	"github.com/robynasuro/octra-client/monitoring"
)

// SafeGo runs fn on its own goroutine and converts a panic into a logged,
// counted event. Background cache maintenance must never take the process down.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				monitoring.IncreasePanicCount()
				logx.Error("Panic in: ", name, r, string(debug.Stack()))
			}
		}()
		fn()
	}()
}
