package crash

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"tg-relay/internal/logger"
)

// RecoverWithStack recovers from a panic and records the stack trace.
// Intended to be deferred at the top of event-handling code paths.
func RecoverWithStack(moduleName string) {
	if r := recover(); r != nil {
		stack := debug.Stack()

		logger.Errorf("PANIC in %s: %v", moduleName, r)
		logger.Errorf("Stack trace:\n%s", string(stack))

		// Also write to stderr so container logs capture the crash even if
		// the file logger is broken.
		fmt.Fprintf(os.Stderr, "[PANIC] %s - %s: %v\n", time.Now().Format("2006-01-02 15:04:05"), moduleName, r)
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(stack))
	}
}

// RecoverWithStackAndExit recovers from a panic in the main goroutine,
// records the stack trace and exits with a non-zero status.
func RecoverWithStackAndExit(moduleName string) {
	if r := recover(); r != nil {
		stack := debug.Stack()

		logger.Errorf("FATAL PANIC in %s: %v", moduleName, r)
		logger.Errorf("Stack trace:\n%s", string(stack))

		fmt.Fprintf(os.Stderr, "[FATAL PANIC] %s - %s: %v\n", time.Now().Format("2006-01-02 15:04:05"), moduleName, r)
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(stack))

		// Give the log writer a moment to flush before exiting.
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}
}

// SafeGoroutine starts a goroutine guarded by RecoverWithStack.
func SafeGoroutine(name string, fn func()) {
	go func() {
		defer RecoverWithStack(fmt.Sprintf("goroutine-%s", name))
		fn()
	}()
}
