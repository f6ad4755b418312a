// Command scorpion runs the resource server and talks to it.
//
//	scorpion serve --config scorpion.yaml
//	scorpion get http://localhost:8080/jeff/notes -u jeff -p test
//	scorpion post http://localhost:8080/jeff/notes -u jeff -p test -d "remember"
//	scorpion encode jeff:test
//	scorpion decode amVmZjp0ZXN0
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
