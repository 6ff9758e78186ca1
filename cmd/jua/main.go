package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/juaai/jua/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{
		Verbose:   envTrue("JUA_DEBUG"),
		Ephemeral: envTrue("JUA_EPHEMERAL"),
	}

	root, cleanup, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	if cerr := cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envTrue(key string) bool {
	return strings.EqualFold(os.Getenv(key), "1") || strings.EqualFold(os.Getenv(key), "true")
}
