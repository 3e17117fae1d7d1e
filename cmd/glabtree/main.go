// Package main implements the glabtree CLI: it queries a GitLab instance
// for the issues and work items assigned to a user and renders them as an
// indented tree.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
