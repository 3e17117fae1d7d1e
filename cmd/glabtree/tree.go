package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glabtree/glabtree/internal/debug"
	"github.com/glabtree/glabtree/internal/report"
	"github.com/glabtree/glabtree/internal/tree"
	"github.com/glabtree/glabtree/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Render the assigned-issue tree from the REST API",
	Long: `tree lists every issue assigned to the configured user, merges the
explicit parent references and "blocks" links into one forest, and renders
it with the root issues' markdown checklists.`,
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(true, false); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := newClient()
	session := report.New(os.Stdout)

	session.Linef("[REST] Issues assigned to %s:", cfg.Username)

	issues, err := client.FetchAssignedIssues(ctx, cfg.Username)
	if err != nil {
		return err
	}
	session.Linef("total %d issues", len(issues))

	builder := tree.NewBuilder(client)
	builder.Parallel = cfg.Parallel
	forest, err := builder.Build(ctx, issues)
	if err != nil {
		return err
	}

	for _, root := range forest.Roots {
		session.Lines(tree.Render(root, forest, 0))
	}
	if forest.DroppedLinkTargets > 0 && !debug.IsQuiet() {
		fmt.Fprintln(os.Stderr, ui.Warn(fmt.Sprintf(
			"%d blocks links point outside the fetched issue set and were omitted", forest.DroppedLinkTargets)))
	}

	// Per-issue counts, including the tasks sub-resource (404-safe).
	session.Line("")
	for _, root := range forest.Roots {
		if root.IsTask() {
			continue
		}
		tasks, err := client.IssueTasks(ctx, root.IID)
		if err != nil {
			return err
		}
		session.Linef("#%d | %d direct children | %d sub-tasks", root.IID, len(forest.Children[root.ID]), len(tasks))
	}

	if err := session.WriteFile(cfg.OutputPath); err != nil {
		return err
	}
	if !debug.IsQuiet() {
		fmt.Fprintf(os.Stderr, "wrote %s %s\n", ui.Accent(cfg.OutputPath), ui.Count(fmt.Sprintf("(%d lines)", session.Len())))
	}
	return nil
}
