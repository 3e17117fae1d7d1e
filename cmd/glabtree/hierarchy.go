package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glabtree/glabtree/internal/debug"
	"github.com/glabtree/glabtree/internal/hierarchy"
	"github.com/glabtree/glabtree/internal/report"
	"github.com/glabtree/glabtree/internal/ui"
)

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Render assigned work-item hierarchies from the GraphQL API",
	Long: `hierarchy lists the work items assigned to the configured user and
renders each one's hierarchy widget. The remote query carries at most two
nested levels of children in a single response; anything deeper, and any
page past the first, is marked as not fetched rather than followed.`,
	RunE: runHierarchy,
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(false, true); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := newClient()
	session := report.New(os.Stdout)

	session.Linef("[GraphQL HIERARCHY] Work items assigned to %s:", cfg.Username)

	refs, err := client.ListProjectWorkItems(ctx, cfg.ProjectFullPath, cfg.Username, cfg.PageSize)
	if err != nil {
		return err
	}
	session.Linef("total %d work items", len(refs))

	for _, ref := range refs {
		item, err := client.FetchWorkItemHierarchy(ctx, ref.ID, cfg.PageSize)
		if err != nil {
			return err
		}
		session.Lines(hierarchy.Render(item, 0))
	}

	if err := session.WriteFile(cfg.OutputPath); err != nil {
		return err
	}
	if !debug.IsQuiet() {
		fmt.Fprintf(os.Stderr, "wrote %s %s\n", ui.Accent(cfg.OutputPath), ui.Count(fmt.Sprintf("(%d lines)", session.Len())))
	}
	return nil
}
