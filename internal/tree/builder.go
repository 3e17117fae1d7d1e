// Package tree reconciles GitLab parent references and "blocks" links into a
// single, cycle-free issue forest.
package tree

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/glabtree/glabtree/internal/debug"
	"github.com/glabtree/glabtree/internal/gitlab"
)

// EdgeSource identifies which relationship signal attached a child.
type EdgeSource int

const (
	// SourceParent marks an edge from an explicit parent reference.
	SourceParent EdgeSource = iota
	// SourceLink marks an edge derived from a "blocks" issue link.
	SourceLink
)

func (s EdgeSource) String() string {
	switch s {
	case SourceParent:
		return "parent"
	case SourceLink:
		return "link"
	default:
		return "unknown"
	}
}

// Edge records the single owner of a child issue.
type Edge struct {
	ParentID int
	Source   EdgeSource
}

// LinkLister retrieves the typed links of one issue by project-scoped IID.
// *gitlab.Client satisfies it; tests substitute a local double.
type LinkLister interface {
	IssueLinks(ctx context.Context, iid int) ([]gitlab.IssueLink, error)
}

// Tree is the reconciled forest: an insertion-ordered children map plus the
// set of issues that ended up with no owner.
type Tree struct {
	// Children maps a parent issue's global ID to its children, in
	// registration order. An issue appears under at most one parent.
	Children map[int][]gitlab.Issue

	// Roots holds the input issues that have no owner, in input order.
	Roots []gitlab.Issue

	// Owner maps each attached child's ID to the edge that claimed it.
	Owner map[int]Edge

	// DroppedLinkTargets counts "blocks" targets that pointed outside the
	// fetched issue set and were silently omitted.
	DroppedLinkTargets int
}

// Builder merges the two relationship signals into a Tree.
type Builder struct {
	links LinkLister

	// Parallel bounds concurrent link fetches. Values <= 1 keep the
	// fetch sequence strictly sequential. Results are consumed in input
	// order either way, so the built tree does not depend on it.
	Parallel int
}

// NewBuilder creates a Builder fetching links through the given lister.
func NewBuilder(links LinkLister) *Builder {
	return &Builder{links: links}
}

// Build reconciles issues into a single forest.
//
// Explicit parent references are registered first, then "blocks" links, both
// in input order. The first signal to claim a child wins; later claims are
// rejected, as is any edge that would make an issue its own ancestor. An
// unresolvable parent reference leaves the issue a root candidate; a
// "blocks" target outside the issue set is dropped and counted.
func (b *Builder) Build(ctx context.Context, issues []gitlab.Issue) (*Tree, error) {
	t := &Tree{
		Children: make(map[int][]gitlab.Issue),
		Owner:    make(map[int]Edge),
	}

	byID := make(map[int]gitlab.Issue, len(issues))
	iidToID := make(map[int]int, len(issues))
	for _, issue := range issues {
		byID[issue.ID] = issue
		iidToID[issue.IID] = issue.ID
	}

	// Pass 1: explicit parent references.
	for _, issue := range issues {
		if issue.Parent == nil {
			continue
		}
		if _, known := byID[issue.Parent.ID]; !known {
			// Unknown parent id: treated as "no parent".
			continue
		}
		t.attach(issue.Parent.ID, issue, SourceParent)
	}

	// Pass 2: link-derived edges. One links fetch per plain issue,
	// regardless of how many links turn out to be irrelevant.
	linksByIndex, err := b.fetchLinks(ctx, issues)
	if err != nil {
		return nil, err
	}

	for i, issue := range issues {
		for _, link := range linksByIndex[i] {
			if link.LinkType != gitlab.LinkTypeBlocks {
				continue
			}
			targetID, known := iidToID[link.IID]
			if !known {
				// Target outside the fetched set; cannot resolve.
				t.DroppedLinkTargets++
				continue
			}
			if targetID == issue.ID {
				// Self-links never attach.
				continue
			}
			t.attach(issue.ID, byID[targetID], SourceLink)
		}
	}

	if t.DroppedLinkTargets > 0 {
		debug.Logf("tree: dropped %d blocks links pointing outside the fetched issue set\n", t.DroppedLinkTargets)
	}

	// Roots: everything no edge claimed.
	for _, issue := range issues {
		if _, owned := t.Owner[issue.ID]; !owned {
			t.Roots = append(t.Roots, issue)
		}
	}

	return t, nil
}

// attach registers child under parentID unless the child already has an
// owner or the edge would create a cycle. Reports whether it registered.
func (t *Tree) attach(parentID int, child gitlab.Issue, source EdgeSource) bool {
	if _, owned := t.Owner[child.ID]; owned {
		return false
	}
	if t.wouldCycle(parentID, child.ID) {
		debug.Logf("tree: rejected %s edge %d -> %d: would create a cycle\n", source, parentID, child.ID)
		return false
	}
	t.Owner[child.ID] = Edge{ParentID: parentID, Source: source}
	t.Children[parentID] = append(t.Children[parentID], child)
	return true
}

// wouldCycle reports whether attaching childID under parentID would make
// childID its own ancestor. Each issue has at most one owner, so walking
// the owner chain upward from parentID terminates.
func (t *Tree) wouldCycle(parentID, childID int) bool {
	for id := parentID; ; {
		if id == childID {
			return true
		}
		edge, owned := t.Owner[id]
		if !owned {
			return false
		}
		id = edge.ParentID
	}
}

// fetchLinks retrieves links for every plain issue, keyed by input index.
// Tasks, incidents and test cases never get a fetch; their slot stays nil.
func (b *Builder) fetchLinks(ctx context.Context, issues []gitlab.Issue) ([][]gitlab.IssueLink, error) {
	results := make([][]gitlab.IssueLink, len(issues))

	if b.Parallel <= 1 {
		for i, issue := range issues {
			if !issue.HasLinks() {
				continue
			}
			links, err := b.links.IssueLinks(ctx, issue.IID)
			if err != nil {
				return nil, fmt.Errorf("fetch links for issue #%d: %w", issue.IID, err)
			}
			results[i] = links
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Parallel)
	for i, issue := range issues {
		if !issue.HasLinks() {
			continue
		}
		g.Go(func() error {
			links, err := b.links.IssueLinks(gctx, issue.IID)
			if err != nil {
				return fmt.Errorf("fetch links for issue #%d: %w", issue.IID, err)
			}
			results[i] = links
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
