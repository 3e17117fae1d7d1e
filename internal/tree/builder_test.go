package tree

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabtree/glabtree/internal/gitlab"
)

// fakeLinks is a LinkLister double keyed by issue IID.
type fakeLinks struct {
	byIID map[int][]gitlab.IssueLink
	mu    sync.Mutex
	calls []int
	err   error
}

func (f *fakeLinks) IssueLinks(ctx context.Context, iid int) ([]gitlab.IssueLink, error) {
	f.mu.Lock()
	f.calls = append(f.calls, iid)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byIID[iid], nil
}

func issue(id, iid int, title string) gitlab.Issue {
	return gitlab.Issue{ID: id, IID: iid, Title: title, State: "opened"}
}

func task(id, iid int, title string, parentID int) gitlab.Issue {
	is := gitlab.Issue{ID: id, IID: iid, Title: title, State: "opened", Type: "task"}
	if parentID != 0 {
		is.Parent = &gitlab.ParentRef{ID: parentID}
	}
	return is
}

func blocks(targetIID int) gitlab.IssueLink {
	return gitlab.IssueLink{IID: targetIID, LinkType: "blocks"}
}

func TestBuild_ExplicitParent(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "parent"),
		task(2, 11, "child", 1),
	}
	b := NewBuilder(&fakeLinks{})

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Roots, 1)
	assert.Equal(t, 1, tr.Roots[0].ID)
	require.Len(t, tr.Children[1], 1)
	assert.Equal(t, 2, tr.Children[1][0].ID)
	assert.Equal(t, Edge{ParentID: 1, Source: SourceParent}, tr.Owner[2])
}

func TestBuild_LinkDerivedChildren(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "blocker"),
		issue(2, 11, "blocked"),
	}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		10: {blocks(11)},
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Roots, 1)
	assert.Equal(t, 1, tr.Roots[0].ID)
	require.Len(t, tr.Children[1], 1)
	assert.Equal(t, 2, tr.Children[1][0].ID)
	assert.Equal(t, Edge{ParentID: 1, Source: SourceLink}, tr.Owner[2])
}

// First-writer-wins: an explicit parent claim beats a later blocks link.
func TestBuild_FirstWriterWins(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "P1"),
		issue(2, 11, "P2"),
		task(3, 12, "X", 1),
	}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		11: {blocks(12)}, // P2 also claims X via blocks
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Equal(t, Edge{ParentID: 1, Source: SourceParent}, tr.Owner[3])
	require.Len(t, tr.Children[1], 1)
	assert.Empty(t, tr.Children[2])
}

func TestBuild_SelfLinkIgnored(t *testing.T) {
	issues := []gitlab.Issue{issue(1, 10, "narcissist")}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		10: {blocks(10)},
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Empty(t, tr.Children[1])
	require.Len(t, tr.Roots, 1)
}

// A parent reference to an id outside the fetched set means "no parent".
func TestBuild_UnknownParentBecomesRoot(t *testing.T) {
	issues := []gitlab.Issue{task(1, 10, "orphan", 999)}
	b := NewBuilder(&fakeLinks{})

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Roots, 1)
	assert.Equal(t, 1, tr.Roots[0].ID)
}

func TestBuild_UnresolvableLinkTargetDropped(t *testing.T) {
	issues := []gitlab.Issue{issue(1, 10, "root")}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		10: {blocks(777), {IID: 778, LinkType: "relates_to"}},
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Empty(t, tr.Children[1])
	assert.Equal(t, 1, tr.DroppedLinkTargets, "only the unresolvable blocks link counts")
}

// Tasks never get a links fetch; total remote calls stay O(non-task issues).
func TestBuild_NoLinkFetchForTasks(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "issue"),
		task(2, 11, "task", 1),
	}
	links := &fakeLinks{}
	b := NewBuilder(links)

	_, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Equal(t, []int{10}, links.calls)
}

func TestBuild_NoLinkFetchForNonIssueTypes(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "plain"),
		{ID: 2, IID: 11, Title: "fire", State: "opened", Type: "incident"},
		{ID: 3, IID: 12, Title: "check", State: "opened", Type: "test_case"},
		{ID: 4, IID: 13, Title: "typed plain", State: "opened", Type: "issue"},
	}
	links := &fakeLinks{}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 13}, links.calls)
	assert.Len(t, tr.Roots, 4)
}

// Mutual explicit parents would form a two-node cycle under naive merging;
// the second edge is rejected and one of the pair stays a root.
func TestBuild_MutualParentsStayAcyclic(t *testing.T) {
	a := task(1, 10, "A", 2)
	bIssue := task(2, 11, "B", 1)
	b := NewBuilder(&fakeLinks{})

	tr, err := b.Build(context.Background(), []gitlab.Issue{a, bIssue})
	require.NoError(t, err)

	require.Len(t, tr.Roots, 1, "one of the pair must remain reachable as a root")
	assertAcyclic(t, tr)
	assertComplete(t, tr, 2)
}

// A blocks link back up the tree must not create a cycle either.
func TestBuild_LinkBackEdgeRejected(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "top"),
		issue(2, 11, "mid"),
	}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		10: {blocks(11)}, // top -> mid
		11: {blocks(10)}, // mid -> top, would close the loop
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Children[1], 1)
	assert.Empty(t, tr.Children[2])
	assertAcyclic(t, tr)
	assertComplete(t, tr, 2)
}

func TestBuild_Completeness(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "r1"),
		issue(2, 11, "r2"),
		task(3, 12, "c1", 1),
		task(4, 13, "c2", 1),
		issue(5, 14, "c3"),
	}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		11: {blocks(14)},
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Roots, 2)
	assert.Equal(t, []int{1, 2}, []int{tr.Roots[0].ID, tr.Roots[1].ID}, "roots keep input order")
	assertAcyclic(t, tr)
	assertComplete(t, tr, 5)
}

// An issue whose links fetch yielded nothing contributes zero edges and the
// build continues.
func TestBuild_EmptyLinksTolerated(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "no links endpoint"),
		issue(2, 11, "has links"),
	}
	links := &fakeLinks{byIID: map[int][]gitlab.IssueLink{
		// 10 absent: the 404-as-empty policy upstream hands us nil
		11: {blocks(10)},
	}}
	b := NewBuilder(links)

	tr, err := b.Build(context.Background(), issues)
	require.NoError(t, err)

	require.Len(t, tr.Children[2], 1)
	assert.Equal(t, 1, tr.Children[2][0].ID)
}

func TestBuild_FetchErrorIsFatal(t *testing.T) {
	issues := []gitlab.Issue{issue(1, 10, "boom")}
	links := &fakeLinks{err: errors.New("API error: status 500")}
	b := NewBuilder(links)

	_, err := b.Build(context.Background(), issues)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#10")
}

// Parallel link fetching must not change the resulting tree.
func TestBuild_ParallelMatchesSequential(t *testing.T) {
	issues := []gitlab.Issue{
		issue(1, 10, "a"),
		issue(2, 11, "b"),
		issue(3, 12, "c"),
		issue(4, 13, "d"),
	}
	byIID := map[int][]gitlab.IssueLink{
		10: {blocks(11)},
		11: {blocks(12)},
		12: {blocks(13)},
	}

	seq := NewBuilder(&fakeLinks{byIID: byIID})
	seqTree, err := seq.Build(context.Background(), issues)
	require.NoError(t, err)

	par := NewBuilder(&fakeLinks{byIID: byIID})
	par.Parallel = 4
	parTree, err := par.Build(context.Background(), issues)
	require.NoError(t, err)

	assert.Equal(t, seqTree.Children, parTree.Children)
	assert.Equal(t, seqTree.Roots, parTree.Roots)
	assert.Equal(t, seqTree.Owner, parTree.Owner)
}

// assertAcyclic walks the children map from every root and fails on a
// revisited id.
func assertAcyclic(t *testing.T, tr *Tree) {
	t.Helper()
	seen := make(map[int]bool)
	var walk func(id int)
	walk = func(id int) {
		if seen[id] {
			t.Fatalf("issue %d visited twice: children map has a cycle or shared child", id)
		}
		seen[id] = true
		for _, child := range tr.Children[id] {
			walk(child.ID)
		}
	}
	for _, root := range tr.Roots {
		walk(root.ID)
	}
}

// assertComplete verifies roots plus all descendants cover exactly total
// issues with no duplicates.
func assertComplete(t *testing.T, tr *Tree, total int) {
	t.Helper()
	count := 0
	seen := make(map[int]bool)
	var walk func(id int)
	walk = func(id int) {
		require.False(t, seen[id], "issue %d counted twice", id)
		seen[id] = true
		count++
		for _, child := range tr.Children[id] {
			walk(child.ID)
		}
	}
	for _, root := range tr.Roots {
		walk(root.ID)
	}
	assert.Equal(t, total, count, "every input issue appears exactly once")
}
