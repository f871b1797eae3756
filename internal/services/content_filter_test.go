package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracim/tracim-api/internal/models"
)

func ptr(id int64) *int64 { return &id }

// A small tree: folder 1 at root, folder 2 inside it, document 3 inside
// folder 2, thread 4 at root (archived), file 5 inside folder 1 (deleted).
func sampleTree() []models.Content {
	return []models.Content{
		{ID: 1, Type: models.ContentTypeFolder, Label: "Projects"},
		{ID: 2, ParentID: ptr(1), Type: models.ContentTypeFolder, Label: "Reports"},
		{ID: 3, ParentID: ptr(2), Type: models.ContentTypeHTMLDocument, Label: "Annual report"},
		{ID: 4, Type: models.ContentTypeThread, Label: "Old discussion", IsArchived: true},
		{ID: 5, ParentID: ptr(1), Type: models.ContentTypeFile, Label: "budget.xls", IsDeleted: true},
	}
}

func idsOf(contents []models.Content) []int64 {
	ids := make([]int64, len(contents))
	for i, c := range contents {
		ids[i] = c.ID
	}
	return ids
}

func TestFilterContents_DefaultShowsActiveOnly(t *testing.T) {
	got := filterContents(sampleTree(), DefaultContentFilter())
	assert.Equal(t, []int64{1, 2, 3}, idsOf(got))
}

func TestFilterContents_AllFlagsUnsetMatchesNothing(t *testing.T) {
	got := filterContents(sampleTree(), ContentFilter{})
	assert.Empty(t, got)
}

func TestFilterContents_ParentZeroMeansRoot(t *testing.T) {
	f := ContentFilter{ParentIDs: []int64{0}, ShowActive: true, ShowArchived: true}
	got := filterContents(sampleTree(), f)
	assert.Equal(t, []int64{1, 4}, idsOf(got))
}

func TestFilterContents_MultipleParents(t *testing.T) {
	f := ContentFilter{ParentIDs: []int64{1, 2}, ShowActive: true}
	got := filterContents(sampleTree(), f)
	assert.Equal(t, []int64{2, 3}, idsOf(got))
}

func TestFilterContents_TypeAndAnyWildcard(t *testing.T) {
	f := DefaultContentFilter()
	f.ContentType = string(models.ContentTypeFolder)
	assert.Equal(t, []int64{1, 2}, idsOf(filterContents(sampleTree(), f)))

	f.ContentType = string(models.ContentTypeAny)
	assert.Equal(t, []int64{1, 2, 3}, idsOf(filterContents(sampleTree(), f)))
}

func TestFilterContents_LabelCaseInsensitiveSubstring(t *testing.T) {
	f := DefaultContentFilter()
	f.Label = "REPORT"
	got := filterContents(sampleTree(), f)
	assert.Equal(t, []int64{2, 3}, idsOf(got))
}

func TestFilterContents_DeletedTakesPrecedenceOverArchived(t *testing.T) {
	contents := []models.Content{
		{ID: 9, Type: models.ContentTypeFile, Label: "both", IsDeleted: true, IsArchived: true},
	}

	// Visible under show_deleted, invisible under show_archived alone.
	assert.Len(t, filterContents(contents, ContentFilter{ShowDeleted: true}), 1)
	assert.Empty(t, filterContents(contents, ContentFilter{ShowArchived: true}))
}

func TestResolveFilter_CompletePathIncludesAncestors(t *testing.T) {
	f := ContentFilter{ParentIDs: []int64{0}, ShowActive: true, CompletePathToID: 3}
	got := resolveFilter(sampleTree(), f)

	// Root listing plus the path on to the target: 1 from the listing,
	// then 3 and 2 appended in walk order.
	assert.Equal(t, []int64{1, 3, 2}, idsOf(got))
}

func TestResolveFilter_TrashedTargetExcludedButAncestorsKept(t *testing.T) {
	tree := sampleTree()
	tree[2].IsDeleted = true // document 3

	f := ContentFilter{ParentIDs: []int64{0}, ShowActive: true, CompletePathToID: 3}
	got := resolveFilter(tree, f)
	assert.Equal(t, []int64{1, 2}, idsOf(got))

	f.ShowDeleted = true
	got = resolveFilter(tree, f)
	assert.Equal(t, []int64{1, 3, 2}, idsOf(got))
}

func TestResolveFilter_PathAncestorsBypassStateFlags(t *testing.T) {
	tree := sampleTree()
	tree[1].IsArchived = true // folder 2, ancestor of document 3

	f := ContentFilter{ParentIDs: []int64{0}, ShowActive: true, CompletePathToID: 3}
	got := resolveFilter(tree, f)
	require.Equal(t, []int64{1, 3, 2}, idsOf(got))
}

func TestResolveFilter_AllFlagsUnsetEmptyEvenWithPathTarget(t *testing.T) {
	// Path completion never resurrects results once every state flag is off.
	f := ContentFilter{CompletePathToID: 3}
	got := resolveFilter(sampleTree(), f)
	assert.Empty(t, got)
}

func TestResolveFilter_PathWalkSurvivesCorruptParentChain(t *testing.T) {
	// Two nodes pointing at each other, as a damaged table could hold.
	tree := []models.Content{
		{ID: 1, ParentID: ptr(2), Type: models.ContentTypeFolder, Label: "A"},
		{ID: 2, ParentID: ptr(1), Type: models.ContentTypeFolder, Label: "B"},
	}

	f := DefaultContentFilter()
	f.CompletePathToID = 2
	got := resolveFilter(tree, f)
	assert.Equal(t, []int64{1, 2}, idsOf(got))
}

func TestResolveFilter_UnknownTargetIgnored(t *testing.T) {
	f := DefaultContentFilter()
	f.CompletePathToID = 999
	got := resolveFilter(sampleTree(), f)
	assert.Equal(t, []int64{1, 2, 3}, idsOf(got))
}

func TestContentSubContentTypes(t *testing.T) {
	folder := models.Content{Type: models.ContentTypeFolder}
	assert.Equal(t,
		[]string{"folder", "html-document", "file", "thread", "comment"},
		folder.SubContentTypes())

	restricted := models.Content{
		Type:         models.ContentTypeFolder,
		AllowedTypes: []string{string(models.ContentTypeThread)},
	}
	assert.True(t, restricted.AllowsSubContent(models.ContentTypeThread))
	assert.False(t, restricted.AllowsSubContent(models.ContentTypeFile))

	doc := models.Content{Type: models.ContentTypeHTMLDocument}
	assert.True(t, doc.AllowsSubContent(models.ContentTypeComment))
	assert.False(t, doc.AllowsSubContent(models.ContentTypeFolder))

	comment := models.Content{Type: models.ContentTypeComment}
	assert.Empty(t, comment.SubContentTypes())
}
