package service

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"guidelines.md":        {Data: []byte("---\ntitle: Community Guidelines\nlastUpdated: 2025-01-15\n---\n\n## Be kind\n")},
		"legal/terms.md":       {Data: []byte("## Your account\n")},
		"legal/privacy-faq.md": {Data: []byte("---\nlastUpdated: 2025/02/01\n---\nhi\n")},
	}
}

func TestContentPage(t *testing.T) {
	svc := NewContentService(contentFS(), false)

	page, err := svc.Page("guidelines")
	require.NoError(t, err)
	assert.Equal(t, "Community Guidelines", page.Title)
	assert.Equal(t, "January 15, 2025", page.LastUpdated)
	assert.Contains(t, page.Content, "Be kind")

	page, err = svc.Page("legal/terms")
	require.NoError(t, err)
	assert.Equal(t, "Terms", page.Title)

	page, err = svc.Page("/legal/privacy-faq/")
	require.NoError(t, err)
	assert.Equal(t, "Privacy Faq", page.Title)
	assert.Equal(t, "February 1, 2025", page.LastUpdated)
}

func TestContentPageNotFound(t *testing.T) {
	svc := NewContentService(contentFS(), false)

	for _, slug := range []string{"", "missing", "../etc/passwd", "legal/../../secret"} {
		_, err := svc.Page(slug)
		assert.ErrorIs(t, err, ErrPageNotFound, slug)
	}
}

func TestContentPageCache(t *testing.T) {
	fsys := contentFS()
	cached := NewContentService(fsys, false)
	live := NewContentService(fsys, true)

	_, err := cached.Page("legal/terms")
	require.NoError(t, err)
	_, err = live.Page("legal/terms")
	require.NoError(t, err)

	fsys["legal/terms.md"] = &fstest.MapFile{Data: []byte("## Updated\n")}

	page, err := cached.Page("legal/terms")
	require.NoError(t, err)
	assert.Contains(t, page.Content, "Your account")

	page, err = live.Page("legal/terms")
	require.NoError(t, err)
	assert.Contains(t, page.Content, "Updated")
}

func TestRenderUserText(t *testing.T) {
	svc := NewContentService(contentFS(), false)

	assert.Empty(t, svc.RenderUserText("  "))

	out := svc.RenderUserText("Covers *graphs*<img src=x onerror=alert(1)>")
	assert.Contains(t, out, "<em>graphs</em>")
	assert.NotContains(t, out, "onerror")
}
