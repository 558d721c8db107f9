package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://static.example.com/"

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	return full
}

func newTestScanner(root string) *Scanner {
	return New(Options{
		Root:        root,
		BaseURL:     testBase,
		Extensions:  []string{"ts", "vue", "md", "json", "css", "html"},
		ExcludeDirs: []string{"node_modules", "dist", ".git"},
		Logger:      zerolog.Nop(),
	})
}

func TestMatcher_Extract(t *testing.T) {
	m := NewMatcher(testBase)
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"none", "no references here", nil},
		{"one", `<img src="https://static.example.com/2025/img-a.webp">`, []string{"2025/img-a.webp"}},
		{"many on one line",
			`a https://static.example.com/x.png b 'https://static.example.com/y.png' ` + "`https://static.example.com/z.png`",
			[]string{"x.png", "y.png", "z.png"}},
		{"multiline",
			"first https://static.example.com/a/1.jpg\nsecond\n\thttps://static.example.com/a/2.jpg\r\n",
			[]string{"a/1.jpg", "a/2.jpg"}},
		{"duplicates kept", "https://static.example.com/d.png https://static.example.com/d.png", []string{"d.png", "d.png"}},
		{"markdown link", "![alt](https://static.example.com/posts/c.webp)", []string{"posts/c.webp"}},
		{"css url", "background: url(https://static.example.com/bg.png);", []string{"bg.png"}},
		{"html lt", "https://static.example.com/t.svg<br>", []string{"t.svg"}},
		{"other host ignored", "https://static.example.org/a.png https://cdn.example.com/b.png", nil},
		{"dot is literal", "https://staticXexample.com/a.png", nil},
		{"bare base ignored", "see https://static.example.com/ for more", nil},
		{"query kept verbatim", "https://static.example.com/a.png?v=2", []string{"a.png?v=2"}},
		{"no normalization", "https://static.example.com/My%20File.PNG", []string{"My%20File.PNG"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Extract([]byte(tt.content)))
		})
	}
}

func TestMatcher_BaseURLAlwaysEndsInSlash(t *testing.T) {
	m := NewMatcher("https://static.example.com")
	assert.Equal(t, testBase, m.BaseURL())
	assert.Equal(t, "https://static.example.com/2025/a.webp", m.PublicURL("2025/a.webp"))
	assert.Equal(t, []string{"k.png"}, m.Extract([]byte("https://static.example.com/k.png")))
}

func TestScan_CollectsDistinctKeys(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/App.vue", `<img src="https://static.example.com/2025/img-a.webp"/>
<img src='https://static.example.com/2025/img-b.webp'/>`)
	writeFile(t, root, "posts/hello.md", "![a](https://static.example.com/2025/img-a.webp)\n")
	writeFile(t, root, "site.config.ts", "export const cover = `https://static.example.com/cover.jpg`")
	writeFile(t, root, "empty.json", "{}")

	res, err := newTestScanner(root).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.FilesScanned)
	assert.Equal(t, 0, res.FilesSkipped)
	assert.Equal(t, 4, res.References)
	assert.Equal(t, []string{"2025/img-a.webp", "2025/img-b.webp", "cover.jpg"}, res.Keys.Sorted())
}

func TestScan_SkipsExcludedDirsAndExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.ts", "https://static.example.com/nm.png")
	writeFile(t, root, "dist/index.html", "https://static.example.com/dist.png")
	writeFile(t, root, ".git/HEAD.md", "https://static.example.com/git.png")
	writeFile(t, root, "nested/node_modules/x.ts", "https://static.example.com/nested-nm.png")
	writeFile(t, root, "notes.txt", "https://static.example.com/txt.png")
	writeFile(t, root, "Makefile", "https://static.example.com/make.png")
	writeFile(t, root, "STYLE.CSS", "https://static.example.com/upper.png")
	writeFile(t, root, ".vitepress/config.ts", "https://static.example.com/hidden-dir.png")

	res, err := newTestScanner(root).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hidden-dir.png", "upper.png"}, res.Keys.Sorted())
	assert.Equal(t, 2, res.FilesScanned)
}

func TestScan_UnreadableFileIsSkipped(t *testing.T) {
	root := t.TempDir()
	good := writeFile(t, root, "good.md", "https://static.example.com/good.png")
	bad := writeFile(t, root, "bad.md", "https://static.example.com/bad.png")

	s := newTestScanner(root)
	s.readFile = func(path string) ([]byte, error) {
		if path == bad {
			return nil, errors.New("permission denied")
		}
		return os.ReadFile(path)
	}
	res, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.True(t, res.Keys.Has("good.png"), "keys from %s should be present", good)
	assert.False(t, res.Keys.Has("bad.png"))
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := newTestScanner(filepath.Join(t.TempDir(), "missing")).Scan(context.Background())
	assert.Error(t, err)
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	f := writeFile(t, root, "a.md", "")
	_, err := newTestScanner(f).Scan(context.Background())
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "https://static.example.com/a.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestScanner(root).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeySet(t *testing.T) {
	s := NewKeySet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("A"))
	assert.False(t, s.Has("a/"))
	assert.Equal(t, []string{"a", "b"}, s.Sorted())

	var zero KeySet
	assert.False(t, zero.Has("a"))
	assert.Equal(t, 0, zero.Len())
}
