package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CartStore/internal/catalog"
	"CartStore/internal/shop"
)

const catalogYAML = `items:
  - name: Tea
    price: 300
    hashtags: [hot, drink]
  - name: Coffee
    price: "400"
    hashtags: [hot, drink]
  - name: Iced Tea
    price: 350.9
    hashtags: [cold, drink]
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestItemsCmd(t *testing.T) {
	p := writeCatalog(t, catalogYAML)

	out, err := runRoot(t, "", "items", "--catalog", p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Tea"))
	assert.Contains(t, lines[0], "#hot #drink")
	assert.Contains(t, lines[1], "400")
	assert.Contains(t, lines[2], "350")
}

func TestItemsCmd_DuplicateAcrossFiles(t *testing.T) {
	a := writeCatalog(t, catalogYAML)
	b := writeCatalog(t, "items:\n  - name: Tea\n    price: 1\n")

	_, err := runRoot(t, "", "items", "--catalog", a, "--catalog", b)
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)
}

func TestItemsCmd_NoCatalog(t *testing.T) {
	_, err := runRoot(t, "", "items")
	assert.Error(t, err)
}

func TestShellCmd(t *testing.T) {
	p := writeCatalog(t, catalogYAML)

	in := strings.Join([]string{
		"add Tea",
		"add Coffee",
		"add Coffee",
		"search Tea",
		"checkout",
		"remove Tea",
		"cart",
		"frobnicate",
		"quit",
		"add Iced",
	}, "\n")

	out, err := runRoot(t, in, "shell", "--catalog", p)
	require.NoError(t, err)

	assert.Contains(t, out, "too many matches: Tea, Iced Tea")
	assert.Contains(t, out, "added Coffee")
	assert.Contains(t, out, "already in cart")
	assert.Contains(t, out, "subtotal 400")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, `unknown command "frobnicate"`)
	assert.NotContains(t, out, "added Iced Tea")
}

func TestRunShell_EOF(t *testing.T) {
	st := shop.New([]catalog.Item{
		catalog.NewItem("Scone", 250, []string{"bakery"}, ""),
	})

	var out bytes.Buffer
	err := runShell(context.Background(), st, strings.NewReader("add Sco\ncart\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "added Scone")
	assert.Equal(t, int64(250), st.Checkout())
}

func TestRunShell_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runShell(ctx, shop.New(nil), strings.NewReader("items\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescribe(t *testing.T) {
	cases := map[string]error{
		"not found":              catalog.NewLookupError("add", "x", catalog.ErrNotFound),
		"already in cart":        catalog.NewLookupError("add", "x", catalog.ErrAlreadyExists, "x"),
		"too many matches: a, b": catalog.NewLookupError("add", "", catalog.ErrTooManyMatches, "a", "b"),
	}
	for want, err := range cases {
		assert.Equal(t, want, describe(err))
	}
}
