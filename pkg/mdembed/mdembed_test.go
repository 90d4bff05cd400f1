package mdembed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/mdembed"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

const readme = "# Title\n\n" +
	"Some text.\n\n" +
	"```typ\n#f(a,b)\n```\n\n" +
	"```go\nfunc  main() {}\n```\n\n" +
	"```typst\n#let x=1\n```\n"

func TestBlocks(t *testing.T) {
	t.Parallel()

	blocks := mdembed.Blocks([]byte(readme))
	require.Len(t, blocks, 2)

	assert.Equal(t, "typ", blocks[0].Language)
	assert.Equal(t, 6, blocks[0].Line)
	assert.Equal(t, "#f(a,b)\n", readme[blocks[0].Start:blocks[0].End])

	assert.Equal(t, "typst", blocks[1].Language)
	assert.Equal(t, "#let x=1\n", readme[blocks[1].Start:blocks[1].End])
}

func TestFormat(t *testing.T) {
	t.Parallel()

	res, err := mdembed.Format(context.Background(), []byte(readme), typstyle.New(typstyle.DefaultOptions()))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Blocks)
	assert.Equal(t, 2, res.Changed)
	assert.Empty(t, res.Errors)
	assert.Contains(t, string(res.Content), "```typ\n#f(a, b)\n```")
	assert.Contains(t, string(res.Content), "```typst\n#let x = 1\n```")
	assert.Contains(t, string(res.Content), "func  main() {}", "other languages stay untouched")
}

func TestFormatUnchanged(t *testing.T) {
	t.Parallel()

	src := []byte("```typ\n#f(a, b)\n```\n")
	res, err := mdembed.Format(context.Background(), src, typstyle.New(typstyle.DefaultOptions()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Blocks)
	assert.Zero(t, res.Changed)
	assert.Equal(t, string(src), string(res.Content))
}

func TestFormatReportsBrokenBlocks(t *testing.T) {
	t.Parallel()

	src := []byte("intro\n\n```typ\n#\"unclosed\n```\n\n```typ\n#f(a,b)\n```\n")
	res, err := mdembed.Format(context.Background(), src, typstyle.New(typstyle.DefaultOptions()))
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	var blockErr *mdembed.BlockError
	require.True(t, errors.As(res.Errors[0], &blockErr))
	assert.Equal(t, 4, blockErr.Line)
	assert.True(t, errors.Is(res.Errors[0], typstyle.ErrSyntax))

	assert.Contains(t, string(res.Content), "#\"unclosed\n")
	assert.Contains(t, string(res.Content), "#f(a, b)\n")
}

func TestFormatCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mdembed.Format(ctx, []byte(readme), typstyle.New(typstyle.DefaultOptions()))
	require.ErrorIs(t, err, context.Canceled)
}
