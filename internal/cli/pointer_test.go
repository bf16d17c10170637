package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/testutil"
)

func TestResolvePointer(t *testing.T) {
	tr := outline.Build(testutil.Scene(), outline.DefaultView())
	sphere, err := findRow(tr, "ob-sphere")
	require.NoError(t, err)
	r := tr.Node(sphere).Rect

	tests := []struct {
		in   string
		want outline.InsertType
	}{
		{in: "ob-sphere", want: outline.InsertInto},
		{in: "ob-sphere@into", want: outline.InsertInto},
		{in: "ob-sphere@before", want: outline.InsertBefore},
		{in: "object:::ob-sphere@AFTER", want: outline.InsertAfter},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := resolvePointer(tr, tt.in)
			require.NoError(t, err)
			assert.True(t, p.Y >= r.Top && p.Y < r.Bottom, "y %g outside row [%g,%g)", p.Y, r.Top, r.Bottom)

			id, insert, ok := tr.FindInsertionPoint(p)
			require.True(t, ok)
			assert.Equal(t, sphere, id)
			assert.True(t, tr.InNameColumn(id, p.X))
			assert.Equal(t, tt.want, insert)
		})
	}
}

func TestResolvePointer_Coordinates(t *testing.T) {
	tr := outline.Build(testutil.Scene(), outline.DefaultView())
	p, err := resolvePointer(tr, " 12.5 , 40 ")
	require.NoError(t, err)
	assert.Equal(t, outline.Point{X: 12.5, Y: 40}, p)
}

func TestResolvePointer_Errors(t *testing.T) {
	tr := outline.Build(testutil.Scene(), outline.DefaultView())

	_, err := resolvePointer(tr, "ob-cube@sideways")
	assert.ErrorContains(t, err, "invalid pointer band")

	_, err = resolvePointer(tr, "ob-nope")
	var nf notFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = resolvePointer(tr, "object:::ob-nope")
	assert.ErrorAs(t, err, &nf)

	_, err = resolvePointer(tr, "")
	assert.Error(t, err)
}
