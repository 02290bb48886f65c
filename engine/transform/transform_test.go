package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestModelMatrixTranslatesOrigin(t *testing.T) {
	tr := New(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{1, 1, 1})
	got := tr.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{2, 0, 0, 1}, got)
}

func TestModelMatrixScalesBeforeTranslating(t *testing.T) {
	tr := New(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{2, 1, 1})
	got := tr.ModelMatrix().Mul4x1(mgl32.Vec4{0.5, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, 0, 0, 1}, got)
}

func TestIdentity(t *testing.T) {
	assert.True(t, Identity().ModelMatrix().ApproxEqual(mgl32.Ident4()))
}

func TestApply(t *testing.T) {
	tr := New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 3, 4})
	assert.Equal(t, mgl32.Vec3{3, 5, 7}, tr.Apply(mgl32.Vec3{1, 1, 1}))
}

func TestWithCopies(t *testing.T) {
	base := Identity()
	moved := base.WithPosition(mgl32.Vec3{5, 0, 0}).WithScale(mgl32.Vec3{2, 2, 2})

	assert.Equal(t, mgl32.Vec3{}, base.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, base.Scale)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, moved.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, moved.Scale)
}
