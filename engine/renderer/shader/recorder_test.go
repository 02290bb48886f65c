package shader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRecorderKeepsOrderAndTypes(t *testing.T) {
	r := NewRecorder()
	r.Use()
	r.SetBool("material.useColor", true)
	r.SetInt("numPointLights", 2)
	r.SetFloat("pointLights[0].linear", 0.09)
	r.SetVec3("material.color", mgl32.Vec3{1, 0, 0})
	r.SetMat4("model", mgl32.Ident4())
	r.SetBool("material.useColor", false)

	assert.Equal(t, 1, r.Uses())
	assert.Len(t, r.Writes(), 6)
	assert.Equal(t, "material.useColor", r.Writes()[0].Name)

	v, ok := r.Value("material.useColor")
	assert.True(t, ok)
	assert.Equal(t, false, v)
	assert.Equal(t, []any{true, false}, r.Values("material.useColor"))
	assert.Equal(t, 2, r.Count("material.useColor"))

	v, _ = r.Value("numPointLights")
	assert.Equal(t, int32(2), v)

	_, ok = r.Value("view")
	assert.False(t, ok)
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder()
	r.Use()
	r.SetInt("x", 1)
	r.Reset()

	assert.Empty(t, r.Writes())
	assert.Zero(t, r.Uses())
	_, ok := r.Value("x")
	assert.False(t, ok)
}
