package main

import (
	"context"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInSceneApplies(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	s := scene.NewScene(r)
	defer s.Close()
	lm, err := light.NewLightManager(r)
	require.NoError(t, err)
	defer lm.Release()

	res, err := config.Apply(context.Background(), cfg, s, lm)
	require.NoError(t, err)
	assert.Equal(t, config.Result{Entities: 3, Lights: 4}, res)
	assert.Equal(t, []string{"box", "plane", "sphere"}, s.MeshKeys())
}

func TestShadersPreprocess(t *testing.T) {
	pp := shader.NewPreProcessor()
	pp.Define("MAX_LIGHT_COUNT", light.MaxLightCount)
	pp.Include("material", materialSource)

	for name, src := range map[string]string{"scene": sceneFragmentSource, "light": lightFragmentSource} {
		out, err := pp.Process(src)
		require.NoError(t, err, name)
		assert.Contains(t, out, "#define MAX_LIGHT_COUNT 16", name)
		assert.Contains(t, out, "uniform Material material;", name)
		assert.True(t, strings.HasPrefix(out, "#version 410 core"), name)
	}
}
