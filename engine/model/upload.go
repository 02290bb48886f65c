package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// FromData uploads decoded model data and assembles a Model holding one reference for the caller.
// Each distinct texture is uploaded once and shared by every mesh that binds it. Textures the
// loader left undecoded are decoded here. On failure everything uploaded so far is released.
//
// FromData must run on the thread that owns the renderer's context.
//
// Parameters:
//   - r: the renderer to upload on
//   - data: the decoded model
//
// Returns:
//   - Model: the uploaded model
//   - error: error if a texture cannot be decoded or a mesh cannot be uploaded
func FromData(r renderer.Renderer, data *loader.ModelData) (Model, error) {
	if data == nil || len(data.Meshes) == 0 {
		return nil, ErrNoMeshes
	}

	uploaded := make(map[*common.ImportedTexture]common.Texture)
	var owned []common.Texture
	var meshes []Mesh
	cleanup := func() {
		for _, m := range meshes {
			m.Release()
		}
		for _, t := range owned {
			r.ReleaseTexture(t.ID)
		}
	}

	for _, src := range data.UniqueTextures() {
		pixels, w, h := src.Pixels, uint32(src.Width), uint32(src.Height)
		if !src.Decoded() {
			var err error
			if pixels, w, h, err = src.Decode(); err != nil {
				cleanup()
				return nil, fmt.Errorf("texture %s: %w", src.Path, err)
			}
		}
		id, err := r.UploadTexture(pixels, w, h)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("texture %s: %w", src.Path, err)
		}
		tex := common.Texture{ID: id, Type: src.Type, Path: src.Path}
		uploaded[src] = tex
		owned = append(owned, tex)
	}

	for _, md := range data.Meshes {
		textures := make([]common.Texture, 0, len(md.Textures))
		for _, t := range md.Textures {
			textures = append(textures, uploaded[t])
		}
		m, err := NewMesh(r, md.Vertices, md.Indices, WithMeshName(md.Name), WithTextures(textures...))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("mesh %s: %w", md.Name, err)
		}
		meshes = append(meshes, m)
	}

	return NewModel(r,
		WithName(common.Coalesce(data.Name, data.Path)),
		WithPath(data.Path),
		WithMeshes(meshes...),
		WithOwnedTextures(owned...),
	)
}
