package loader

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser   gltfParser
	source   string
	textures textureSet
}

// gltfMaterialExtractor resolves the textures a glTF material binds. The base color texture maps to
// texture_diffuse and the KHR_materials_specular texture maps to texture_specular. Every other PBR
// slot is ignored by the Phong shading model.
type gltfMaterialExtractor interface {
	// MaterialTextures returns the textures of a material in binding order, diffuse first.
	// Materials that reference the same image share one *common.ImportedTexture.
	//
	// Parameters:
	//   - materialIndex: the index of the material, or -1 for the default material
	//
	// Returns:
	//   - []*common.ImportedTexture: the textures, empty for untextured materials
	//   - error: error if a texture or image reference is invalid
	MaterialTextures(materialIndex int) ([]*common.ImportedTexture, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a material extractor. source names embedded images in their
// synthetic paths, for example "scene.glb#image0".
func newGLTFMaterialExtractor(parser gltfParser, source string) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{
		parser:   parser,
		source:   source,
		textures: make(textureSet),
	}
}

func (e *gltfMaterialExtractorImpl) MaterialTextures(materialIndex int) ([]*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 {
		return nil, nil
	}
	if materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}
	mat := &doc.Materials[materialIndex]

	var out []*common.ImportedTexture
	if pbr := mat.PbrMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		t, err := e.texture(pbr.BaseColorTexture.Index, common.TextureTypeDiffuse)
		if err != nil {
			return nil, fmt.Errorf("material %d base color: %w", materialIndex, err)
		}
		if t != nil {
			out = append(out, t)
		}
	}

	if raw, ok := mat.Extensions[gltfExtSpecular]; ok {
		var ext gltfSpecularExtension
		if err := json.Unmarshal(raw, &ext); err != nil {
			return nil, fmt.Errorf("material %d: invalid %s: %w", materialIndex, gltfExtSpecular, err)
		}
		info := ext.SpecularColorTexture
		if info == nil {
			info = ext.SpecularTexture
		}
		if info != nil {
			t, err := e.texture(info.Index, common.TextureTypeSpecular)
			if err != nil {
				return nil, fmt.Errorf("material %d specular: %w", materialIndex, err)
			}
			if t != nil {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// texture resolves a texture index to an ImportedTexture, deduplicated by type and image.
// A texture without a source image yields nil.
func (e *gltfMaterialExtractorImpl) texture(textureIndex int, kind common.TextureType) (*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := &doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}

	imageIndex := *tex.Source
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imageIndex)
	}
	img := &doc.Images[imageIndex]

	var err error
	t := e.textures.get(fmt.Sprintf("%s|%d", kind, imageIndex), func() *common.ImportedTexture {
		result := &common.ImportedTexture{Type: kind, MimeType: img.MimeType}
		switch {
		case img.BufferView != nil:
			result.Path = fmt.Sprintf("%s#image%d", e.source, imageIndex)
			result.Data, err = e.parser.BufferViewBytes(*img.BufferView)
		case strings.HasPrefix(img.URI, "data:"):
			var mimeType string
			result.Path = fmt.Sprintf("%s#image%d", e.source, imageIndex)
			result.Data, mimeType, err = decodeDataURI(img.URI)
			if result.MimeType == "" {
				result.MimeType = mimeType
			}
		case img.URI != "":
			name, unescapeErr := url.PathUnescape(img.URI)
			if unescapeErr != nil {
				name = img.URI
			}
			result.Path = filepath.Join(e.parser.BaseDir(), filepath.FromSlash(name))
		default:
			err = fmt.Errorf("image %d has neither uri nor bufferView", imageIndex)
		}
		return result
	})
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", imageIndex, err)
	}
	return t, nil
}
