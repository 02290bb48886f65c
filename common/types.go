// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/go-gl/mathgl/mgl32"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureType is the semantic tag of a texture. Its string form is the uniform
// name stem the shader declares inside its material struct.
type TextureType string

const (
	// TextureTypeDiffuse marks an albedo texture, bound as material.texture_diffuseN.
	TextureTypeDiffuse TextureType = "texture_diffuse"

	// TextureTypeSpecular marks a specular map, bound as material.texture_specularN.
	TextureTypeSpecular TextureType = "texture_specular"
)

// Vertex is the fixed vertex layout shared by every mesh: position, normal, and a 2D texture coordinate.
// The layout is tightly packed (8 float32 values, 32 bytes) and matches the attribute locations 0, 1, 2
// the renderer configures.
type Vertex struct {
	// Position is the object-space position of the vertex.
	Position mgl32.Vec3
	// Normal is the object-space surface normal.
	Normal mgl32.Vec3
	// TexCoords is the UV coordinate used for texture sampling.
	TexCoords mgl32.Vec2
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 8 * 4

// Texture is a GPU texture reference attached to a mesh.
type Texture struct {
	// ID is the GPU texture handle returned by the renderer device.
	ID uint32
	// Type is the semantic tag used to name the sampler uniform.
	Type TextureType
	// Path is the source file of the texture, empty for generated textures.
	Path string
}

// ImportedTexture represents texture data extracted from a model file.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Type is the semantic tag the texture will be bound as.
	Type TextureType

	// Path is the file path for external textures, or a synthetic key for embedded ones.
	Path string

	// Data contains raw image bytes for embedded textures.
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// Pixels holds the decoded, vertically flipped RGBA data (populated after Decode).
	Pixels []byte
}

// Decoded reports whether Decode has already produced pixel data.
func (t *ImportedTexture) Decoded() bool {
	return t != nil && len(t.Pixels) > 0
}

// Decode decodes the texture to raw RGBA pixel data, flipped vertically so row zero is the bottom
// of the image as OpenGL expects.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG, JPEG, BMP, TIFF and WebP.
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: texture width in pixels
//   - uint32: texture height in pixels
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return nil, 0, 0, fmt.Errorf("texture has neither data nor path")
	}

	// FlipV returns a fresh RGBA whose bounds start at the origin.
	rgba := transform.FlipV(img)
	t.Width = rgba.Bounds().Dx()
	t.Height = rgba.Bounds().Dy()
	t.Pixels = rgba.Pix

	return rgba.Pix, uint32(t.Width), uint32(t.Height), nil
}
