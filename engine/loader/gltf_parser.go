package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidDataURI     = errors.New("invalid data URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorBounds     = errors.New("accessor reads past the end of its buffer view")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser reads a glTF document and resolves its binary buffers. Accessor readers return
// tightly packed values regardless of the buffer view stride.
type gltfParser interface {
	// Parse reads a .gltf or .glb file from disk. GLB is detected by magic number.
	Parse(path string) error

	// ParseReader reads a .gltf or .glb stream. External URIs resolve against baseDir.
	ParseReader(r io.Reader, baseDir string) error

	// Document returns the parsed document, or nil before a successful parse.
	Document() *gltfDocument

	// BaseDir returns the directory external URIs resolve against.
	BaseDir() string

	// ReadFloats reads an accessor with the given component count as float32 values,
	// converting normalized integer components to [0, 1] or [-1, 1].
	ReadFloats(accessorIndex, components int) ([]float32, error)

	// ReadIndices reads a SCALAR unsigned accessor as uint32 indices.
	ReadIndices(accessorIndex int) ([]uint32, error)

	// BufferViewBytes returns the bytes of a buffer view, used for embedded images.
	BufferViewBytes(bufferViewIndex int) ([]byte, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) BaseDir() string {
	return p.baseDir
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p.baseDir = filepath.Dir(path)
	return p.parseBytes(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, baseDir string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	p.baseDir = baseDir
	return p.parseBytes(data)
}

func (p *gltfParserImpl) parseBytes(data []byte) error {
	jsonData := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == gltfGLBMagic {
		var err error
		if jsonData, p.glbBinaryChunk, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	if len(data) < gltfGLBHeaderSize {
		return nil, nil, errors.New("GLB file too small")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != gltfGLBMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if binary.LittleEndian.Uint32(data[4:8]) != gltfGLBVersion {
		return nil, nil, errInvalidGLBVersion
	}

	total := min(int(binary.LittleEndian.Uint32(data[8:12])), len(data))
	for off := gltfGLBHeaderSize; off+8 <= total; {
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		kind := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if length < 0 || off+length > total {
			return nil, nil, fmt.Errorf("GLB chunk of %d bytes overruns file", length)
		}
		switch kind {
		case gltfGLBChunkJSON:
			if jsonChunk == nil {
				jsonChunk = data[off : off+length]
			}
		case gltfGLBChunkBIN:
			if binChunk == nil {
				binChunk = data[off : off+length]
			}
		}
		off += length
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// loadBuffers resolves every buffer to bytes. A buffer without a URI is the GLB binary chunk,
// which only buffer 0 may use.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			data, err := p.readURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// readURI loads a data: URI or a file relative to the document.
func (p *gltfParserImpl) readURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		data, _, err := decodeDataURI(uri)
		return data, err
	}

	// URIs are percent-encoded; file names with spaces arrive as %20.
	name, err := url.PathUnescape(uri)
	if err != nil {
		name = uri
	}
	data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", uri, err)
	}
	return data, nil
}

// decodeDataURI decodes a base64 data URI and returns its payload and media type.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	mediaType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return nil, "", fmt.Errorf("%w: unsupported encoding %q", errInvalidDataURI, header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mediaType, nil
}

// accessorView bounds-checks an accessor and returns it with the bytes starting at its first
// element and the distance between elements.
func (p *gltfParserImpl) accessorView(index int) (*gltfAccessor, []byte, int, error) {
	doc := p.document
	if doc == nil {
		return nil, nil, 0, errors.New("no document loaded")
	}
	if index < 0 || index >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &doc.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, 0, fmt.Errorf("accessor %d: sparse accessors are not supported", index)
	}
	if acc.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d has no bufferView", index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, 0, fmt.Errorf("accessor %d: bufferView %d out of range", index, *acc.BufferView)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, 0, fmt.Errorf("bufferView %d: buffer %d out of range", *acc.BufferView, bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data

	elem := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elem == 0 {
		return nil, nil, 0, fmt.Errorf("accessor %d: unsupported layout %s/%d", index, acc.Type, acc.ComponentType)
	}
	stride := elem
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	start := bv.ByteOffset + acc.ByteOffset
	viewEnd := min(bv.ByteOffset+bv.ByteLength, len(buf))
	if start > viewEnd {
		return nil, nil, 0, fmt.Errorf("accessor %d: %w", index, errAccessorBounds)
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+elem > viewEnd {
		return nil, nil, 0, fmt.Errorf("accessor %d: %w", index, errAccessorBounds)
	}
	return acc, buf[start:viewEnd], stride, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex, components int) ([]float32, error) {
	acc, data, stride, err := p.accessorView(accessorIndex)
	if err != nil {
		return nil, err
	}
	if n := gltfAccessorTypeComponentCount(acc.Type); n != components {
		return nil, fmt.Errorf("accessor %d is %s, want %d components", accessorIndex, acc.Type, components)
	}

	size := gltfComponentTypeSize(acc.ComponentType)
	out := make([]float32, acc.Count*components)
	for i := 0; i < acc.Count; i++ {
		for c := 0; c < components; c++ {
			b := data[i*stride+c*size:]
			var v float32
			switch acc.ComponentType {
			case gltfComponentTypeFloat:
				v = math.Float32frombits(binary.LittleEndian.Uint32(b))
			case gltfComponentTypeUnsignedByte:
				v = float32(b[0])
				if acc.Normalized {
					v /= math.MaxUint8
				}
			case gltfComponentTypeUnsignedShort:
				v = float32(binary.LittleEndian.Uint16(b))
				if acc.Normalized {
					v /= math.MaxUint16
				}
			case gltfComponentTypeByte:
				v = float32(int8(b[0]))
				if acc.Normalized {
					v = max(v/math.MaxInt8, -1)
				}
			case gltfComponentTypeShort:
				v = float32(int16(binary.LittleEndian.Uint16(b)))
				if acc.Normalized {
					v = max(v/math.MaxInt16, -1)
				}
			default:
				return nil, fmt.Errorf("accessor %d: component type %d cannot be read as float", accessorIndex, acc.ComponentType)
			}
			out[i*components+c] = v
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, data, stride, err := p.accessorView(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch acc.ComponentType {
		case gltfComponentTypeUnsignedByte:
			out[i] = uint32(b[0])
		case gltfComponentTypeUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(b))
		case gltfComponentTypeUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(b)
		default:
			return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) BufferViewBytes(bufferViewIndex int) ([]byte, error) {
	doc := p.document
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if bufferViewIndex < 0 || bufferViewIndex >= len(doc.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", bufferViewIndex)
	}
	bv := &doc.BufferViews[bufferViewIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("bufferView %d: buffer %d out of range", bufferViewIndex, bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data
	if bv.ByteOffset+bv.ByteLength > len(buf) {
		return nil, fmt.Errorf("bufferView %d: %w", bufferViewIndex, errBufferSizeMismatch)
	}
	return buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	default:
		return 0
	}
}
