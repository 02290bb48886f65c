package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCompile is wrapped by every error caused by the driver rejecting shader source.
var ErrCompile = errors.New("shader: compile failed")

// Shader defines the interface for a program that accepts named uniform writes.
//
// Names follow GLSL addressing, including indexed struct members such as "pointLights[2].quadratic".
// Writes to a name the program does not declare are dropped, matching glUniform* behavior for
// location -1.
//
// Writes affect the program that is current; callers call Use before writing.
type Shader interface {
	// Use makes this program current.
	Use()

	// SetBool writes a bool uniform as an integer 0 or 1.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to write
	SetBool(name string, value bool)

	// SetInt writes an int or sampler uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to write
	SetInt(name string, value int32)

	// SetFloat writes a float uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to write
	SetFloat(name string, value float32)

	// SetVec3 writes a vec3 uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to write
	SetVec3(name string, value mgl32.Vec3)

	// SetMat4 writes a column-major mat4 uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to write
	SetMat4(name string, value mgl32.Mat4)

	// Delete frees the program. The shader must not be used afterwards.
	Delete()
}

// glShader is a linked OpenGL program with a uniform location cache.
type glShader struct {
	program   uint32
	locations map[string]int32
	logger    *slog.Logger
	pp        PreProcessor
}

var _ Shader = &glShader{}

// NewShader compiles and links a program from vertex and fragment GLSL source. Both sources are run
// through the configured PreProcessor first. A current OpenGL context is required.
//
// Parameters:
//   - vertexSource: the vertex stage source
//   - fragmentSource: the fragment stage source
//   - options: functional options for the shader
//
// Returns:
//   - Shader: the linked program
//   - error: an error wrapping ErrCompile if either stage or the link fails
func NewShader(vertexSource, fragmentSource string, options ...ShaderBuilderOption) (Shader, error) {
	s := &glShader{
		locations: make(map[string]int32),
		logger:    slog.Default(),
		pp:        NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	vsrc, err := s.pp.Process(vertexSource)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess vertex shader: %w", err)
	}
	fsrc, err := s.pp.Process(fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess fragment shader: %w", err)
	}

	vs, err := compileStage(vsrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(fsrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(info))
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%w: link: %s", ErrCompile, strings.TrimRight(info, "\x00"))
	}

	s.program = program
	return s, nil
}

// NewShaderFromFiles reads vertex and fragment sources from disk and calls NewShader.
//
// Parameters:
//   - vertexPath: path to the vertex stage source
//   - fragmentPath: path to the fragment stage source
//   - options: functional options for the shader
//
// Returns:
//   - Shader: the linked program
//   - error: an error if either file cannot be read or compilation fails
func NewShaderFromFiles(vertexPath, fragmentPath string, options ...ShaderBuilderOption) (Shader, error) {
	vsrc, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertex shader %s: %w", vertexPath, err)
	}
	fsrc, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment shader %s: %w", fragmentPath, err)
	}
	return NewShader(string(vsrc), string(fsrc), options...)
}

func compileStage(source string, stage uint32) (uint32, error) {
	sh := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(info))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%w: %s", ErrCompile, strings.TrimRight(info, "\x00"))
	}
	return sh, nil
}

func (s *glShader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	if loc < 0 {
		s.logger.Debug("uniform not active in program", "program", s.program, "name", name)
	}
	s.locations[name] = loc
	return loc
}

func (s *glShader) Use() {
	gl.UseProgram(s.program)
}

func (s *glShader) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	gl.Uniform1i(s.location(name), v)
}

func (s *glShader) SetInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

func (s *glShader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

func (s *glShader) SetVec3(name string, value mgl32.Vec3) {
	gl.Uniform3f(s.location(name), value[0], value[1], value[2])
}

func (s *glShader) SetMat4(name string, value mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &value[0])
}

func (s *glShader) Delete() {
	if s.program == 0 {
		return
	}
	gl.DeleteProgram(s.program)
	s.program = 0
	clear(s.locations)
}
