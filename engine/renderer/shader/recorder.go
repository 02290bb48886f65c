package shader

import "github.com/go-gl/mathgl/mgl32"

// UniformWrite is one call recorded by a Recorder.
type UniformWrite struct {
	Name  string
	Value any
}

// Recorder is a Shader that keeps every uniform write in call order instead of sending it to a GPU.
// Values are stored with their Go types: bool, int32, float32, mgl32.Vec3 and mgl32.Mat4.
//
// Recorder is used for headless rendering and in tests.
type Recorder struct {
	writes []UniformWrite
	last   map[string]any
	uses   int
}

var _ Shader = &Recorder{}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{last: make(map[string]any)}
}

func (r *Recorder) record(name string, value any) {
	r.writes = append(r.writes, UniformWrite{Name: name, Value: value})
	r.last[name] = value
}

func (r *Recorder) Use() {
	r.uses++
}

func (r *Recorder) SetBool(name string, value bool) {
	r.record(name, value)
}

func (r *Recorder) SetInt(name string, value int32) {
	r.record(name, value)
}

func (r *Recorder) SetFloat(name string, value float32) {
	r.record(name, value)
}

func (r *Recorder) SetVec3(name string, value mgl32.Vec3) {
	r.record(name, value)
}

func (r *Recorder) SetMat4(name string, value mgl32.Mat4) {
	r.record(name, value)
}

func (r *Recorder) Delete() {}

// Writes returns a copy of every write since creation or the last Reset.
func (r *Recorder) Writes() []UniformWrite {
	return append([]UniformWrite(nil), r.writes...)
}

// Value returns the most recent value written to name.
func (r *Recorder) Value(name string) (any, bool) {
	v, ok := r.last[name]
	return v, ok
}

// Values returns every value written to name, in order.
func (r *Recorder) Values(name string) []any {
	var out []any
	for _, w := range r.writes {
		if w.Name == name {
			out = append(out, w.Value)
		}
	}
	return out
}

// Count returns how many times name was written.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, w := range r.writes {
		if w.Name == name {
			n++
		}
	}
	return n
}

// Uses returns how many times Use was called.
func (r *Recorder) Uses() int {
	return r.uses
}

// Reset forgets all recorded writes.
func (r *Recorder) Reset() {
	r.writes = r.writes[:0]
	clear(r.last)
	r.uses = 0
}
