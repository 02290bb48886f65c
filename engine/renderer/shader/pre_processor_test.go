package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInjectsDefinesAfterVersion(t *testing.T) {
	pp := NewPreProcessor()
	pp.Define("MAX_LIGHT_COUNT", 16)
	pp.Define("A_FLAG", 1)

	out, err := pp.Process("#version 410 core\nvoid main() {}")
	require.NoError(t, err)
	assert.Equal(t, "#version 410 core\n#define A_FLAG 1\n#define MAX_LIGHT_COUNT 16\nvoid main() {}", out)
}

func TestProcessDefinesWithoutVersion(t *testing.T) {
	pp := NewPreProcessor()
	pp.Define("N", 3)

	out, err := pp.Process("void main() {}")
	require.NoError(t, err)
	assert.Equal(t, "#define N 3\nvoid main() {}", out)
}

func TestProcessInclude(t *testing.T) {
	pp := NewPreProcessor()
	pp.Include("material", "struct Material { bool useColor; };")

	out, err := pp.Process("#version 410 core\n  // @oxy:include material\nvoid main() {}")
	require.NoError(t, err)
	assert.Equal(t, "#version 410 core\nstruct Material { bool useColor; };\nvoid main() {}", out)
	assert.Equal(t, []string{"material"}, pp.Includes())
}

func TestProcessLeavesOrdinaryCommentsAlone(t *testing.T) {
	pp := NewPreProcessor()
	src := "// just a comment\nvoid main() {}"

	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Empty(t, pp.Includes())
}

func TestProcessErrors(t *testing.T) {
	pp := NewPreProcessor()

	_, err := pp.Process("// @oxy:include missing")
	assert.ErrorContains(t, err, "unknown @oxy:include argument")

	_, err = pp.Process("// @oxy:include")
	assert.ErrorContains(t, err, "exactly one argument")

	_, err = pp.Process("// @oxy:frobnicate x")
	assert.ErrorContains(t, err, "unknown annotation type")
}
