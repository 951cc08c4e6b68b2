package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/encode"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestSpectrumPNG(t *testing.T) {
	spec := encode.WeightSpectrum(analysis.WeightSpectrum{
		{Head: 0, SingularValues: []float64{12, 6, 3, 1}},
		{Head: 1, SingularValues: []float64{8, 0}},
	})

	var buf bytes.Buffer
	require.NoError(t, SpectrumPNG(&buf, "weights", spec))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestSpectrumPNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := SpectrumPNG(&buf, "empty", encode.EigenSpectrum(nil))
	assert.ErrorIs(t, err, ErrNothingToPlot)
	assert.Zero(t, buf.Len())
}

func TestWriteSpectrum(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	spec := encode.EigenSpectrum(analysis.EigenSpectrum{{Head: 0, Eigenvalues: []float64{2}}})
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	path, err := WriteSpectrum(dir, "eigenvalues", spec, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "eigenvalues_20261015_093000.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}
