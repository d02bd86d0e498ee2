package backup

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/locofilter/errors"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    Variant
		cause   error
	}{
		{"full v1", []string{"TimelineItem", "LocomotionSample", "Place"}, V1, nil},
		{"v1 items only", []string{"TimelineItem"}, V1, nil},
		{"full v2", []string{"items", "samples", "places"}, V2, nil},
		{"v1 mandatory wins over v2 markers", []string{"TimelineItem", "items", "samples"}, V1, nil},
		{"v2 mandatory with stray v1 marker", []string{"items", "LocomotionSample"}, V2, nil},
		{"both partial", []string{"LocomotionSample", "places"}, 0, errors.ErrAmbiguousFormat},
		{"v1 partial only", []string{"LocomotionSample", "Place"}, 0, errors.ErrUnrecognizedFormat},
		{"v2 partial only", []string{"samples"}, 0, errors.ErrUnrecognizedFormat},
		{"nothing", []string{"Documents", ".DS_Store"}, 0, errors.ErrUnrecognizedFormat},
		{"empty", nil, 0, errors.ErrUnrecognizedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.entries)
			if tt.cause == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.cause), "got %v", err)
			assert.True(t, errors.IsConfigurationError(err))
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestDetectRootIgnoresFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/backup/items", 0755))
	// A plain file named like a v1 marker must not count
	require.NoError(t, afero.WriteFile(fs, "/backup/TimelineItem", []byte("x"), 0644))

	got, err := DetectRoot(fs, "/backup")
	require.NoError(t, err)
	assert.Equal(t, V2, got)
}

func TestDetectRootMissing(t *testing.T) {
	_, err := DetectRoot(afero.NewMemMapFs(), "/nope")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "v1", V1.String())
	assert.Equal(t, "v2", V2.String())
	assert.Equal(t, "unknown", Variant(0).String())
}
