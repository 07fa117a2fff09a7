package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicID(t *testing.T) {
	assert.Equal(t, "Січень_2025.xlsx", PublicID("uploads/Січень 2025.xlsx"))
	assert.Equal(t, "a_b.xls", PublicID(`C:\tmp\a#b.xls`))
}

func TestNewCloudinaryArchiver(t *testing.T) {
	a, err := NewCloudinaryArchiver("demo", "key", "secret", "viyar/rosters", nil)
	require.NoError(t, err)
	assert.Equal(t, "viyar/rosters", a.folder)
}
