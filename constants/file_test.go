package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "pdf", NormalizeExt("pdf"))
	assert.Equal(t, "docx", NormalizeExt(".docx"))
}

func TestIsAllowedFilename(t *testing.T) {
	assert.True(t, IsAllowedFilename("letter.pdf"))
	assert.True(t, IsAllowedFilename("Scan 2024.PDF"))
	assert.True(t, IsAllowedFilename("archive.tar.pdf"))

	assert.False(t, IsAllowedFilename("letter.docx"))
	assert.False(t, IsAllowedFilename("letter"))
	assert.False(t, IsAllowedFilename(""))
	assert.False(t, IsAllowedFilename("pdf"))
}

func TestColumnsShape(t *testing.T) {
	assert.Len(t, Columns, 10)
	assert.Equal(t, "First name", Columns[0])
	assert.Equal(t, "Raw text", Columns[9])
}
