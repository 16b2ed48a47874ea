package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	assert.Equal(t, PassportFillDescription, GetToolDescription("passport_fill"))
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames(t *testing.T) {
	assert.Equal(t, []string{
		"passport_filename",
		"passport_fill",
		"passport_inspect",
		"passport_server_info",
		"passport_validate",
	}, GetAllToolNames())
}
