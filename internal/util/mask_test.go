package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", MaskToken(""))
	assert.Equal(t, "***", MaskToken("abc"))

	tok := "eyJhbGciOiJSUzI1NiIsImtpZCI6ImtpZC0xIn0.payload.signature"
	masked := MaskToken(tok)
	assert.True(t, strings.HasPrefix(masked, tok[:8]))
	assert.NotContains(t, masked, "signature")
	assert.Less(t, len(masked), 16)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j…@e….com", MaskEmail("john@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "", MaskEmail(""))
}
