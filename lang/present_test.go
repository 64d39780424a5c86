package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresentCanonicalForm(t *testing.T) {
	reg := testRegistry(t)
	tag := mustParse(t, reg, "zh-Hans-CN")
	out := reg.Present(tag, 0, "")
	assert.Contains(t, out, "Chinese")
	assert.Contains(t, out, "Script=")
	assert.Contains(t, out, "Region=")
}

func TestPresentTemplate(t *testing.T) {
	reg := testRegistry(t)
	tag := mustParse(t, reg, "en-US")
	out := reg.Present(tag, 0, "{{lang}} ({{region}})")
	assert.Equal(t, "English (United States)", out)
}
