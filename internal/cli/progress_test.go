package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewImportProgress(&out)

	p.Update(0, 0)
	assert.Nil(t, p.bar, "no bar without a total")

	p.Update(5, 10)
	p.Update(10, 10)
	p.Finish()

	assert.NotNil(t, p.bar)
	assert.Contains(t, out.String(), "Importing stats")
}

func TestImportProgress_FinishWithoutUpdates(t *testing.T) {
	p := NewImportProgress(&bytes.Buffer{})
	assert.NotPanics(t, p.Finish)
}
