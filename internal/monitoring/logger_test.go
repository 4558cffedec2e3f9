package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var captured string
	SetLogger(func(format string, v ...interface{}) {
		captured = fmt.Sprintf(format, v...)
	})
	Logf("sample %d rejected", 42)
	assert.Equal(t, "sample 42 rejected", captured)

	// nil installs a no-op logger rather than panicking
	SetLogger(nil)
	Logf("discarded")
}
