package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDeref(t *testing.T) {
	t.Parallel()

	p := To("dashboard.ndjson")
	assert.Equal(t, "dashboard.ndjson", *p)
	assert.Equal(t, "dashboard.ndjson", Deref(p))

	var missing *string
	assert.Equal(t, "", Deref(missing))
}
