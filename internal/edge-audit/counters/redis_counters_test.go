package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "audit:subgraph:timeout", SubgraphKey("timeout"))
	assert.Equal(t, "audit:geo:blocked:US", GeoBlockedKey("us"))
}
