package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(NewRunner(stubExtractor{}, &fakeFetcher{}, time.Millisecond))

	runners := r.Resolve([]string{"stub", "unknown", "stub"})
	require.Len(t, runners, 2)
	assert.Equal(t, "stub", runners[0].Name())

	assert.Empty(t, r.Resolve([]string{"unknown"}))
	assert.Empty(t, r.Resolve(nil))
	assert.Equal(t, []string{"stub"}, r.Names())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	first := NewRunner(stubExtractor{}, &fakeFetcher{}, time.Millisecond)
	r.Register(first)
	r.Register(NewRunner(stubExtractor{}, &fakeFetcher{}, time.Millisecond))

	assert.Equal(t, []string{"stub"}, r.Names())
	assert.Same(t, first, r.Resolve([]string{"stub"})[0])
}
