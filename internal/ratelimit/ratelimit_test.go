package ratelimit

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsBurstThenLimits(t *testing.T) {
	l := New(Config{QueriesPerSecond: 1, Burst: 2})
	ns := net.ParseIP("198.41.0.4")

	assert.True(t, l.Allow(ns), "first query should be allowed")
	assert.True(t, l.Allow(ns), "second query (within burst) should be allowed")
	assert.False(t, l.Allow(ns), "third immediate query should be rate limited")
}

func TestLimiter_IndependentPerServer(t *testing.T) {
	l := New(Config{QueriesPerSecond: 1, Burst: 1})

	a := net.ParseIP("198.41.0.4")
	b := net.ParseIP("199.9.14.201")

	assert.True(t, l.Allow(a), "first query to a should be allowed")
	assert.False(t, l.Allow(a), "second immediate query to a should be limited")
	assert.True(t, l.Allow(b), "a different nameserver must have its own budget")
}
