package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ prometheus.Collector = (*PoolStatsCollector)(nil)

func TestPoolStatsCollector_DescribesAllMetrics(t *testing.T) {
	c := NewPoolStatsCollector(nil, "snowgate")
	require.NotNil(t, c)

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	var descs []string
	for d := range ch {
		descs = append(descs, d.String())
	}
	require.Len(t, descs, 8)

	joined := strings.Join(descs, "\n")
	for _, name := range []string{
		"db_pool_acquired_connections",
		"db_pool_idle_connections",
		"db_pool_total_connections",
		"db_pool_max_connections",
		"db_pool_acquire_count_total",
		"db_pool_acquire_duration_seconds_total",
		"db_pool_empty_acquire_count_total",
		"db_pool_new_connections_total",
	} {
		assert.Contains(t, joined, name)
	}
}
