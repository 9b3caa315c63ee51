package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不应panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	require.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, OrdersCreatedTotal)
	assert.NotNil(t, CircuitBreakerState)
}

// TestCounters 指标可正常记录
func TestCounters(t *testing.T) {
	InitMetrics()

	require.NotPanics(t, func() {
		OrdersCreatedTotal.Inc()
		OrdersCancelledTotal.Inc()
		OrdersCompletedTotal.Inc()
		OrderCreationDuration.Observe(0.042)
		HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/orders", "200").Inc()
		CircuitBreakerState.WithLabelValues("redis-blacklist").Set(0)
	})
}
