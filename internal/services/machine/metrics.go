package machine

import (
	"time"

	"github.com/google/uuid"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordCoinDeposited(int64)                     {}
func (n *NoopMetricsCollector) RecordUnitsSold(uuid.UUID, int64, int64)       {}
