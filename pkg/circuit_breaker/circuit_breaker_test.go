package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/readstack/library-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	const (
		recordLength     = 10
		timeout          = 200 * time.Millisecond
		percentile       = 0.30
		recoveryRequests = 3
	)

	cb := circuit_breaker.NewCircuitBreaker(recordLength, timeout, percentile, recoveryRequests)

	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// push the failure share over the percentile: the breaker opens
	for i := 0; i < recordLength; i++ {
		_ = cb.Call(failingService)
	}
	err := cb.Call(successfulService)
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)

	// after the timeout the breaker half-opens and recovers on successes
	time.Sleep(timeout + 50*time.Millisecond)
	for i := 0; i < recoveryRequests+2; i++ {
		require.NoError(t, cb.Call(successfulService))
	}
	require.NoError(t, cb.Call(successfulService))

	// a failure in half-open snaps it back to open
	for i := 0; i < recordLength; i++ {
		_ = cb.Call(failingService)
	}
	time.Sleep(timeout + 50*time.Millisecond)
	_ = cb.Call(failingService)
	require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
}
