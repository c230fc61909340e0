package state

import (
	"context"
	"time"

	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/logger"
	"moim-app-go/pkg/metrics"
	"moim-app-go/pkg/observable"
)

// status is the loading flag and error slot shared by the workflows of one
// domain. Concurrent workflows race on both; the last writer wins.
type status struct {
	loading *observable.Value[bool]
	err     *observable.Value[string]
	metrics *metrics.Metrics
	log     logger.Logger
}

func newStatus(m *metrics.Metrics, log logger.Logger) status {
	return status{
		loading: observable.NewValue(false),
		err:     observable.NewValue(""),
		metrics: m,
		log:     log,
	}
}

// track runs fn with the loading flag raised. Failures are classified and
// their message is mirrored into the error slot before being returned.
func track[T any](ctx context.Context, s status, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	s.err.Set("")
	s.loading.Set(true)
	defer s.loading.Set(false)

	value, err := fn(ctx)
	s.metrics.ObserveWorkflow(op, err, time.Since(start))
	if err != nil {
		typed := apperrors.Classify(err)
		s.err.Set(typed.Message())
		s.log.Debug(op+": failed", "code", string(typed.Code()), "error", err.Error())
		var zero T
		return zero, typed
	}
	return value, nil
}
