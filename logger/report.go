package logger

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var (
	counterMu sync.Mutex
	warns     = map[string]int64{}
	errs      = map[string]int64{}
)

func recordWarn(component string) {
	counterMu.Lock()
	warns[component]++
	counterMu.Unlock()
}

func recordError(component string) {
	counterMu.Lock()
	errs[component]++
	counterMu.Unlock()
}

// LogRunReport logs accumulated per-component warn/error counts together
// with the run duration, and publishes the summary to CloudWatch when the
// client is configured. Intended to be called once at the end of a cycle.
func LogRunReport(ctx context.Context, log *Log, duration time.Duration) {
	counterMu.Lock()
	warnTotal := int64(0)
	errTotal := int64(0)
	warnsByComponent := make(map[string]int64, len(warns))
	errsByComponent := make(map[string]int64, len(errs))
	for c, n := range warns {
		warnsByComponent[c] = n
		warnTotal += n
	}
	for c, n := range errs {
		errsByComponent[c] = n
		errTotal += n
	}
	counterMu.Unlock()

	log.WithComponent("report").WithFields(Fields{
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
		"warns":       warnsByComponent,
		"errors":      errsByComponent,
		"warn_total":  warnTotal,
		"error_total": errTotal,
	}).Info("run report")

	data := []cwtypes.MetricDatum{
		{MetricName: aws.String("run_duration_ms"), Unit: cwtypes.StandardUnitMilliseconds, Value: aws.Float64(float64(duration.Nanoseconds()) / 1e6)},
		{MetricName: aws.String("run_warns"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(warnTotal))},
		{MetricName: aws.String("run_errors"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(errTotal))},
	}
	publishMetrics(ctx, data)
}
