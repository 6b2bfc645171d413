package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "exchange-rate-refresh"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.IncLockSkipped()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "loyafu_cron_job_success_total", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "loyafu_cron_job_failure_total", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "loyafu_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	mf := findMetricFamily(mfs, "loyafu_cron_lock_skipped_total")
	if mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected lock skipped counter of 1")
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var cron *CronJobMetrics
	cron.IncSuccess("job")
	NewCronJobMetrics(nil).IncFailure("job")
	NewCheckoutMetrics(nil).RecordCheckout(enums.DeliveryMethodPickup, enums.PaymentMethodMobilePayment, 1)
	NewExchangeRateMetrics(nil).SetRate("bcv", decimal.NewFromInt(40), time.Now())
}

func TestCheckoutMetricsLabelsByMethod(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.RecordCheckout(enums.DeliveryMethodNationalShipping, enums.PaymentMethodMobilePayment, 3)
	metrics.RecordCheckout(enums.DeliveryMethodNationalShipping, enums.PaymentMethodMobilePayment, 1)
	metrics.RecordCheckout(enums.DeliveryMethodPickup, enums.PaymentMethodCashForeignCurrency, 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	got, err := fetchCounterValue(mfs, "loyafu_checkout_links_total", "delivery", "NATIONAL_SHIPPING")
	if err != nil {
		t.Fatalf("fetch checkout counter: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 national checkouts, got %f", got)
	}
	items := findMetricFamily(mfs, "loyafu_checkout_cart_items")
	if items == nil || items.GetMetric()[0].GetHistogram().GetSampleSum() != 6 {
		t.Fatalf("expected 6 units observed")
	}
}

func TestExchangeRateGaugeKeepsLatestSource(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewExchangeRateMetrics(reg)
	metrics.SetRate("bcv", decimal.RequireFromString("36.5"), time.Unix(1700000000, 0))
	metrics.SetRate("manual", decimal.NewFromInt(40), time.Unix(1700000100, 0))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "loyafu_exchange_rate_local_per_usd")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected a single rate series")
	}
	if !matchesLabel(mf.GetMetric()[0].GetLabel(), "source", "manual") {
		t.Fatalf("expected manual source label")
	}
	if mf.GetMetric()[0].GetGauge().GetValue() != 40 {
		t.Fatalf("unexpected gauge value %f", mf.GetMetric()[0].GetGauge().GetValue())
	}
	ts := findMetricFamily(mfs, "loyafu_exchange_rate_fetched_timestamp_seconds")
	if ts == nil || ts.GetMetric()[0].GetGauge().GetValue() != 1700000100 {
		t.Fatalf("unexpected fetched timestamp")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
