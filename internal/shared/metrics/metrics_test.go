package metrics

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulativeOncePerObservation(t *testing.T) {
	h := newHistogram([]float64{100, 250, 500})
	h.Observe(50)
	h.Observe(300)

	var buf bytes.Buffer
	writeHistogram(&buf, "test_duration_ms", "help", h.Snapshot())
	out := buf.String()

	wantLines := []string{
		`test_duration_ms_bucket{le="100"} 1`,
		`test_duration_ms_bucket{le="250"} 1`,
		`test_duration_ms_bucket{le="500"} 2`,
		`test_duration_ms_bucket{le="+Inf"} 2`,
		`test_duration_ms_count 2`,
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Fatalf("expected %q in output:\n%s", line, out)
		}
	}
}

func TestHistogramObservationAboveAllBuckets(t *testing.T) {
	h := newHistogram([]float64{100})
	h.Observe(5000)

	var buf bytes.Buffer
	writeHistogram(&buf, "test_duration_ms", "help", h.Snapshot())
	out := buf.String()

	if !strings.Contains(out, `test_duration_ms_bucket{le="100"} 0`) {
		t.Fatalf("expected empty finite bucket:\n%s", out)
	}
	if !strings.Contains(out, `test_duration_ms_bucket{le="+Inf"} 1`) {
		t.Fatalf("expected +Inf to carry the observation:\n%s", out)
	}
}

func TestRenderIncludesUploadCounters(t *testing.T) {
	IncUploadStarted()
	IncUploadCompleted()
	IncUploadFailed()

	out := Render()
	for _, name := range []string{"upload_started_total", "upload_completed_total", "upload_failed_total"} {
		if !strings.Contains(out, fmt.Sprintf("# TYPE %s counter", name)) {
			t.Fatalf("expected counter %s in output:\n%s", name, out)
		}
	}
}
