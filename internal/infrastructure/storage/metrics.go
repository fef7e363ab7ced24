package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/backend/internal/domain/file"
)

// Registerer is satisfied by telemetry.Registry and prometheus.Registry
type Registerer interface {
	MustRegister(...prometheus.Collector)
}

// Metrics holds the file service instruments
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	bytes      *prometheus.CounterVec
}

// NewMetrics creates the instruments and registers them on reg
func NewMetrics(reg Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "File service operations by backend, operation and outcome.",
		}, []string{"backend", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "File service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "storage",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes accepted by the file service.",
		}, []string{"backend"}),
	}
	reg.MustRegister(m.operations, m.duration, m.bytes)
	return m
}

// instrumentedService records metrics around another file.Service
type instrumentedService struct {
	next    file.Service
	backend string
	m       *Metrics
}

// Instrument wraps svc so every call is counted under backend
func Instrument(svc file.Service, backend string, m *Metrics) file.Service {
	if m == nil {
		return svc
	}
	return &instrumentedService{next: svc, backend: backend, m: m}
}

func (s *instrumentedService) observe(op string, start time.Time, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, ErrObjectNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.m.operations.WithLabelValues(s.backend, op, outcome).Inc()
	s.m.duration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedService) Upload(ctx context.Context, f file.Upload) (file.Result, error) {
	start := time.Now()
	res, err := s.next.Upload(ctx, f)
	s.observe("upload", start, err)
	if err == nil && f.Size > 0 {
		s.m.bytes.WithLabelValues(s.backend).Add(float64(f.Size))
	}
	return res, err
}

func (s *instrumentedService) UploadProtected(ctx context.Context, f file.Upload) (file.Result, error) {
	start := time.Now()
	res, err := s.next.UploadProtected(ctx, f)
	s.observe("upload_protected", start, err)
	if err == nil && f.Size > 0 {
		s.m.bytes.WithLabelValues(s.backend).Add(float64(f.Size))
	}
	return res, err
}

func (s *instrumentedService) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedService) GetUploadStreamDescriptor(ctx context.Context, in file.UploadStreamInput) (*file.UploadStreamDescriptor, error) {
	start := time.Now()
	d, err := s.next.GetUploadStreamDescriptor(ctx, in)
	if err != nil {
		s.observe("upload_stream", start, err)
		return nil, err
	}
	cw := &countingWriter{WriteCloser: d.Writer}
	wait := d.Wait
	d.Writer = cw
	d.Wait = func() error {
		err := wait()
		s.observe("upload_stream", start, err)
		if err == nil {
			s.m.bytes.WithLabelValues(s.backend).Add(float64(cw.n))
		}
		return err
	}
	return d, nil
}

func (s *instrumentedService) DownloadAsStream(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	rc, err := s.next.DownloadAsStream(ctx, key)
	s.observe("download", start, err)
	return rc, err
}

func (s *instrumentedService) GetPresignedDownloadURL(ctx context.Context, key string) (string, error) {
	start := time.Now()
	u, err := s.next.GetPresignedDownloadURL(ctx, key)
	s.observe("presign", start, err)
	return u, err
}

// Unwrap returns the wrapped backend
func (s *instrumentedService) Unwrap() file.Service {
	return s.next
}

type countingWriter struct {
	io.WriteCloser
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.WriteCloser.Write(p)
	c.n += int64(n)
	return n, err
}
