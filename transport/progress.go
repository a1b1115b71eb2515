package transport

import "io"

// progressTracker turns raw bytes-read counts into the monotonic fraction
// stream promised to callers. It survives across retry attempts so a fresh
// attempt can never report a smaller fraction than an earlier one did.
type progressTracker struct {
	report ProgressFunc
	last   float64
}

func newProgressTracker(report ProgressFunc) *progressTracker {
	return &progressTracker{report: report}
}

// reader wraps an attempt's body so reads feed the tracker. When the
// content length is unknown no intermediate fractions are reported; the
// final call with 1 still happens on success.
func (p *progressTracker) reader(r io.Reader, contentLength int64) io.Reader {
	if p.report == nil || contentLength <= 0 {
		return r
	}
	return &progressReader{r: r, total: contentLength, tracker: p}
}

// update reports a fraction, clamped to [0, 1] and filtered so the stream
// never decreases
func (p *progressTracker) update(fraction float64) {
	if p.report == nil {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction <= p.last {
		return
	}
	p.last = fraction
	invokeProgress(p.report, fraction)
}

// finish emits the guaranteed final call with fraction 1
func (p *progressTracker) finish() {
	if p.report == nil {
		return
	}
	p.last = 1
	invokeProgress(p.report, 1)
}

// invokeProgress calls the callback, swallowing panics so a misbehaving
// callback cannot abort the fetch
func invokeProgress(fn ProgressFunc, fraction float64) {
	defer func() {
		_ = recover()
	}()
	fn(fraction)
}

// progressReader counts bytes read from a single attempt's body
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	tracker *progressTracker
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.read += int64(n)
		pr.tracker.update(float64(pr.read) / float64(pr.total))
	}
	return n, err
}
