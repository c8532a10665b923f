package transfer

import "io"

// progressReader reports fractional progress while a payload streams through
// it. The raw fraction is mapped onto [lo, hi] and emitted at most every five
// points so large payloads do not hammer the session store. An emit error
// aborts the stream, that is how a cancellation lands mid-transfer.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lo       float64
	hi       float64
	lastSent float64
	emit     func(float64) error
}

func newProgressReader(r io.Reader, total int64, lo, hi float64, emit func(float64) error) *progressReader {
	return &progressReader{r: r, total: total, lo: lo, hi: hi, emit: emit}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.total > 0 && p.emit != nil {
		p.read += int64(n)
		frac := float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		mapped := p.lo + (p.hi-p.lo)*frac
		if (mapped-p.lastSent >= 0.05 || frac == 1) && mapped > p.lastSent {
			if emitErr := p.emit(mapped); emitErr != nil {
				return n, emitErr
			}
			p.lastSent = mapped
		}
	}
	return n, err
}
