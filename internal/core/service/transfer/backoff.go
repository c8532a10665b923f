package transfer

import "time"

// backoffDelay doubles the base delay for every attempt already made, capped
// at max. Attempt numbering starts at 1.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := base << (attempt - 1)
	if delay <= 0 || (max > 0 && delay > max) {
		return max
	}
	return delay
}
