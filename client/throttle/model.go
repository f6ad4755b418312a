package throttle

import (
	"errors"
	"time"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config holds the bucket's refill rate and capacity as configured on a
// scorpion client.
type Config struct {
	RPS   int
	Burst int
}

// Interval is the steady-state spacing between requests once the burst
// has been spent.
func (c Config) Interval() time.Duration {
	if c.RPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.RPS)
}
