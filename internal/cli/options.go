package cli

import "time"

type Options struct {
	JSON    bool
	Yes     bool
	Debug   bool
	Timeout time.Duration
	Args    []string
}
