package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Matching.CounselorCap < 1 {
		return fmt.Errorf("matching.counselor_cap must be >= 1 (got %d)", c.Matching.CounselorCap)
	}
	if c.Matching.PendingBatch < 1 {
		return fmt.Errorf("matching.pending_batch must be >= 1 (got %d)", c.Matching.PendingBatch)
	}
	if c.Matching.RetryAttempts < 1 {
		return fmt.Errorf("matching.retry_attempts must be >= 1 (got %d)", c.Matching.RetryAttempts)
	}

	if c.Sweep.SessionTimeout <= 0 {
		return fmt.Errorf("sweep.session_timeout must be > 0 (got %v)", c.Sweep.SessionTimeout)
	}
	if c.Sweep.TimeoutInterval <= 0 || c.Sweep.AutoMatchInterval <= 0 || c.Sweep.RetentionInterval <= 0 {
		return fmt.Errorf("sweep intervals must be > 0")
	}

	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}

	return nil
}

func (r *RateLimitConfig) validate() error {
	limits := []struct {
		name   string
		max    int
		window interface{ Seconds() float64 }
	}{
		{"message", r.MessageMax, r.MessageWindow},
		{"session_request", r.SessionRequestMax, r.SessionRequestWindow},
		{"button_click", r.ButtonClickMax, r.ButtonClickWindow},
		{"register", r.RegisterMax, r.RegisterWindow},
	}
	for _, l := range limits {
		if l.max < 1 {
			return fmt.Errorf("%s max must be >= 1 (got %d)", l.name, l.max)
		}
		if l.window.Seconds() <= 0 {
			return fmt.Errorf("%s window must be > 0", l.name)
		}
	}
	return nil
}
