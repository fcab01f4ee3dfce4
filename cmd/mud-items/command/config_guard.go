package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mud-items/internal/guard"
)

type GuardConfig struct {
	TokenTTL  string `json:"token_ttl"`
	MaxTokens int    `json:"max_tokens"`
}

func (c *GuardConfig) Validate() error {
	el := errors.NewErrorList()

	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			el.Add(fmt.Errorf("parsing token_ttl: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("token_ttl must be positive"))
		}
	}

	if c.MaxTokens < 0 {
		el.Add(fmt.Errorf("max_tokens cannot be negative"))
	}

	return el.Err()
}

func (c *GuardConfig) buildGuard() (*guard.Guard, error) {
	var opts []guard.Opt
	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("parsing token_ttl: %w", err)
		}
		opts = append(opts, guard.WithTokenTTL(d))
	}
	if c.MaxTokens != 0 {
		opts = append(opts, guard.WithMaxTokens(c.MaxTokens))
	}

	return guard.New(opts...), nil
}
