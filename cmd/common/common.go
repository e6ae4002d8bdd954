// Package common contains shared functionality for command handlers
package common

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dxue2012/bayclub-to-splitwise/internal/config"
	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/splitwise"
)

// NewSplitwiseClient builds an authenticated API client from configuration.
// It fails fast when no access token is available.
func NewSplitwiseClient(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*splitwise.Client, error) {
	if err := cfg.ValidateForSplitwise(); err != nil {
		return nil, err
	}
	return splitwise.NewClient(
		ctx,
		cfg.Splitwise.AccessToken,
		cfg.Splitwise.BaseURL,
		logging.NewLogrusAdapterFromLogger(log),
	), nil
}
