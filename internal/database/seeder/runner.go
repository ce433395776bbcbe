package seeder

import (
	"context"
	"fmt"
	"time"

	"skillswap/internal/database"

	"github.com/sirupsen/logrus"
)

type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.WithFields(logrus.Fields{
				"component": "seeder",
				"seeder":    s.Name(),
				"took":      time.Since(start).String(),
			}).Info("seeded")
		}
	}
	return nil
}
