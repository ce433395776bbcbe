package main

import (
	"fmt"

	"skillswap/internal/app"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	generateUser        string
	generateConcurrency int
)

var generateMatchesCmd = &cobra.Command{
	Use:   "generate-matches",
	Short: "Run match generation for one user or every active user",
	RunE:  runGenerateMatches,
}

func init() {
	generateMatchesCmd.Flags().StringVar(&generateUser, "user", "", "Only generate for this user id")
	generateMatchesCmd.Flags().IntVar(&generateConcurrency, "concurrency", 4, "Users processed in parallel")
}

func runGenerateMatches(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := app.NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("close container")
		}
	}()

	entry := log.WithField("component", "admin")

	if generateUser != "" {
		id, err := uuid.Parse(generateUser)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		res, err := c.MatchUC.GenerateMatches(ctx, id)
		if err != nil {
			return err
		}
		entry.WithFields(logrus.Fields{
			"user_id":   id,
			"created":   len(res.Created),
			"evaluated": res.Evaluated,
			"skipped":   res.Skipped,
			"failed":    res.Failed,
		}).Info("generate matches done")
		return nil
	}

	if generateConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	results, err := c.MatchUC.GenerateAll(ctx, generateConcurrency)
	if err != nil {
		return err
	}

	created, failed := 0, 0
	for _, r := range results {
		created += len(r.Created)
		failed += r.Failed
	}
	entry.WithFields(logrus.Fields{
		"users":   len(results),
		"created": created,
		"failed":  failed,
	}).Info("generate matches done")
	return nil
}
