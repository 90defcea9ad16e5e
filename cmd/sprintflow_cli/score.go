package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sprintflow/scoring/internal/cache"
	"github.com/sprintflow/scoring/internal/indices"
	"github.com/sprintflow/scoring/internal/scoring"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type indexScorer interface {
	Performance(ctx context.Context, athleteID uuid.UUID) (*scoring.PerformanceResult, error)
	Power(ctx context.Context, athleteID uuid.UUID) (*scoring.PowerResult, error)
	Form(ctx context.Context, athleteID uuid.UUID) (*scoring.FormReport, error)
}

var scoreCmd = &cobra.Command{
	Use:   "score <athlete-id>",
	Short: "Print the performance, power and form indices of an athlete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		athleteID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid athlete id: %w", err)
		}

		svc := indices.NewService(repo, cache.NewCatalogCache(repo, time.Minute), nil, time.Now)
		return printScores(cmd.Context(), svc, athleteID, cmd.OutOrStdout())
	},
}

func printScores(ctx context.Context, scorer indexScorer, athleteID uuid.UUID, out io.Writer) error {
	header := color.New(color.Bold, color.FgCyan)

	header.Fprintln(out, "performance")
	perf, err := scorer.Performance(ctx, athleteID)
	if err := printIndex(out, perf, err); err != nil {
		return err
	}

	header.Fprintln(out, "poids/puissance")
	power, err := scorer.Power(ctx, athleteID)
	if err := printIndex(out, power, err); err != nil {
		return err
	}

	header.Fprintln(out, "forme")
	form, err := scorer.Form(ctx, athleteID)
	if err != nil {
		return err
	}
	return printIndex(out, form.Payload(), nil)
}

func printIndex(out io.Writer, payload any, err error) error {
	if errors.Is(err, scoring.ErrMissingData) {
		color.New(color.FgYellow).Fprintln(out, scoring.MissingDataMessage)
		return nil
	}
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(b))
	return nil
}
