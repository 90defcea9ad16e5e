package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/fatigue"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	reanalyseSince  string
	reanalyseDryRun bool
)

var reanalyseCmd = &cobra.Command{
	Use:   "reanalyse",
	Short: "Recompute workout analyses",
	Long: `Recompute the fatigue analysis of every workout since the given day and
upsert the workout_analyses rows. Analyses that did not change are left
untouched, so the command can be re-run safely.

EXAMPLES:

  sprintflow reanalyse                        # every stored workout
  sprintflow reanalyse --since 2024-05-01
  sprintflow reanalyse --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var since time.Time
		if reanalyseSince != "" {
			var err error
			since, err = time.Parse(time.DateOnly, reanalyseSince)
			if err != nil {
				return fmt.Errorf("invalid --since, expected YYYY-MM-DD: %w", err)
			}
		}

		var processor workoutProcessor = fatigue.NewService(repo, nil, time.Now)
		if reanalyseDryRun {
			processor = &dryRunProcessor{records: repo}
		}

		summary, err := reanalyse(cmd.Context(), repo, processor, since, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		summary.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	reanalyseCmd.Flags().StringVar(&reanalyseSince, "since", "", "only workouts on or after this day (YYYY-MM-DD)")
	reanalyseCmd.Flags().BoolVar(&reanalyseDryRun, "dry-run", false, "compute analyses without writing them")
}

type workoutSource interface {
	ListAllWorkouts(ctx context.Context, since time.Time) ([]athlete.Workout, error)
}

type workoutProcessor interface {
	Process(ctx context.Context, workout athlete.Workout) (*fatigue.Result, error)
}

type recordsReader interface {
	ListExerciseRecords(ctx context.Context, athleteID uuid.UUID) ([]athlete.ExerciseRecord, error)
}

const outcomeDryRun fatigue.Outcome = "dry-run"

// dryRunProcessor analyses workouts without touching workout_analyses.
type dryRunProcessor struct {
	records recordsReader
}

func (p *dryRunProcessor) Process(ctx context.Context, workout athlete.Workout) (*fatigue.Result, error) {
	records, err := p.records.ListExerciseRecords(ctx, workout.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	analysis, skip := fatigue.Analyze(workout, records)
	if skip != "" {
		return &fatigue.Result{Outcome: fatigue.OutcomeSkipped, SkipReason: skip}, nil
	}
	return &fatigue.Result{Outcome: outcomeDryRun, Analysis: analysis}, nil
}

type reanalyseSummary struct {
	total    int
	outcomes map[fatigue.Outcome]int
}

func reanalyse(
	ctx context.Context,
	source workoutSource,
	processor workoutProcessor,
	since time.Time,
	out io.Writer,
) (*reanalyseSummary, error) {
	workouts, err := source.ListAllWorkouts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	faint := color.New(color.Faint)
	summary := &reanalyseSummary{
		total:    len(workouts),
		outcomes: make(map[fatigue.Outcome]int),
	}
	for _, w := range workouts {
		res, err := processor.Process(ctx, w)
		if err != nil {
			summary.outcomes[fatigue.OutcomeFailed]++
			color.New(color.FgRed).Fprintf(out, "%s %s failed: %s\n", w.ID, w.Date.Format(time.DateOnly), err)
			continue
		}
		summary.outcomes[res.Outcome]++

		detail := string(res.SkipReason)
		if res.Analysis != nil {
			detail = fmt.Sprintf("drop-off %.2f%%", res.Analysis.DropOffPct)
		}
		fmt.Fprintf(out, "%s %s %-9s %s\n",
			faint.Sprint(w.ID.String()[:8]),
			w.Date.Format(time.DateOnly),
			res.Outcome,
			faint.Sprint(detail))
	}
	return summary, nil
}

func (s *reanalyseSummary) print(out io.Writer) {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "\n%d workouts\n", s.total)
	for _, o := range []fatigue.Outcome{
		fatigue.OutcomeInserted,
		fatigue.OutcomeUpdated,
		fatigue.OutcomeUnchanged,
		fatigue.OutcomeSkipped,
		fatigue.OutcomeFailed,
		outcomeDryRun,
	} {
		if n := s.outcomes[o]; n > 0 {
			fmt.Fprintf(out, "  %-9s %d\n", o, n)
		}
	}
}
