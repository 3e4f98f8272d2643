// Command estimate runs the rate engine against a saved rate directory
// response and prints the analysis as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/rates"
	"github.com/ratecast/ratecast/pkg/types"
	"github.com/ratecast/ratecast/pkg/utility"
)

type output struct {
	types.Analysis
	EffectiveRate *float64  `json:"effective_rate,omitempty"`
	DailyCost     *float64  `json:"daily_cost,omitempty"`
	LoadCurve     []float64 `json:"load_curve,omitempty"`
	Degraded      []string  `json:"degraded,omitempty"`
}

func main() {
	path := lflag.String("rates", "", "Path to a saved OpenEI response (required)")
	address := lflag.String("address", "", "Address to estimate for")
	consumptionStr := lflag.String("consumption", "", "Annual consumption in kWh")
	escalatorStr := lflag.String("escalator", strconv.FormatFloat(types.DefaultEscalatorPct, 'f', -1, 64), "Yearly rate escalator in percent")
	selected := lflag.String("selected-rate", "", "Label of the plan to project (defaults to the most likely plan)")
	lflag.Configure()
	log.Configure()

	ctx := context.Background()

	consumption, err := strconv.ParseFloat(*consumptionStr, 64)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid consumption", slog.Any("error", err))
		os.Exit(2)
	}
	escalator, err := strconv.ParseFloat(*escalatorStr, 64)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid escalator", slog.Any("error", err))
		os.Exit(2)
	}

	f := utility.NewFile(*path)
	if err := f.Validate(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid flags", slog.Any("error", err))
		os.Exit(2)
	}

	records, err := f.RatePlans(ctx, *address)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to read rate plans", slog.Any("error", err))
		os.Exit(1)
	}

	a, err := rates.Analyze(ctx, records, types.CalculationInput{
		Address:              *address,
		AnnualConsumptionKWH: consumption,
		EscalatorPct:         escalator,
		SelectedRateLabel:    *selected,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out := output{Analysis: a, LoadCurve: a.LoadCurve, Degraded: a.Degraded}
	if a.TOU != nil {
		out.EffectiveRate = &a.TOU.EffectiveRate
		out.DailyCost = &a.TOU.DailyCost
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to write output", slog.Any("error", err))
		os.Exit(1)
	}
}
