package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/rates"
	"github.com/ratecast/ratecast/pkg/storage"
	"github.com/ratecast/ratecast/pkg/types"
	"github.com/ratecast/ratecast/pkg/utility"
)

var addresses = []string{
	"1600 Pennsylvania Ave NW, Washington, DC 20500",
	"233 S Wacker Dr, Chicago, IL 60606",
	"1 Infinite Loop, Cupertino, CA 95014",
	"350 5th Ave, New York, NY 10118",
	"600 Congress Ave, Austin, TX 78701",
}

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	u := utility.Configured()
	s := storage.Configured()
	userID := lflag.String("seed-user", "", "User ID to own the seeded projects")
	countStr := lflag.String("seed-count", "10", "Number of projects to seed")
	lflag.Configure()
	log.Configure()

	ctx := context.Background()
	defer s.Close()

	count, err := strconv.Atoi(*countStr)
	if err != nil || count < 0 {
		log.Ctx(ctx).ErrorContext(ctx, "invalid seed-count", slog.String("seedCount", *countStr))
		os.Exit(2)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding mock projects", slog.Int("count", count))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < count; i++ {
		in := types.CalculationInput{
			Address: addresses[i%len(addresses)],
			// round to the nearest 100kWh like a utility bill summary
			AnnualConsumptionKWH: float64(10+rng.Intn(91)) * 100,
			EscalatorPct:         float64(4 + rng.Intn(7)),
		}

		records, err := u.RatePlans(ctx, in.Address)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to fetch rate plans", slog.String("address", in.Address), slog.Any("error", err))
			os.Exit(1)
		}
		a, err := rates.Analyze(ctx, records, in)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "skipping address without rates", slog.String("address", in.Address), slog.Any("error", err))
			continue
		}

		p, err := s.CreateProject(ctx, types.Project{
			UserID:         *userID,
			Name:           fmt.Sprintf("Mock: %s", a.SelectedRate.Name),
			Address:        in.Address,
			ConsumptionKWH: in.AnnualConsumptionKWH,
			EscalatorPct:   in.EscalatorPct,
			Utility:        types.NewProposalUtility(a.SelectedRate, a.SelectedRate.AverageRate, a.FirstYearCost),
		})
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed project", slog.Any("error", err))
			os.Exit(1)
		}

		fmt.Printf("Seeded project %s: %s (%.0f kWh, %.0f%%, first year $%.2f)\n",
			p.ID, in.Address, in.AnnualConsumptionKWH, in.EscalatorPct, a.FirstYearCost)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeded mock projects successfully")
}
