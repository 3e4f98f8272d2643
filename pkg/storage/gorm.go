package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ratecast/ratecast/pkg/types"
)

// GormProvider implements Database on top of a SQL database. Projects and
// their proposal utility live in separate tables and are written in one
// transaction.
type GormProvider struct {
	driver string
	dsn    string
	db     *gorm.DB
}

type projectRow struct {
	ID          string    `gorm:"primaryKey;column:id"`
	UserID      string    `gorm:"column:user_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Address     string    `gorm:"column:address"`
	Consumption float64   `gorm:"column:consumption"`
	Percentage  float64   `gorm:"column:percentage"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`

	Utility *proposalUtilityRow `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (projectRow) TableName() string { return "projects" }

type proposalUtilityRow struct {
	ProjectID     string          `gorm:"primaryKey;column:project_id"`
	OpenEIID      string          `gorm:"column:openei_id"`
	RateName      string          `gorm:"column:rate_name"`
	Approved      bool            `gorm:"column:approved"`
	IsDefault     bool            `gorm:"column:is_default"`
	StartDate     string          `gorm:"column:start_date"`
	PricingMatrix string          `gorm:"column:pricing_matrix"`
	AverageRate   decimal.Decimal `gorm:"column:average_rate;type:numeric(12,4)"`
	FirstYearCost decimal.Decimal `gorm:"column:first_year_cost;type:numeric(14,2)"`
}

func (proposalUtilityRow) TableName() string { return "proposal_utilities" }

// NewGormProvider returns a provider for the driver ("sqlite" or "postgres").
// Init must be called before it's used.
func NewGormProvider(driver, dsn string) *GormProvider {
	return &GormProvider{driver: driver, dsn: dsn}
}

// Validate checks if the provider is properly configured.
func (g *GormProvider) Validate() error {
	switch g.driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported sql driver: %s", g.driver)
	}
	if g.dsn == "" {
		return fmt.Errorf("sql-dsn is required")
	}
	return nil
}

// Init opens the database and migrates the schema.
func (g *GormProvider) Init(ctx context.Context) error {
	if err := g.Validate(); err != nil {
		return err
	}
	var dialector gorm.Dialector
	if g.driver == "postgres" {
		dialector = postgres.Open(g.dsn)
	} else {
		dialector = sqlite.Open(g.dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", g.driver, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&projectRow{}, &proposalUtilityRow{}); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", g.driver, err)
	}
	g.db = db
	return nil
}

// Close closes the underlying connection pool.
func (g *GormProvider) Close() error {
	if g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateProject implements Database.
func (g *GormProvider) CreateProject(ctx context.Context, project types.Project) (types.Project, error) {
	project = prepareProject(project)
	row, err := toProjectRow(project)
	if err != nil {
		return types.Project{}, err
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Utility").Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}
		if row.Utility != nil {
			if err := tx.Create(row.Utility).Error; err != nil {
				return fmt.Errorf("failed to insert proposal utility: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("failed to create project %s: %w", project.ID, err)
	}
	return project, nil
}

// GetProject implements Database.
func (g *GormProvider) GetProject(ctx context.Context, id string) (types.Project, error) {
	var row projectRow
	err := g.db.WithContext(ctx).Preload("Utility").First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return types.Project{}, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return fromProjectRow(row)
}

// ListProjects implements Database.
func (g *GormProvider) ListProjects(ctx context.Context, userID string, limit int) ([]types.Project, error) {
	q := g.db.WithContext(ctx).Preload("Utility").Order("created_at desc").Limit(clampLimit(limit))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rows []projectRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]types.Project, 0, len(rows))
	for _, row := range rows {
		p, err := fromProjectRow(row)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func toProjectRow(p types.Project) (projectRow, error) {
	row := projectRow{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Consumption: p.ConsumptionKWH,
		Percentage:  p.EscalatorPct,
		CreatedAt:   p.CreatedAt,
	}
	if p.Utility != nil {
		matrix, err := json.Marshal(p.Utility.PricingMatrix)
		if err != nil {
			return projectRow{}, fmt.Errorf("failed to marshal pricing matrix: %w", err)
		}
		row.Utility = &proposalUtilityRow{
			ProjectID:     p.ID,
			OpenEIID:      p.Utility.RateLabel,
			RateName:      p.Utility.RateName,
			Approved:      p.Utility.Approved,
			IsDefault:     p.Utility.IsDefault,
			StartDate:     p.Utility.StartDate,
			PricingMatrix: string(matrix),
			AverageRate:   p.Utility.AverageRate,
			FirstYearCost: p.Utility.FirstYearCost,
		}
	}
	return row, nil
}

func fromProjectRow(row projectRow) (types.Project, error) {
	p := types.Project{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		Description:    row.Description,
		Address:        row.Address,
		ConsumptionKWH: row.Consumption,
		EscalatorPct:   row.Percentage,
		CreatedAt:      row.CreatedAt.UTC(),
	}
	if u := row.Utility; u != nil {
		var matrix []types.Period
		if u.PricingMatrix != "" {
			if err := json.Unmarshal([]byte(u.PricingMatrix), &matrix); err != nil {
				return types.Project{}, fmt.Errorf("failed to unmarshal pricing matrix of %s: %w", row.ID, err)
			}
		}
		p.Utility = &types.ProposalUtility{
			RateLabel:     u.OpenEIID,
			RateName:      u.RateName,
			Approved:      u.Approved,
			IsDefault:     u.IsDefault,
			StartDate:     u.StartDate,
			PricingMatrix: matrix,
			AverageRate:   u.AverageRate,
			FirstYearCost: u.FirstYearCost,
		}
	}
	return p, nil
}
