package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brand-plan/internal/database"
	"brand-plan/internal/domain"
	"brand-plan/internal/repository/models"
	"brand-plan/internal/util"

	"github.com/jmoiron/sqlx"
)

const planColumns = `id AS ID, session_id AS SESSION_ID, social_network AS SOCIAL_NETWORK,
	objective AS OBJECTIVE, niche AS NICHE, markdown AS MARKDOWN, input_json AS INPUT_JSON,
	task_count AS TASK_COUNT, created_at AS CREATED_AT`

// defaultListLimit caps ListPlansBySession when the caller passes no limit.
const defaultListLimit = 20

// PlanDatabaseAdapter implements domain.PlanArchive with sqlx.
type PlanDatabaseAdapter struct {
	db *sqlx.DB
}

// NewPlanDatabaseAdapter creates a new instance of PlanDatabaseAdapter
func NewPlanDatabaseAdapter(db *sqlx.DB) *PlanDatabaseAdapter {
	return &PlanDatabaseAdapter{db: db}
}

// SavePlan archives a generated plan.
func (r *PlanDatabaseAdapter) SavePlan(ctx context.Context, plan *domain.Plan) error {
	model, err := toModelPlan(plan)
	if err != nil {
		return err
	}

	query := `INSERT INTO plans (id, session_id, social_network, objective, niche, markdown, input_json, task_count, created_at)
		VALUES (:ID, :SESSION_ID, :SOCIAL_NETWORK, :OBJECTIVE, :NICHE, :MARKDOWN, :INPUT_JSON, :TASK_COUNT, :CREATED_AT)`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
	}
	return nil
}

// GetPlan loads an archived plan by ID.
func (r *PlanDatabaseAdapter) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var model models.Plan
	query := r.db.Rebind("SELECT " + planColumns + " FROM plans WHERE id = ?")
	if err := r.db.GetContext(ctx, &model, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewPlanNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}
	return toDomainPlan(&model)
}

// ListPlansBySession returns the newest plans of a session first.
func (r *PlanDatabaseAdapter) ListPlansBySession(ctx context.Context, sessionID string, limit int) ([]*domain.Plan, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := "SELECT " + planColumns + " FROM plans WHERE session_id = ? ORDER BY created_at DESC"
	if r.db.DriverName() == database.DriverOracle {
		query += " FETCH FIRST ? ROWS ONLY"
	} else {
		query += " LIMIT ?"
	}

	var rows []models.Plan
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list plans of session %s: %w", sessionID, err)
	}

	plans := make([]*domain.Plan, 0, len(rows))
	for i := range rows {
		plan, err := toDomainPlan(&rows[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func toModelPlan(plan *domain.Plan) (*models.Plan, error) {
	input, err := util.MarshalNullJSON(plan.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan input: %w", err)
	}
	return &models.Plan{
		ID:            plan.ID,
		SessionID:     plan.SessionID,
		SocialNetwork: string(plan.Input.SocialNetwork),
		Objective:     string(plan.Input.Objective),
		Niche:         plan.Input.Niche,
		Markdown:      plan.Markdown,
		InputJSON:     input,
		TaskCount:     len(plan.Tasks()),
		CreatedAt:     plan.CreatedAt,
	}, nil
}

func toDomainPlan(model *models.Plan) (*domain.Plan, error) {
	plan := &domain.Plan{
		ID:        model.ID,
		SessionID: model.SessionID,
		Markdown:  model.Markdown,
		CreatedAt: model.CreatedAt,
		Input: domain.QuizInput{
			SocialNetwork: domain.SocialNetwork(model.SocialNetwork),
			Objective:     domain.Objective(model.Objective),
			Niche:         model.Niche,
		},
	}
	if _, err := util.UnmarshalNullJSON(model.InputJSON, &plan.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input of plan %s: %w", model.ID, err)
	}
	return plan, nil
}

var _ domain.PlanArchive = (*PlanDatabaseAdapter)(nil)
