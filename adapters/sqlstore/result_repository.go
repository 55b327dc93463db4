package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"
	"luckystat/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	slotCurrent  = "current"
	slotLastWeek = "last_week"
)

// ResultRepository keeps the two result slots in generation_results
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a SQL result repository
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &ResultRepository{db: db}
}

type resultRow struct {
	Slot        string         `db:"slot"`
	ID          string         `db:"id"`
	WeekYear    int            `db:"week_year"`
	WeekNumber  int            `db:"week_number"`
	Boundary    time.Time      `db:"boundary"`
	Seed        int64          `db:"seed"`
	Sets        string         `db:"sets"`
	Bonuses     sql.NullString `db:"bonuses"`
	GeneratedAt time.Time      `db:"generated_at"`
}

func toRow(slot string, rec models.ResultRecord) (resultRow, error) {
	sets, err := json.Marshal(rec.Sets)
	if err != nil {
		return resultRow{}, errors.Wrap(err, "encode result sets")
	}
	row := resultRow{
		Slot:        slot,
		ID:          rec.ID.String(),
		WeekYear:    rec.Week.Year,
		WeekNumber:  rec.Week.Number,
		Boundary:    rec.Week.Boundary.UTC(),
		Seed:        int64(rec.Seed),
		Sets:        string(sets),
		GeneratedAt: rec.GeneratedAt.UTC(),
	}
	if rec.Bonuses != nil {
		bonuses, err := json.Marshal(rec.Bonuses)
		if err != nil {
			return resultRow{}, errors.Wrap(err, "encode bonuses")
		}
		row.Bonuses = sql.NullString{String: string(bonuses), Valid: true}
	}
	return row, nil
}

func (row resultRow) record() (*models.ResultRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.DatabaseError("stored result has an invalid id", err)
	}
	rec := &models.ResultRecord{
		ID: id,
		Week: week.Identifier{
			Year:     row.WeekYear,
			Number:   row.WeekNumber,
			Boundary: row.Boundary.In(week.Zone),
		},
		Seed:        week.Seed(row.Seed),
		GeneratedAt: row.GeneratedAt,
	}
	var sets lotto.ResultSet
	if err := json.Unmarshal([]byte(row.Sets), &sets); err != nil {
		return nil, errors.DatabaseError("stored result sets are corrupt", err)
	}
	rec.Sets = sets
	if row.Bonuses.Valid {
		if err := json.Unmarshal([]byte(row.Bonuses.String), &rec.Bonuses); err != nil {
			return nil, errors.DatabaseError("stored bonuses are corrupt", err)
		}
	}
	return rec, nil
}

const upsertResult = `
	INSERT INTO generation_results (slot, id, week_year, week_number, boundary, seed, sets, bonuses, generated_at)
	VALUES (:slot, :id, :week_year, :week_number, :boundary, :seed, :sets, :bonuses, :generated_at)
	ON CONFLICT (slot) DO UPDATE SET
		id = excluded.id,
		week_year = excluded.week_year,
		week_number = excluded.week_number,
		boundary = excluded.boundary,
		seed = excluded.seed,
		sets = excluded.sets,
		bonuses = excluded.bonuses,
		generated_at = excluded.generated_at`

// SaveCurrent overwrites the current slot
func (r *ResultRepository) SaveCurrent(ctx context.Context, record models.ResultRecord) error {
	row, err := toRow(slotCurrent, record)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, upsertResult, row); err != nil {
		return errors.DatabaseError("failed to save current results", err)
	}
	return nil
}

// Current returns the current slot
func (r *ResultRepository) Current(ctx context.Context) (*models.ResultRecord, error) {
	return r.load(ctx, slotCurrent, "current results")
}

// LastWeek returns the last-week slot
func (r *ResultRepository) LastWeek(ctx context.Context) (*models.ResultRecord, error) {
	return r.load(ctx, slotLastWeek, "last week results")
}

func (r *ResultRepository) load(ctx context.Context, slot, name string) (*models.ResultRecord, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT slot, id, week_year, week_number, boundary, seed, sets, bonuses, generated_at
		FROM generation_results
		WHERE slot = ?`), slot)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(name)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load "+name, err)
	}
	return row.record()
}

// Rotate demotes the current slot to last week and stores next as current
func (r *ResultRepository) Rotate(ctx context.Context, next models.ResultRecord) error {
	row, err := toRow(slotCurrent, next)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM generation_results WHERE slot = ?`), slotLastWeek); err != nil {
		return errors.DatabaseError("failed to clear last week results", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`UPDATE generation_results SET slot = ? WHERE slot = ?`), slotLastWeek, slotCurrent); err != nil {
		return errors.DatabaseError("failed to demote current results", err)
	}
	if _, err := tx.NamedExecContext(ctx, upsertResult, row); err != nil {
		return errors.DatabaseError("failed to save current results", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit rotation", err)
	}
	return nil
}
