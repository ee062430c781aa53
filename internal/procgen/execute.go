package procgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Result is the single row the procedure selects when it finishes.
type Result struct {
	Status     string
	Step       string
	SourceKey  string
	SQLState   string
	Detail     string
	SyncedRows int64
}

// InterruptedError is a run that stopped at a failing parent row. Rows
// committed before it stay committed.
type InterruptedError struct {
	Result Result
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("sync interrupted at %s (source key %q, sqlstate %s): %s; %d rows synced before the failure",
		e.Result.Step, e.Result.SourceKey, e.Result.SQLState, e.Result.Detail, e.Result.SyncedRows)
}

// Err is nil for a successful run.
func (r Result) Err() error {
	if r.Status == StatusSuccess {
		return nil
	}
	return &InterruptedError{Result: r}
}

// Execute installs the procedure on db, calls it and drops it again. The
// drop also runs when the call fails.
func Execute(ctx context.Context, db *sql.DB, s Script, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, s.Drop); err != nil {
		return Result{}, fmt.Errorf("drop old procedure: %w", err)
	}
	if _, err := db.ExecContext(ctx, s.Definition); err != nil {
		return Result{}, fmt.Errorf("create procedure %s: %w", s.Name, err)
	}
	log.Debug("procedure created", zap.String("procedure", s.Name))

	res, callErr := call(ctx, db, s)
	// context may be done; the drop still has to happen
	if _, err := db.ExecContext(context.WithoutCancel(ctx), s.Drop); err != nil {
		log.Warn("drop procedure failed", zap.String("procedure", s.Name), zap.Error(err))
		if callErr == nil {
			callErr = fmt.Errorf("drop procedure %s: %w", s.Name, err)
		}
	}
	if callErr != nil {
		return Result{}, callErr
	}
	log.Info("procedure finished",
		zap.String("procedure", s.Name),
		zap.String("status", res.Status),
		zap.Int64("synced_rows", res.SyncedRows))
	return res, nil
}

func call(ctx context.Context, db *sql.DB, s Script) (Result, error) {
	rows, err := db.QueryContext(ctx, s.Call)
	if err != nil {
		return Result{}, fmt.Errorf("call %s: %w", s.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Result{}, fmt.Errorf("call %s: %w", s.Name, err)
		}
		return Result{}, errors.New("procedure returned no result row")
	}
	var r Result
	var step, key, state, detail sql.NullString
	if err := rows.Scan(&r.Status, &step, &key, &state, &detail, &r.SyncedRows); err != nil {
		return Result{}, fmt.Errorf("read result of %s: %w", s.Name, err)
	}
	r.Step, r.SourceKey, r.SQLState, r.Detail = step.String, key.String, state.String, detail.String
	return r, nil
}
