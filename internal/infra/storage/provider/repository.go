package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PWS-ReservationService/pkg/psqlbuilder"
)

// providerColumns полный список колонок таблицы providers
var providerColumns = []string{
	"id",
	"user_id",
	"home_area",
	"is_approved",
	"is_paused",
	"schedule_updated_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с исполнителями,
// их зонами обслуживания и окнами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исполнителей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает исполнителя по ID вместе с дополнительными зонами.
// Внутри транзакции строка блокируется (FOR UPDATE) — используется
// guard-предикатами изменения расписания.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := r.scanProvider(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %v", ErrScanRow, err)
	}

	areas, err := r.getExtraAreas(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.ExtraAreas = areas[p.ID]

	return p, nil
}

// GetByUserID получает исполнителя по ID пользователя identity-сервиса
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := r.scanProvider(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan provider: %v", ErrScanRow, err)
	}

	areas, err := r.getExtraAreas(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.ExtraAreas = areas[p.ID]

	return p, nil
}

// GetAssignableByArea получает исполнителей, доступных для назначения в зоне:
// одобренных, не на паузе, у которых зона домашняя или входит в дополнительные.
// Порядок по возрастанию ID — на него опирается политика переназначения
// "первый подходящий кандидат".
func (r *Repository) GetAssignableByArea(ctx context.Context, area string) ([]*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(prefixed("p", providerColumns)...).
		From("providers p").
		Where(squirrel.Eq{"p.is_approved": true, "p.is_paused": false}).
		Where(squirrel.Or{
			squirrel.Eq{"p.home_area": area},
			squirrel.Expr("EXISTS (SELECT 1 FROM provider_areas pa WHERE pa.provider_id = p.id AND pa.area = ?)", area),
		}).
		OrderBy("p.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignableByArea - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignableByArea - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	providers, err := r.scanProviders(rows)
	if err != nil {
		return nil, err
	}

	if len(providers) == 0 {
		return providers, nil
	}

	ids := make([]int64, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}

	areas, err := r.getExtraAreas(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		p.ExtraAreas = areas[p.ID]
	}

	return providers, nil
}

// GetWindowsByProviders получает окна доступности набора исполнителей
// на день недели одним запросом
func (r *Repository) GetWindowsByProviders(ctx context.Context, providerIDs []int64, weekday int) ([]*domain.AvailabilityWindow, error) {
	if len(providerIDs) == 0 {
		return []*domain.AvailabilityWindow{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"weekday",
		"start_time",
		"end_time",
	).
		From("availability_windows").
		Where(squirrel.Eq{"provider_id": providerIDs, "weekday": weekday}).
		OrderBy("provider_id ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByProviders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByProviders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// ReplaceWindows заменяет окна доступности исполнителя целиком
// (delete-all-then-insert). Частичное обновление не поддерживается.
// Вызывать только внутри транзакции.
func (r *Repository) ReplaceWindows(ctx context.Context, providerID int64, windows []*domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_windows").
		Columns("provider_id", "weekday", "start_time", "end_time")

	for _, w := range windows {
		insertBuilder = insertBuilder.Values(providerID, w.Weekday, w.StartTime, w.EndTime)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ReplaceExtraAreas заменяет дополнительные зоны обслуживания целиком.
// Вызывать только внутри транзакции.
func (r *Repository) ReplaceExtraAreas(ctx context.Context, providerID int64, areas []string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("provider_areas").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceExtraAreas - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceExtraAreas - execute delete: %v", ErrExecQuery, err)
	}

	if len(areas) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("provider_areas").
		Columns("provider_id", "area")

	for _, area := range areas {
		insertBuilder = insertBuilder.Values(providerID, area)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceExtraAreas - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceExtraAreas - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// TouchScheduleUpdatedAt обновляет отметку последнего изменения расписания
func (r *Repository) TouchScheduleUpdatedAt(ctx context.Context, providerID int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("providers").
		Set("schedule_updated_at", at).
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TouchScheduleUpdatedAt - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TouchScheduleUpdatedAt - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TouchScheduleUpdatedAt - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProvider сканирует одну строку результата в исполнителя (без зон)
func (r *Repository) scanProvider(row rowScanner) (*domain.Provider, error) {
	var p domain.Provider
	var scheduleUpdatedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.HomeArea,
		&p.IsApproved,
		&p.IsPaused,
		&scheduleUpdatedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduleUpdatedAt.Valid {
		p.ScheduleUpdatedAt = &scheduleUpdatedAt.Time
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// scanProviders сканирует результаты запроса в слайс исполнителей
func (r *Repository) scanProviders(rows *sql.Rows) ([]*domain.Provider, error) {
	providers := make([]*domain.Provider, 0)

	for rows.Next() {
		p, err := r.scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanProviders - scan row: %v", ErrScanRow, err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanProviders - rows error: %v", ErrScanRow, err)
	}

	return providers, nil
}

// scanWindows сканирует результаты запроса в слайс окон доступности
func (r *Repository) scanWindows(rows *sql.Rows) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0)

	for rows.Next() {
		var w domain.AvailabilityWindow
		err := rows.Scan(
			&w.ID,
			&w.ProviderID,
			&w.Weekday,
			&w.StartTime,
			&w.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// getExtraAreas получает дополнительные зоны для набора исполнителей
func (r *Repository) getExtraAreas(ctx context.Context, providerIDs []int64) (map[int64][]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("provider_id", "area").
		From("provider_areas").
		Where(squirrel.Eq{"provider_id": providerIDs}).
		OrderBy("provider_id ASC, area ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getExtraAreas - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getExtraAreas - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]string)
	for rows.Next() {
		var providerID int64
		var area string
		if err := rows.Scan(&providerID, &area); err != nil {
			return nil, fmt.Errorf("%w: getExtraAreas - scan row: %v", ErrScanRow, err)
		}
		result[providerID] = append(result[providerID], area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getExtraAreas - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// prefixed добавляет табличный префикс к списку колонок
func prefixed(alias string, columns []string) []string {
	result := make([]string, len(columns))
	for i, c := range columns {
		result[i] = alias + "." + c
	}
	return result
}
