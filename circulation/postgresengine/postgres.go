package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed    = "failed to build query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgRollbackFailed      = "failed to roll back transaction"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgStateLoaded         = "item state loaded"
	logMsgChangesCommitted    = "changeset committed"
	logMsgItemInserted        = "item inserted"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "circulation store operation: "

	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrItemID          = "item_id"
	logAttrDurationMS      = "duration_ms"
	logAttrExpectedVersion = "expected_version"
	logAttrActualVersion   = "actual_version"
	logAttrLoanCount       = "loan_count"
	logAttrReservations    = "reservation_count"

	logActionInsertItem   = "insert item"
	logActionLoad         = "load"
	logActionCommit       = "commit"
	logActionGetLoan      = "get loan"
	logActionGetRes       = "get reservation"
	logActionReadView     = "read view"

	metricLoadDuration         = "circulationstore_load_duration_seconds"
	metricCommitDuration       = "circulationstore_commit_duration_seconds"
	metricReadViewDuration     = "circulationstore_readview_duration_seconds"
	metricDatabaseErrors       = "circulationstore_database_errors_total"
	metricConcurrencyConflicts = "circulationstore_concurrency_conflicts_total"

	spanNameLoad      = "circulationstore.load"
	spanNameCommit    = "circulationstore.commit"
	spanAttrOperation = "operation"
	spanAttrErrorType = "error_type"
	spanAttrItemID    = "item_id"
	spanAttrDurationMS = "duration_ms"

	operationLoad     = "load"
	operationCommit   = "commit"
	operationReadView = "readview"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeDatabase    = "database_error"
	errorTypeConcurrency = "concurrency_conflict"
	errorTypeNotFound    = "not_found"

	colID              = "id"
	colTitle           = "title"
	colAuthor          = "author"
	colISBN            = "isbn"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colVersion         = "version"
	colCreatedAt       = "created_at"
	colItemID          = "item_id"
	colHolderID        = "holder_id"
	colIssuedAt        = "issued_at"
	colDueAt           = "due_at"
	colReturnedAt      = "returned_at"
	colFineAmount      = "fine_amount"
	colStatus          = "status"
	colRequestedAt     = "requested_at"
	colSeq             = "seq"
	colNotified        = "notified"
	colKind            = "kind"
	colMessage         = "message"

	dialectPostgres = "postgres"
)

type sqlQueryString = string

// tableNames holds the four table names the engine writes to.
type tableNames struct {
	items         string
	loans         string
	reservations  string
	notifications string
}

func defaultTableNames() tableNames {
	return tableNamesWithPrefix("")
}

func tableNamesWithPrefix(prefix string) tableNames {
	return tableNames{
		items:         prefix + "items",
		loans:         prefix + "loans",
		reservations:  prefix + "reservations",
		notifications: prefix + "notifications",
	}
}

// CirculationStore is the PostgreSQL implementation of circulation.Store.
// It leverages a database adapter and supports customizable logging, metrics,
// tracing, and table naming.
type CirculationStore struct {
	db               adapters.DBAdapter
	tables           tableNames
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewCirculationStoreFromPGXPool creates a new CirculationStore using a pgx Pool with optional configuration.
func NewCirculationStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*CirculationStore, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newCirculationStore(adapters.NewPGXAdapter(db), options...)
}

// NewCirculationStoreFromSQLDB creates a new CirculationStore using a sql.DB with optional configuration.
func NewCirculationStoreFromSQLDB(db *sql.DB, options ...Option) (*CirculationStore, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newCirculationStore(adapters.NewSQLAdapter(db), options...)
}

// NewCirculationStoreFromSQLX creates a new CirculationStore using a sqlx.DB with optional configuration.
func NewCirculationStoreFromSQLX(db *sqlx.DB, options ...Option) (*CirculationStore, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newCirculationStore(adapters.NewSQLXAdapter(db), options...)
}

func newCirculationStore(db adapters.DBAdapter, options ...Option) (*CirculationStore, error) {
	cs := &CirculationStore{
		db:     db,
		tables: defaultTableNames(),
	}

	for _, option := range options {
		if err := option(cs); err != nil {
			return nil, err
		}
	}

	return cs, nil
}

// InsertItem creates a new catalogued item with Version 0.
// Returns ErrItemAlreadyExists if the ID is taken.
func (cs *CirculationStore) InsertItem(ctx context.Context, item circulation.Item) error {
	if item.TotalCopies < 1 {
		return circulation.ErrInvalidTotalCopies
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(cs.tables.items).
		Rows(goqu.Record{
			colID:              item.ID.String(),
			colTitle:           item.Title,
			colAuthor:          item.Author,
			colISBN:            item.ISBN,
			colTotalCopies:     item.TotalCopies,
			colAvailableCopies: item.AvailableCopies,
			colVersion:         0,
			colCreatedAt:       item.CreatedAt,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	result, execErr := cs.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	cs.logQueryWithDuration(ctx, sqlQuery, logActionInsertItem, duration)

	if execErr != nil {
		cs.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(circulation.ErrCommittingChangesFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		cs.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return errors.Join(circulation.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected == 0 {
		return circulation.ErrItemAlreadyExists
	}

	cs.logOperation(ctx, logMsgItemInserted, logAttrItemID, item.ID.String())

	return nil
}

// Load reads the ItemState snapshot for one item: the item row, its active
// loans, and its pending reservations in promotion order.
func (cs *CirculationStore) Load(ctx context.Context, itemID uuid.UUID) (circulation.ItemState, error) {
	var empty circulation.ItemState

	start := time.Now()
	ctx, span := cs.startTraceSpan(ctx, spanNameLoad, map[string]string{
		spanAttrOperation: operationLoad,
		spanAttrItemID:    itemID.String(),
	})

	item, loadItemErr := cs.loadItemRow(ctx, itemID)
	if loadItemErr != nil {
		cs.finishTraceSpanError(span, errorTypeFor(loadItemErr), time.Since(start))
		cs.recordLoadError(ctx, loadItemErr, time.Since(start))
		return empty, loadItemErr
	}

	activeLoans, loansErr := cs.queryLoans(ctx, cs.buildActiveLoansByItemQuery(itemID), logActionLoad)
	if loansErr != nil {
		cs.finishTraceSpanError(span, errorTypeDatabase, time.Since(start))
		cs.recordLoadError(ctx, loansErr, time.Since(start))
		return empty, loansErr
	}

	pendingReservations, reservationsErr := cs.queryReservations(ctx, cs.buildPendingReservationsByItemQuery(itemID), logActionLoad)
	if reservationsErr != nil {
		cs.finishTraceSpanError(span, errorTypeDatabase, time.Since(start))
		cs.recordLoadError(ctx, reservationsErr, time.Since(start))
		return empty, reservationsErr
	}

	duration := time.Since(start)
	cs.finishTraceSpanSuccess(span, duration)
	cs.recordDurationMetricsContext(ctx, metricLoadDuration, duration, operationLoad, statusSuccess)
	cs.logOperation(
		ctx,
		logMsgStateLoaded,
		logAttrItemID, itemID.String(),
		logAttrLoanCount, len(activeLoans),
		logAttrReservations, len(pendingReservations),
		logAttrDurationMS, cs.toMilliseconds(duration),
	)

	return circulation.ItemState{
		Item:                item,
		ActiveLoans:         activeLoans,
		PendingReservations: pendingReservations,
		Version:             item.Version,
	}, nil
}

// GetLoan reads a single loan. Returns ErrLoanNotFound if missing.
func (cs *CirculationStore) GetLoan(ctx context.Context, loanID uuid.UUID) (circulation.Loan, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(cs.tables.loans).
		Select(colID, colItemID, colHolderID, colIssuedAt, colDueAt, colReturnedAt, colFineAmount, colStatus).
		Where(goqu.C(colID).Eq(loanID.String()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return circulation.Loan{}, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	loans, queryErr := cs.queryLoans(ctx, sqlQuery, logActionGetLoan)
	if queryErr != nil {
		return circulation.Loan{}, queryErr
	}

	if len(loans) == 0 {
		return circulation.Loan{}, circulation.ErrLoanNotFound
	}

	return loans[0], nil
}

// GetReservation reads a single reservation. Returns ErrReservationNotFound if missing.
func (cs *CirculationStore) GetReservation(ctx context.Context, reservationID uuid.UUID) (circulation.Reservation, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(cs.tables.reservations).
		Select(colID, colItemID, colHolderID, colRequestedAt, colSeq, colStatus, colNotified).
		Where(goqu.C(colID).Eq(reservationID.String()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return circulation.Reservation{}, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	reservations, queryErr := cs.queryReservations(ctx, sqlQuery, logActionGetRes)
	if queryErr != nil {
		return circulation.Reservation{}, queryErr
	}

	if len(reservations) == 0 {
		return circulation.Reservation{}, circulation.ErrReservationNotFound
	}

	return reservations[0], nil
}

// Commit atomically applies the changeset with optimistic concurrency on the
// item version. The availability adjustment and version bump run as one
// conditional UPDATE; every other statement of the changeset joins the same
// transaction. Zero affected rows on the conditional UPDATE means the snapshot
// went stale or the adjustment would break the availability invariant.
func (cs *CirculationStore) Commit(
	ctx context.Context,
	itemID uuid.UUID,
	expectedVersion uint,
	changes circulation.Changeset,
) error {
	start := time.Now()
	ctx, span := cs.startTraceSpan(ctx, spanNameCommit, map[string]string{
		spanAttrOperation: operationCommit,
		spanAttrItemID:    itemID.String(),
	})

	commitErr := cs.commitInTx(ctx, itemID, expectedVersion, changes)

	duration := time.Since(start)

	if commitErr != nil {
		errorType := errorTypeFor(commitErr)
		cs.finishTraceSpanError(span, errorType, duration)
		cs.recordDurationMetricsContext(ctx, metricCommitDuration, duration, operationCommit, statusError)

		if errors.Is(commitErr, circulation.ErrConcurrencyConflict) {
			cs.recordConcurrencyConflictMetrics(ctx, operationCommit)
		} else {
			cs.recordErrorMetricsContext(ctx, operationCommit, errorType)
		}

		return commitErr
	}

	cs.finishTraceSpanSuccess(span, duration)
	cs.recordDurationMetricsContext(ctx, metricCommitDuration, duration, operationCommit, statusSuccess)
	cs.logOperation(
		ctx,
		logMsgChangesCommitted,
		logAttrItemID, itemID.String(),
		logAttrDurationMS, cs.toMilliseconds(duration),
	)

	return nil
}

// commitInTx runs the whole changeset inside one transaction.
func (cs *CirculationStore) commitInTx(
	ctx context.Context,
	itemID uuid.UUID,
	expectedVersion uint,
	changes circulation.Changeset,
) error {
	tx, beginErr := cs.db.BeginTx(ctx)
	if beginErr != nil {
		cs.logError(ctx, logMsgBeginTxFailed, beginErr)
		return errors.Join(circulation.ErrCommittingChangesFailed, beginErr)
	}

	defer cs.rollback(ctx, tx)

	if err := cs.applyItemUpdate(ctx, tx, itemID, expectedVersion, changes.AdjustAvailable); err != nil {
		return err
	}

	if changes.InsertLoan != nil {
		if err := cs.insertLoanInTx(ctx, tx, *changes.InsertLoan); err != nil {
			return err
		}
	}

	if changes.UpdateLoan != nil {
		if err := cs.updateLoanInTx(ctx, tx, *changes.UpdateLoan); err != nil {
			return err
		}
	}

	if changes.InsertReservation != nil {
		if err := cs.insertReservationInTx(ctx, tx, *changes.InsertReservation); err != nil {
			return err
		}
	}

	for _, reservation := range changes.UpdateReservations {
		if err := cs.updateReservationInTx(ctx, tx, reservation); err != nil {
			return err
		}
	}

	if len(changes.Notifications) > 0 {
		if err := cs.insertNotificationsInTx(ctx, tx, changes.Notifications); err != nil {
			return err
		}
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		cs.logError(ctx, logMsgCommitTxFailed, commitErr)
		return errors.Join(circulation.ErrCommittingChangesFailed, commitErr)
	}

	return nil
}

// applyItemUpdate executes the guarded availability and version update. Zero
// affected rows triggers a diagnosis query to tell conflict from missing item
// from invariant violation.
func (cs *CirculationStore) applyItemUpdate(
	ctx context.Context,
	tx adapters.DBTx,
	itemID uuid.UUID,
	expectedVersion uint,
	adjustAvailable int,
) error {
	newAvailable := goqu.L("? + ?", goqu.C(colAvailableCopies), adjustAvailable)

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(cs.tables.items).
		Set(goqu.Record{
			colAvailableCopies: newAvailable,
			colVersion:         goqu.L("? + 1", goqu.C(colVersion)),
		}).
		Where(
			goqu.C(colID).Eq(itemID.String()),
			goqu.C(colVersion).Eq(expectedVersion),
			newAvailable.Gte(0),
			newAvailable.Lte(goqu.C(colTotalCopies)),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return cs.diagnoseItemUpdateFailure(ctx, tx, itemID, expectedVersion)
	}

	return nil
}

// diagnoseItemUpdateFailure figures out why the conditional update matched no
// row: the item is gone, the version moved, or the availability bounds held it back.
func (cs *CirculationStore) diagnoseItemUpdateFailure(
	ctx context.Context,
	tx adapters.DBTx,
	itemID uuid.UUID,
	expectedVersion uint,
) error {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(cs.tables.items).
		Select(colVersion).
		Where(goqu.C(colID).Eq(itemID.String()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := tx.Query(ctx, sqlQuery)
	if queryErr != nil {
		cs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return errors.Join(circulation.ErrCommittingChangesFailed, queryErr)
	}
	defer cs.closeRows(ctx, rows)

	if !rows.Next() {
		return circulation.ErrItemNotFound
	}

	var actualVersion uint
	if scanErr := rows.Scan(&actualVersion); scanErr != nil {
		cs.logError(ctx, logMsgScanRowFailed, scanErr)
		return errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
	}

	if actualVersion != expectedVersion {
		cs.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrItemID, itemID.String(),
			logAttrExpectedVersion, expectedVersion,
			logAttrActualVersion, actualVersion,
		)

		return circulation.ErrConcurrencyConflict
	}

	return circulation.ErrNotAvailable
}

func (cs *CirculationStore) insertLoanInTx(ctx context.Context, tx adapters.DBTx, loan circulation.Loan) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(cs.tables.loans).
		Rows(goqu.Record{
			colID:         loan.ID.String(),
			colItemID:     loan.ItemID.String(),
			colHolderID:   loan.HolderID.String(),
			colIssuedAt:   loan.IssuedAt,
			colDueAt:      loan.DueAt,
			colReturnedAt: nil,
			colFineAmount: loan.FineAmount,
			colStatus:     string(loan.Status),
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)

	return execErr
}

func (cs *CirculationStore) updateLoanInTx(ctx context.Context, tx adapters.DBTx, loan circulation.Loan) error {
	record := goqu.Record{
		colFineAmount: loan.FineAmount,
		colStatus:     string(loan.Status),
	}

	if loan.ReturnedAt != nil {
		record[colReturnedAt] = *loan.ReturnedAt
	} else {
		record[colReturnedAt] = nil
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(cs.tables.loans).
		Set(record).
		Where(goqu.C(colID).Eq(loan.ID.String()))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return circulation.ErrLoanNotFound
	}

	return nil
}

func (cs *CirculationStore) insertReservationInTx(ctx context.Context, tx adapters.DBTx, reservation circulation.Reservation) error {
	// seq is assigned by the database serial, never written by the engine.
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(cs.tables.reservations).
		Cols(colID, colItemID, colHolderID, colRequestedAt, colStatus, colNotified).
		Vals(goqu.Vals{
			reservation.ID.String(),
			reservation.ItemID.String(),
			reservation.HolderID.String(),
			reservation.RequestedAt,
			string(reservation.Status),
			reservation.Notified,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)

	return execErr
}

func (cs *CirculationStore) updateReservationInTx(ctx context.Context, tx adapters.DBTx, reservation circulation.Reservation) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(cs.tables.reservations).
		Set(goqu.Record{
			colStatus:   string(reservation.Status),
			colNotified: reservation.Notified,
		}).
		Where(goqu.C(colID).Eq(reservation.ID.String()))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return circulation.ErrReservationNotFound
	}

	return nil
}

func (cs *CirculationStore) insertNotificationsInTx(
	ctx context.Context,
	tx adapters.DBTx,
	notifications []circulation.Notification,
) error {
	records := make([]any, 0, len(notifications))
	for _, notification := range notifications {
		records = append(records, goqu.Record{
			colID:        notification.ID.String(),
			colHolderID:  notification.HolderID.String(),
			colItemID:    notification.ItemID.String(),
			colKind:      notification.Kind,
			colMessage:   notification.Message,
			colCreatedAt: notification.CreatedAt,
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(cs.tables.notifications).
		Rows(records...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := cs.execInTx(ctx, tx, sqlQuery, logActionCommit)

	return execErr
}

// ActiveLoansByItem returns all active loans of one item, oldest first.
func (cs *CirculationStore) ActiveLoansByItem(ctx context.Context, itemID uuid.UUID) ([]circulation.Loan, error) {
	return cs.readLoansView(ctx, cs.buildActiveLoansByItemQuery(itemID))
}

// ActiveLoansByHolder returns all active loans held by one holder, oldest first.
func (cs *CirculationStore) ActiveLoansByHolder(ctx context.Context, holderID uuid.UUID) ([]circulation.Loan, error) {
	selectStmt := cs.loanSelect().
		Where(
			goqu.C(colHolderID).Eq(holderID.String()),
			goqu.C(colStatus).Eq(string(circulation.LoanStatusActive)),
		).
		Order(goqu.I(colIssuedAt).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	return cs.readLoansView(ctx, sqlQuery)
}

// OverdueLoans returns all active loans whose due date lies before asOf.
func (cs *CirculationStore) OverdueLoans(ctx context.Context, asOf time.Time) ([]circulation.Loan, error) {
	selectStmt := cs.loanSelect().
		Where(
			goqu.C(colStatus).Eq(string(circulation.LoanStatusActive)),
			goqu.C(colDueAt).Lt(asOf),
		).
		Order(goqu.I(colDueAt).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	return cs.readLoansView(ctx, sqlQuery)
}

// PendingReservationsByItem returns the pending queue of one item in promotion order.
func (cs *CirculationStore) PendingReservationsByItem(ctx context.Context, itemID uuid.UUID) ([]circulation.Reservation, error) {
	start := time.Now()

	reservations, err := cs.queryReservations(ctx, cs.buildPendingReservationsByItemQuery(itemID), logActionReadView)
	if err != nil {
		cs.recordErrorMetricsContext(ctx, operationReadView, errorTypeDatabase)
		return nil, err
	}

	cs.recordDurationMetricsContext(ctx, metricReadViewDuration, time.Since(start), operationReadView, statusSuccess)

	return reservations, nil
}

// PendingReservationsByHolder returns all pending reservations of one holder, oldest first.
func (cs *CirculationStore) PendingReservationsByHolder(ctx context.Context, holderID uuid.UUID) ([]circulation.Reservation, error) {
	selectStmt := cs.reservationSelect().
		Where(
			goqu.C(colHolderID).Eq(holderID.String()),
			goqu.C(colStatus).Eq(string(circulation.ReservationStatusPending)),
		).
		Order(goqu.I(colRequestedAt).Asc(), goqu.I(colSeq).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()

	reservations, err := cs.queryReservations(ctx, sqlQuery, logActionReadView)
	if err != nil {
		cs.recordErrorMetricsContext(ctx, operationReadView, errorTypeDatabase)
		return nil, err
	}

	cs.recordDurationMetricsContext(ctx, metricReadViewDuration, time.Since(start), operationReadView, statusSuccess)

	return reservations, nil
}

/*** query building and row scanning ***/

func (cs *CirculationStore) loanSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(cs.tables.loans).
		Select(colID, colItemID, colHolderID, colIssuedAt, colDueAt, colReturnedAt, colFineAmount, colStatus)
}

func (cs *CirculationStore) reservationSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(cs.tables.reservations).
		Select(colID, colItemID, colHolderID, colRequestedAt, colSeq, colStatus, colNotified)
}

func (cs *CirculationStore) buildActiveLoansByItemQuery(itemID uuid.UUID) sqlQueryString {
	sqlQuery, _, _ := cs.loanSelect().
		Where(
			goqu.C(colItemID).Eq(itemID.String()),
			goqu.C(colStatus).Eq(string(circulation.LoanStatusActive)),
		).
		Order(goqu.I(colIssuedAt).Asc()).
		ToSQL()

	return sqlQuery
}

func (cs *CirculationStore) buildPendingReservationsByItemQuery(itemID uuid.UUID) sqlQueryString {
	sqlQuery, _, _ := cs.reservationSelect().
		Where(
			goqu.C(colItemID).Eq(itemID.String()),
			goqu.C(colStatus).Eq(string(circulation.ReservationStatusPending)),
		).
		Order(goqu.I(colRequestedAt).Asc(), goqu.I(colSeq).Asc()).
		ToSQL()

	return sqlQuery
}

func (cs *CirculationStore) loadItemRow(ctx context.Context, itemID uuid.UUID) (circulation.Item, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(cs.tables.items).
		Select(colID, colTitle, colAuthor, colISBN, colTotalCopies, colAvailableCopies, colVersion, colCreatedAt).
		Where(goqu.C(colID).Eq(itemID.String()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		cs.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return circulation.Item{}, errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := cs.db.Query(ctx, sqlQuery)
	cs.logQueryWithDuration(ctx, sqlQuery, logActionLoad, time.Since(start))

	if queryErr != nil {
		cs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return circulation.Item{}, errors.Join(circulation.ErrLoadingStateFailed, queryErr)
	}
	defer cs.closeRows(ctx, rows)

	if !rows.Next() {
		return circulation.Item{}, circulation.ErrItemNotFound
	}

	var item circulation.Item
	scanErr := rows.Scan(
		&item.ID,
		&item.Title,
		&item.Author,
		&item.ISBN,
		&item.TotalCopies,
		&item.AvailableCopies,
		&item.Version,
		&item.CreatedAt,
	)
	if scanErr != nil {
		cs.logError(ctx, logMsgScanRowFailed, scanErr)
		return circulation.Item{}, errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
	}

	return item, nil
}

// queryLoans executes a loan select and scans the result rows.
func (cs *CirculationStore) queryLoans(ctx context.Context, sqlQuery sqlQueryString, action string) ([]circulation.Loan, error) {
	start := time.Now()
	rows, queryErr := cs.db.Query(ctx, sqlQuery)
	cs.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		cs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(circulation.ErrLoadingStateFailed, queryErr)
	}
	defer cs.closeRows(ctx, rows)

	loans := make([]circulation.Loan, 0)

	for rows.Next() {
		var loan circulation.Loan
		var status string

		scanErr := rows.Scan(
			&loan.ID,
			&loan.ItemID,
			&loan.HolderID,
			&loan.IssuedAt,
			&loan.DueAt,
			&loan.ReturnedAt,
			&loan.FineAmount,
			&status,
		)
		if scanErr != nil {
			cs.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
		}

		loan.Status = circulation.LoanStatus(status)
		loans = append(loans, loan)
	}

	return loans, nil
}

// queryReservations executes a reservation select and scans the result rows.
func (cs *CirculationStore) queryReservations(ctx context.Context, sqlQuery sqlQueryString, action string) ([]circulation.Reservation, error) {
	start := time.Now()
	rows, queryErr := cs.db.Query(ctx, sqlQuery)
	cs.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		cs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(circulation.ErrLoadingStateFailed, queryErr)
	}
	defer cs.closeRows(ctx, rows)

	reservations := make([]circulation.Reservation, 0)

	for rows.Next() {
		var reservation circulation.Reservation
		var status string

		scanErr := rows.Scan(
			&reservation.ID,
			&reservation.ItemID,
			&reservation.HolderID,
			&reservation.RequestedAt,
			&reservation.Seq,
			&status,
			&reservation.Notified,
		)
		if scanErr != nil {
			cs.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
		}

		reservation.Status = circulation.ReservationStatus(status)
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// readLoansView wraps queryLoans with read view metrics.
func (cs *CirculationStore) readLoansView(ctx context.Context, sqlQuery sqlQueryString) ([]circulation.Loan, error) {
	start := time.Now()

	loans, err := cs.queryLoans(ctx, sqlQuery, logActionReadView)
	if err != nil {
		cs.recordErrorMetricsContext(ctx, operationReadView, errorTypeDatabase)
		return nil, err
	}

	cs.recordDurationMetricsContext(ctx, metricReadViewDuration, time.Since(start), operationReadView, statusSuccess)

	return loans, nil
}

// execInTx executes a statement inside the transaction and returns rows affected.
func (cs *CirculationStore) execInTx(
	ctx context.Context,
	tx adapters.DBTx,
	sqlQuery sqlQueryString,
	action string,
) (int64, error) {
	start := time.Now()
	result, execErr := tx.Exec(ctx, sqlQuery)
	cs.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if execErr != nil {
		cs.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(circulation.ErrCommittingChangesFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		cs.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(circulation.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// rollback safely rolls back a transaction; after a successful commit this is a no-op.
func (cs *CirculationStore) rollback(ctx context.Context, tx adapters.DBTx) {
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil &&
		!errors.Is(rollbackErr, sql.ErrTxDone) && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		cs.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
	}
}

// closeRows safely closes database rows and logs any errors.
func (cs *CirculationStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		cs.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// recordLoadError records metrics for a failed load.
func (cs *CirculationStore) recordLoadError(ctx context.Context, err error, duration time.Duration) {
	cs.recordDurationMetricsContext(ctx, metricLoadDuration, duration, operationLoad, statusError)
	cs.recordErrorMetricsContext(ctx, operationLoad, errorTypeFor(err))
}

// errorTypeFor maps an error to its metrics label.
func errorTypeFor(err error) string {
	switch {
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return errorTypeConcurrency
	case errors.Is(err, circulation.ErrItemNotFound),
		errors.Is(err, circulation.ErrLoanNotFound),
		errors.Is(err, circulation.ErrReservationNotFound):
		return errorTypeNotFound
	default:
		return errorTypeDatabase
	}
}

// formatMilliseconds formats a duration for span attributes.
func formatMilliseconds(duration time.Duration) string {
	return fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6)
}
