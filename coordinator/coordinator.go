package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/additem"
	"github.com/opencirc/circulation-engine-go/features/command/cancelreservation"
	"github.com/opencirc/circulation-engine-go/features/command/issuebook"
	"github.com/opencirc/circulation-engine-go/features/command/reservebook"
	"github.com/opencirc/circulation-engine-go/features/command/returnbook"
	"github.com/opencirc/circulation-engine-go/features/query/activeloans"
	"github.com/opencirc/circulation-engine-go/features/query/overdueloans"
	"github.com/opencirc/circulation-engine-go/features/query/pendingreservations"
	"github.com/opencirc/circulation-engine-go/features/query/queueposition"
	"github.com/opencirc/circulation-engine-go/shell"
	"github.com/opencirc/circulation-engine-go/shell/observable"
)

// ErrInvalidLoanPeriod occurs when the configured loan period is below one day.
var ErrInvalidLoanPeriod = errors.New("loan period must be at least one day")

// ErrNegativeFineRate occurs when the configured fine rate is below zero.
var ErrNegativeFineRate = errors.New("fine per day must not be negative")

// CirculationCoordinator is the façade over the circulation feature slices.
// All commands run against the same store with optimistic concurrency, so one
// coordinator instance is safe for concurrent use.
type CirculationCoordinator struct {
	store          circulation.Store
	loanPeriodDays int
	finePerDay     float64

	addItem           shell.CoreCommandHandler[additem.Command]
	issueBook         shell.CoreCommandHandler[issuebook.Command]
	returnBook        shell.CoreCommandHandler[returnbook.Command]
	reserveBook       shell.CoreCommandHandler[reservebook.Command]
	cancelReservation shell.CoreCommandHandler[cancelreservation.Command]

	queuePosition       queueposition.QueryHandler
	activeLoans         activeloans.QueryHandler
	overdueLoans        overdueloans.QueryHandler
	pendingReservations pendingreservations.QueryHandler
}

// config collects the cross-slice dependencies before the handlers are built.
type config struct {
	loanPeriodDays   int
	finePerDay       float64
	eventSink        shell.EventSink
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	retryOptions     []shell.RetryOption
}

// Option defines a functional option for configuring the coordinator.
type Option func(*config)

// WithLoanPeriodDays overrides the default loan period applied to IssueBook.
func WithLoanPeriodDays(days int) Option {
	return func(c *config) {
		c.loanPeriodDays = days
	}
}

// WithFinePerDay overrides the default fine rate applied to ReturnBook and OverdueLoans.
func WithFinePerDay(rate float64) Option {
	return func(c *config) {
		c.finePerDay = rate
	}
}

// WithEventSink sets the sink receiving domain events after successful commits.
func WithEventSink(sink shell.EventSink) Option {
	return func(c *config) {
		c.eventSink = sink
	}
}

// WithLogger sets the basic logger shared by all handlers.
func WithLogger(logger shell.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithContextualLogger sets the contextual logger shared by all handlers.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(c *config) {
		c.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector shared by all handlers.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *config) {
		c.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector shared by all handlers.
func WithTracing(collector shell.TracingCollector) Option {
	return func(c *config) {
		c.tracingCollector = collector
	}
}

// WithRetryOptions sets a custom retry configuration for all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(c *config) {
		c.retryOptions = opts
	}
}

// New creates a coordinator wired against the provided store and holder directory.
func New(store circulation.Store, holders circulation.HolderDirectory, opts ...Option) (*CirculationCoordinator, error) {
	cfg := config{
		loanPeriodDays: issuebook.DefaultLoanPeriodDays,
		finePerDay:     core.DefaultFinePerDay,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.loanPeriodDays < 1 {
		return nil, ErrInvalidLoanPeriod
	}

	if cfg.finePerDay < 0 {
		return nil, ErrNegativeFineRate
	}

	coordinator := &CirculationCoordinator{
		store:          store,
		loanPeriodDays: cfg.loanPeriodDays,
		finePerDay:     cfg.finePerDay,
	}

	if err := coordinator.buildCommandHandlers(store, holders, cfg); err != nil {
		return nil, err
	}

	coordinator.buildQueryHandlers(store, cfg)

	return coordinator, nil
}

// buildCommandHandlers constructs the command slices and wraps each in the
// observability decorator.
func (c *CirculationCoordinator) buildCommandHandlers(
	store circulation.Store,
	holders circulation.HolderDirectory,
	cfg config,
) error {
	addItemHandler := additem.NewCommandHandler(store,
		additem.WithEventSink(cfg.eventSink),
		additem.WithLogger(cfg.logger),
		additem.WithContextualLogger(cfg.contextualLogger),
	)

	issueHandler := issuebook.NewCommandHandler(store, holders,
		issuebook.WithEventSink(cfg.eventSink),
		issuebook.WithLogger(cfg.logger),
		issuebook.WithContextualLogger(cfg.contextualLogger),
		issuebook.WithRetryOptions(cfg.retryOptions...),
	)

	returnHandler := returnbook.NewCommandHandler(store,
		returnbook.WithEventSink(cfg.eventSink),
		returnbook.WithLogger(cfg.logger),
		returnbook.WithContextualLogger(cfg.contextualLogger),
		returnbook.WithRetryOptions(cfg.retryOptions...),
	)

	reserveHandler := reservebook.NewCommandHandler(store, holders,
		reservebook.WithEventSink(cfg.eventSink),
		reservebook.WithLogger(cfg.logger),
		reservebook.WithContextualLogger(cfg.contextualLogger),
		reservebook.WithRetryOptions(cfg.retryOptions...),
	)

	cancelHandler := cancelreservation.NewCommandHandler(store,
		cancelreservation.WithEventSink(cfg.eventSink),
		cancelreservation.WithLogger(cfg.logger),
		cancelreservation.WithContextualLogger(cfg.contextualLogger),
		cancelreservation.WithRetryOptions(cfg.retryOptions...),
	)

	wrappedAddItem, err := observable.NewCommandWrapper[additem.Command](addItemHandler,
		observable.WithCommandMetrics[additem.Command](cfg.metricsCollector),
		observable.WithCommandTracing[additem.Command](cfg.tracingCollector),
		observable.WithCommandLogging[additem.Command](cfg.logger),
		observable.WithCommandContextualLogging[additem.Command](cfg.contextualLogger),
	)
	if err != nil {
		return err
	}

	wrappedIssue, err := observable.NewCommandWrapper[issuebook.Command](issueHandler,
		observable.WithCommandMetrics[issuebook.Command](cfg.metricsCollector),
		observable.WithCommandTracing[issuebook.Command](cfg.tracingCollector),
		observable.WithCommandLogging[issuebook.Command](cfg.logger),
		observable.WithCommandContextualLogging[issuebook.Command](cfg.contextualLogger),
	)
	if err != nil {
		return err
	}

	wrappedReturn, err := observable.NewCommandWrapper[returnbook.Command](returnHandler,
		observable.WithCommandMetrics[returnbook.Command](cfg.metricsCollector),
		observable.WithCommandTracing[returnbook.Command](cfg.tracingCollector),
		observable.WithCommandLogging[returnbook.Command](cfg.logger),
		observable.WithCommandContextualLogging[returnbook.Command](cfg.contextualLogger),
	)
	if err != nil {
		return err
	}

	wrappedReserve, err := observable.NewCommandWrapper[reservebook.Command](reserveHandler,
		observable.WithCommandMetrics[reservebook.Command](cfg.metricsCollector),
		observable.WithCommandTracing[reservebook.Command](cfg.tracingCollector),
		observable.WithCommandLogging[reservebook.Command](cfg.logger),
		observable.WithCommandContextualLogging[reservebook.Command](cfg.contextualLogger),
	)
	if err != nil {
		return err
	}

	wrappedCancel, err := observable.NewCommandWrapper[cancelreservation.Command](cancelHandler,
		observable.WithCommandMetrics[cancelreservation.Command](cfg.metricsCollector),
		observable.WithCommandTracing[cancelreservation.Command](cfg.tracingCollector),
		observable.WithCommandLogging[cancelreservation.Command](cfg.logger),
		observable.WithCommandContextualLogging[cancelreservation.Command](cfg.contextualLogger),
	)
	if err != nil {
		return err
	}

	c.addItem = wrappedAddItem
	c.issueBook = wrappedIssue
	c.returnBook = wrappedReturn
	c.reserveBook = wrappedReserve
	c.cancelReservation = wrappedCancel

	return nil
}

// buildQueryHandlers constructs the read view slices; they carry their own
// observability instrumentation.
func (c *CirculationCoordinator) buildQueryHandlers(store circulation.Store, cfg config) {
	c.queuePosition = queueposition.NewQueryHandler(store,
		queueposition.WithMetrics(cfg.metricsCollector),
		queueposition.WithTracing(cfg.tracingCollector),
		queueposition.WithLogging(cfg.logger),
		queueposition.WithContextualLogging(cfg.contextualLogger),
	)

	c.activeLoans = activeloans.NewQueryHandler(store,
		activeloans.WithMetrics(cfg.metricsCollector),
		activeloans.WithTracing(cfg.tracingCollector),
		activeloans.WithLogging(cfg.logger),
		activeloans.WithContextualLogging(cfg.contextualLogger),
	)

	c.overdueLoans = overdueloans.NewQueryHandler(store,
		overdueloans.WithMetrics(cfg.metricsCollector),
		overdueloans.WithTracing(cfg.tracingCollector),
		overdueloans.WithLogging(cfg.logger),
		overdueloans.WithContextualLogging(cfg.contextualLogger),
	)

	c.pendingReservations = pendingreservations.NewQueryHandler(store,
		pendingreservations.WithMetrics(cfg.metricsCollector),
		pendingreservations.WithTracing(cfg.tracingCollector),
		pendingreservations.WithLogging(cfg.logger),
		pendingreservations.WithContextualLogging(cfg.contextualLogger),
	)
}

// AddItem catalogues a new item with the given copy count.
func (c *CirculationCoordinator) AddItem(
	ctx context.Context,
	itemID uuid.UUID,
	title string,
	author string,
	isbn string,
	totalCopies int,
) error {
	command := additem.BuildCommand(itemID, title, author, isbn, totalCopies, time.Now())

	_, err := c.addItem.Handle(ctx, command)

	return err
}

// IssueBook lends one copy of the item to the holder and returns the created loan.
func (c *CirculationCoordinator) IssueBook(
	ctx context.Context,
	itemID uuid.UUID,
	holderID uuid.UUID,
) (circulation.Loan, error) {
	return c.IssueBookWithLoanPeriod(ctx, itemID, holderID, c.loanPeriodDays)
}

// IssueBookWithLoanPeriod lends one copy of the item to the holder with a loan
// period that differs from the configured default.
func (c *CirculationCoordinator) IssueBookWithLoanPeriod(
	ctx context.Context,
	itemID uuid.UUID,
	holderID uuid.UUID,
	loanPeriodDays int,
) (circulation.Loan, error) {
	if loanPeriodDays < 1 {
		return circulation.Loan{}, ErrInvalidLoanPeriod
	}

	command := issuebook.BuildCommand(itemID, holderID, loanPeriodDays, time.Now())

	if _, err := c.issueBook.Handle(ctx, command); err != nil {
		return circulation.Loan{}, err
	}

	return c.store.GetLoan(ctx, command.LoanID)
}

// ReturnBook closes the loan, restores availability, and returns the fine charged.
func (c *CirculationCoordinator) ReturnBook(ctx context.Context, loanID uuid.UUID) (float64, error) {
	command := returnbook.BuildCommand(loanID, c.finePerDay, time.Now())

	return c.handleReturn(ctx, command)
}

// ReturnBookWithFineOverride closes the loan charging the given fine instead of
// the calculated one.
func (c *CirculationCoordinator) ReturnBookWithFineOverride(
	ctx context.Context,
	loanID uuid.UUID,
	fineAmount float64,
) (float64, error) {
	command := returnbook.BuildCommandWithFineOverride(loanID, fineAmount, time.Now())

	return c.handleReturn(ctx, command)
}

func (c *CirculationCoordinator) handleReturn(ctx context.Context, command returnbook.Command) (float64, error) {
	if _, err := c.returnBook.Handle(ctx, command); err != nil {
		return 0, err
	}

	loan, err := c.store.GetLoan(ctx, command.LoanID)
	if err != nil {
		return 0, err
	}

	return loan.FineAmount, nil
}

// ReserveBook queues the holder for the item and returns the created reservation.
func (c *CirculationCoordinator) ReserveBook(
	ctx context.Context,
	itemID uuid.UUID,
	holderID uuid.UUID,
) (circulation.Reservation, error) {
	command := reservebook.BuildCommand(itemID, holderID, time.Now())

	if _, err := c.reserveBook.Handle(ctx, command); err != nil {
		return circulation.Reservation{}, err
	}

	return c.store.GetReservation(ctx, command.ReservationID)
}

// CancelReservation removes a pending reservation from its queue.
func (c *CirculationCoordinator) CancelReservation(ctx context.Context, reservationID uuid.UUID) error {
	command := cancelreservation.BuildCommand(reservationID, time.Now())

	_, err := c.cancelReservation.Handle(ctx, command)

	return err
}

// QueuePosition reports where the holder stands in the item's reservation queue.
func (c *CirculationCoordinator) QueuePosition(
	ctx context.Context,
	itemID uuid.UUID,
	holderID uuid.UUID,
) (queueposition.QueuePosition, error) {
	return c.queuePosition.Handle(ctx, queueposition.BuildQuery(itemID, holderID))
}

// ActiveLoansByItem lists the loans currently out for one item.
func (c *CirculationCoordinator) ActiveLoansByItem(ctx context.Context, itemID uuid.UUID) (activeloans.ActiveLoans, error) {
	return c.activeLoans.Handle(ctx, activeloans.BuildQueryForItem(itemID))
}

// ActiveLoansByHolder lists the loans one holder currently has out.
func (c *CirculationCoordinator) ActiveLoansByHolder(ctx context.Context, holderID uuid.UUID) (activeloans.ActiveLoans, error) {
	return c.activeLoans.Handle(ctx, activeloans.BuildQueryForHolder(holderID))
}

// OverdueLoans lists active loans past due as of the reference time.
func (c *CirculationCoordinator) OverdueLoans(ctx context.Context, asOf time.Time) (overdueloans.OverdueLoans, error) {
	return c.overdueLoans.Handle(ctx, overdueloans.BuildQueryWithFineRate(asOf, c.finePerDay))
}

// PendingReservationsByItem lists the reservation queue of one item.
func (c *CirculationCoordinator) PendingReservationsByItem(
	ctx context.Context,
	itemID uuid.UUID,
) (pendingreservations.PendingReservations, error) {
	return c.pendingReservations.Handle(ctx, pendingreservations.BuildQueryForItem(itemID))
}

// PendingReservationsByHolder lists every queue one holder waits in.
func (c *CirculationCoordinator) PendingReservationsByHolder(
	ctx context.Context,
	holderID uuid.UUID,
) (pendingreservations.PendingReservations, error) {
	return c.pendingReservations.Handle(ctx, pendingreservations.BuildQueryForHolder(holderID))
}
