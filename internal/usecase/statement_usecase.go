package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/bonusledger/internal/domain"
)

// StatementUseCase builds date-ranged money statements.
type StatementUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	renderer    StatementRenderer
	pageSize    int
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	renderer StatementRenderer,
	pageSize int,
	opts ...Option,
) *StatementUseCase {
	if pageSize <= 0 {
		pageSize = DefaultStatementPageSize
	}
	return &StatementUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		renderer:    renderer,
		pageSize:    pageSize,
	}
}

// StatementInput selects an account and an inclusive range of dd.mm.yyyy dates.
type StatementInput struct {
	AccountID string
	StartDate string
	EndDate   string
}

// RenderStatementInput selects a statement and how to render it.
type RenderStatementInput struct {
	StatementInput

	// Locale defaults to the account's locale.
	Locale   string
	PageSize int
}

// Generate parses the range and builds the statement.
func (uc *StatementUseCase) Generate(ctx context.Context, input StatementInput) (*domain.Statement, error) {
	start, err := domain.ParseDate(input.StartDate, uc.location)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(input.EndDate, uc.location)
	if err != nil {
		return nil, err
	}

	statement, _, err := uc.generate(ctx, input.AccountID, start, end)
	return statement, err
}

// Render builds the statement and hands it to the renderer.
func (uc *StatementUseCase) Render(ctx context.Context, input RenderStatementInput) (*domain.Statement, *domain.Document, error) {
	start, err := domain.ParseDate(input.StartDate, uc.location)
	if err != nil {
		return nil, nil, err
	}
	end, err := domain.ParseDate(input.EndDate, uc.location)
	if err != nil {
		return nil, nil, err
	}

	statement, account, err := uc.generate(ctx, input.AccountID, start, end)
	if err != nil {
		return nil, nil, err
	}

	if uc.renderer == nil {
		return nil, nil, fmt.Errorf("statement renderer is not configured")
	}

	locale := input.Locale
	if locale == "" {
		locale = account.Locale
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = uc.pageSize
	}

	doc, err := uc.renderer.Render(ctx, statement, domain.NormalizeLocale(locale), pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("render statement: %w", err)
	}

	return statement, doc, nil
}

func (uc *StatementUseCase) generate(ctx context.Context, accountID string, start, end time.Time) (*domain.Statement, *domain.Account, error) {
	started := time.Now()
	defer uc.recordDuration("statement", started)

	start = domain.Day(start, uc.location)
	end = domain.Day(end, uc.location)
	if start.After(end) {
		return nil, nil, domain.ErrInvalidRange
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.BeginReadOnly(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByID(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.ListByAccount(ctx, tx, accountID, domain.KindMoney)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return buildStatement(account.ID, entries, start, end, uc.location), account, nil
}

// buildStatement summarizes entries (in creation order) whose local calendar
// day falls in [start, end]. The opening balance is the pre-entry snapshot of
// the first such entry, or zero when the range holds no entries.
func buildStatement(accountID string, entries []*domain.Entry, start, end time.Time, loc *time.Location) *domain.Statement {
	statement := &domain.Statement{
		AccountID: accountID,
		StartDate: start,
		EndDate:   end,
		Rows:      []domain.StatementRow{},
	}

	byDay := make(map[string]int)
	for _, e := range entries {
		day := domain.Day(e.CreatedAt, loc)
		if day.Before(start) || day.After(end) {
			continue
		}

		if len(statement.Rows) == 0 {
			statement.OpeningBalance = e.OldBalance
		}

		i, ok := byDay[domain.FormatDate(day)]
		if !ok {
			statement.Rows = append(statement.Rows, domain.StatementRow{
				Date:           day,
				OpeningBalance: e.OldBalance,
			})
			i = len(statement.Rows) - 1
			byDay[domain.FormatDate(day)] = i
		}

		row := &statement.Rows[i]
		if e.Amount >= 0 {
			row.Additions += e.Amount
			statement.TotalAdditions += e.Amount
		} else {
			row.Removals -= e.Amount
			statement.TotalRemovals -= e.Amount
		}
	}

	sortRows(statement.Rows)

	statement.ClosingBalance = statement.OpeningBalance + statement.TotalAdditions - statement.TotalRemovals
	return statement
}

func sortRows(rows []domain.StatementRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}
