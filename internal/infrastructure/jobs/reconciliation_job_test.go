package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"hive-economy.backend/internal/domain/entities"
)

type accountRepoStub struct {
	accounts []*entities.Account
	listErr  error
}

func (s *accountRepoStub) Create(context.Context, *entities.Account) error { return nil }

func (s *accountRepoStub) GetByUserID(_ context.Context, userID uuid.UUID) (*entities.Account, error) {
	for _, a := range s.accounts {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *accountRepoStub) Debit(context.Context, uuid.UUID, entities.CreditType, int64) error {
	return nil
}

func (s *accountRepoStub) Credit(context.Context, uuid.UUID, entities.CreditType, int64) error {
	return nil
}

func (s *accountRepoStub) ListIDs(_ context.Context, limit, offset int) ([]uuid.UUID, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if offset >= len(s.accounts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.accounts) {
		end = len(s.accounts)
	}
	var ids []uuid.UUID
	for _, a := range s.accounts[offset:end] {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

type ledgerSumStub struct {
	sums  map[uuid.UUID]map[entities.CreditType]int64
	calls int
}

func (s *ledgerSumStub) SumCompletedForUser(_ context.Context, userID uuid.UUID, creditType entities.CreditType) (int64, error) {
	s.calls++
	if byType, ok := s.sums[userID]; ok {
		return byType[creditType], nil
	}
	return 0, nil
}

func (s *ledgerSumStub) Create(context.Context, *entities.LedgerEntry) error { return nil }
func (s *ledgerSumStub) GetByID(context.Context, uuid.UUID) (*entities.LedgerEntry, error) {
	return nil, errors.New("not found")
}
func (s *ledgerSumStub) GetHistory(context.Context, uuid.UUID, int, int) ([]*entities.LedgerEntry, int64, error) {
	return nil, 0, nil
}
func (s *ledgerSumStub) MarkReversed(context.Context, uuid.UUID) error { return nil }
func (s *ledgerSumStub) CountCompletedSince(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}
func (s *ledgerSumStub) CountActiveUsersSince(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func TestReconciliationSweepChecksEveryAccount(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	accounts := &accountRepoStub{accounts: []*entities.Account{
		{UserID: a, KarmaBalance: 100, CashBalance: 0},
		{UserID: b, KarmaBalance: 50, CashBalance: 20},
	}}
	ledger := &ledgerSumStub{sums: map[uuid.UUID]map[entities.CreditType]int64{
		a: {entities.CreditTypeKarma: 100, entities.CreditTypeCash: 0},
		b: {entities.CreditTypeKarma: 50, entities.CreditTypeCash: 20},
	}}

	job := &ReconciliationJob{
		accountRepo: accounts,
		ledgerRepo:  ledger,
		interval:    time.Millisecond,
		batchSize:   1,
		stop:        make(chan struct{}),
	}
	job.sweep(context.Background())

	// Two credit types per account, paged one account at a time.
	require.Equal(t, 4, ledger.calls)
}

func TestReconciliationSweepListError(t *testing.T) {
	accounts := &accountRepoStub{listErr: errors.New("db down")}
	ledger := &ledgerSumStub{}

	job := &ReconciliationJob{
		accountRepo: accounts,
		ledgerRepo:  ledger,
		interval:    time.Millisecond,
		batchSize:   10,
		stop:        make(chan struct{}),
	}
	job.sweep(context.Background())
	require.Zero(t, ledger.calls)
}

func TestReconciliationStartStop(t *testing.T) {
	job := &ReconciliationJob{
		accountRepo: &accountRepoStub{},
		ledgerRepo:  &ledgerSumStub{},
		interval:    time.Millisecond,
		batchSize:   10,
		stop:        make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on context cancel")
	}
}

func TestReconciliationStopChannel(t *testing.T) {
	job := &ReconciliationJob{
		accountRepo: &accountRepoStub{},
		ledgerRepo:  &ledgerSumStub{},
		interval:    time.Millisecond,
		batchSize:   10,
		stop:        make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on Stop()")
	}
}
