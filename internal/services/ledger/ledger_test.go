package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/school-fees/internal/cache"
	"github.com/magabrotheeeer/school-fees/internal/fees"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

type FeeRepoMock struct {
	mock.Mock
}

func (m *FeeRepoMock) ListFees(ctx context.Context, schoolID string) ([]models.FeeRecord, error) {
	args := m.Called(ctx, schoolID)
	records, _ := args.Get(0).([]models.FeeRecord)
	return records, args.Error(1)
}

func (m *FeeRepoMock) UpdateFee(ctx context.Context, recordID string, fields map[string]any) error {
	args := m.Called(ctx, recordID, fields)
	return args.Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishPayment(ctx context.Context, event models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sampleRecords() []models.FeeRecord {
	return []models.FeeRecord{
		{ID: "r1", ParentName: "ParentA", ParentContact: "a", ParentEmail: "a@x.com", Students: []string{"Kid One"},
			AmountDue: 100, AmountPaid: 100, Balance: 0, Status: models.StatusPaid},
		{ID: "r2", ParentName: "ParentA", ParentContact: "a", ParentEmail: "a@x.com", Students: []string{"Kid Two", "Kid One"},
			AmountDue: 200, AmountPaid: 50, Balance: 150, Status: models.StatusPartial},
		{ID: "r3", ParentName: "ParentB", ParentContact: "b", ParentEmail: "b@x.com", Students: []string{"Kid Three"},
			AmountDue: 300, AmountPaid: 300, Balance: 0, Status: models.StatusPaid},
	}
}

type fixture struct {
	repo  *FeeRepoMock
	pub   *PublisherMock
	cache *cache.Memory
	svc   *LedgerService
	now   time.Time
}

func newFixture(writeAll bool) *fixture {
	f := &fixture{
		repo:  new(FeeRepoMock),
		pub:   new(PublisherMock),
		cache: cache.NewMemory(),
		now:   time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewLedgerService(f.repo, f.cache, f.pub, newNoopLogger(), Options{
		CacheTTL:           5 * time.Minute,
		Thresholds:         fees.Thresholds{OutstandingAlert: 100, ParentsAlert: 5, CollectedTarget: 80},
		WriteDerivedFields: writeAll,
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestLedgerService_RecordsUsesCacheUntilStale(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Twice()

	first, err := f.svc.Records(context.Background(), "S001")
	require.NoError(t, err)
	assert.Len(t, first, 3)

	f.now = f.now.Add(4 * time.Minute)
	second, err := f.svc.Records(context.Background(), "S001")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	f.repo.AssertNumberOfCalls(t, "ListFees", 1)

	f.now = f.now.Add(time.Minute)
	_, err = f.svc.Records(context.Background(), "S001")
	require.NoError(t, err)
	f.repo.AssertNumberOfCalls(t, "ListFees", 2)
}

func TestLedgerService_RecordsScopedBySchool(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()
	f.repo.On("ListFees", mock.Anything, "S002").Return([]models.FeeRecord{}, nil).Once()

	a, err := f.svc.Records(context.Background(), "S001")
	require.NoError(t, err)
	b, err := f.svc.Records(context.Background(), "S002")
	require.NoError(t, err)

	assert.Len(t, a, 3)
	assert.Empty(t, b)
	f.repo.AssertExpectations(t)
}

func TestLedgerService_RecordsStoreError(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(nil, errors.New("store unreachable")).Twice()

	_, err := f.svc.Records(context.Background(), "S001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")

	// неудачная загрузка не кэшируется: следующий запрос снова идёт в хранилище
	_, err = f.svc.Dashboard(context.Background(), "S001")
	assert.Error(t, err)
	f.repo.AssertExpectations(t)
}

func TestLedgerService_Views(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()
	ctx := context.Background()

	dash, err := f.svc.Dashboard(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, "S001", dash.SchoolID)
	assert.Equal(t, models.Summary{TotalOutstanding: 150, ParentCount: 1, TotalDue: 600, PercentCollected: 75}, dash.Summary)
	require.Len(t, dash.KPIs, 3)
	assert.Equal(t, models.LevelRed, dash.KPIs[0].Level)

	parents, err := f.svc.ParentBalances(ctx, "S001")
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, 150.0, parents[0].BalanceDue)

	names, err := f.svc.Parents(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, []string{"ParentA", "ParentB"}, names)

	students, err := f.svc.Students(ctx, "S001", "ParentA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kid One", "Kid Two"}, students)

	all, err := f.svc.Export(ctx, "S001", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	unpaid, err := f.svc.Export(ctx, "S001", true)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "r2", unpaid[0].ID)

	f.repo.AssertNumberOfCalls(t, "ListFees", 1)
}

func TestLedgerService_RecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		writeAll   bool
		parent     string
		student    string
		amount     float64
		wantRecord string
		wantFields map[string]any
		wantPaid   float64
		wantStatus string
	}{
		{
			name:       "completes partial payment",
			parent:     "ParentA",
			student:    "Kid Two",
			amount:     150,
			wantRecord: "r2",
			wantFields: map[string]any{models.FieldAmountPaid: 200.0},
			wantPaid:   200,
			wantStatus: models.StatusPaid,
		},
		{
			name:       "zero amount re-derives status",
			parent:     "parenta",
			student:    "kid two",
			amount:     0,
			wantRecord: "r2",
			wantFields: map[string]any{models.FieldAmountPaid: 50.0},
			wantPaid:   50,
			wantStatus: models.StatusPartial,
		},
		{
			name:       "first matching row wins and derived fields are written",
			writeAll:   true,
			parent:     "ParentA",
			student:    "Kid One",
			amount:     10,
			wantRecord: "r1",
			wantFields: map[string]any{
				models.FieldAmountPaid: 110.0,
				models.FieldBalance:    -10.0,
				models.FieldStatus:     models.StatusPaid,
			},
			wantPaid:   110,
			wantStatus: models.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.writeAll)
			f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil)
			f.repo.On("UpdateFee", mock.Anything, tt.wantRecord, tt.wantFields).Return(nil).Once()
			f.pub.On("PublishPayment", mock.Anything, mock.MatchedBy(func(e models.PaymentEvent) bool {
				return e.SchoolID == "S001" && e.RecordID == tt.wantRecord && e.AmountPaid == tt.wantPaid
			})).Return(nil).Once()

			// прогреваем кэш, чтобы проверить его сброс после записи
			_, err := f.svc.Records(context.Background(), "S001")
			require.NoError(t, err)

			res, err := f.svc.RecordPayment(context.Background(), "S001", tt.parent, tt.student, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecord, res.RecordID)
			assert.Equal(t, tt.wantPaid, res.AmountPaid)
			assert.Equal(t, tt.wantStatus, res.Status)

			var entry cache.Entry[[]models.FeeRecord]
			found, err := f.cache.Get(cacheKey("S001"), &entry)
			require.NoError(t, err)
			assert.False(t, found)

			f.repo.AssertExpectations(t)
			f.repo.AssertNumberOfCalls(t, "UpdateFee", 1)
			f.pub.AssertExpectations(t)
		})
	}
}

func TestLedgerService_RecordPaymentNotFound(t *testing.T) {
	f := newFixture(true)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()

	res, err := f.svc.RecordPayment(context.Background(), "S001", "ParentB", "Kid One", 10)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	f.repo.AssertNotCalled(t, "UpdateFee", mock.Anything, mock.Anything, mock.Anything)
	f.pub.AssertNotCalled(t, "PublishPayment", mock.Anything, mock.Anything)
}

func TestLedgerService_RecordPaymentWriteFails(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()
	f.repo.On("UpdateFee", mock.Anything, "r2", mock.Anything).Return(errors.New("422 INVALID_VALUE")).Once()

	_, err := f.svc.RecordPayment(context.Background(), "S001", "ParentA", "Kid Two", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_VALUE")
	f.pub.AssertNotCalled(t, "PublishPayment", mock.Anything, mock.Anything)
}

func TestLedgerService_PublishFailureKeepsPayment(t *testing.T) {
	f := newFixture(false)
	f.repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()
	f.repo.On("UpdateFee", mock.Anything, "r2", mock.Anything).Return(nil).Once()
	f.pub.On("PublishPayment", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	res, err := f.svc.RecordPayment(context.Background(), "S001", "ParentA", "Kid Two", 5)
	require.NoError(t, err)
	assert.Equal(t, 55.0, res.AmountPaid)
}

func TestLedgerService_NilPublisher(t *testing.T) {
	repo := new(FeeRepoMock)
	repo.On("ListFees", mock.Anything, "S001").Return(sampleRecords(), nil).Once()
	repo.On("UpdateFee", mock.Anything, "r2", mock.Anything).Return(nil).Once()
	svc := NewLedgerService(repo, cache.NewMemory(), nil, newNoopLogger(), Options{})

	res, err := svc.RecordPayment(context.Background(), "S001", "ParentA", "Kid Two", 50)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.AmountPaid)
	assert.Equal(t, DefaultCacheTTL, svc.ttl)
}
