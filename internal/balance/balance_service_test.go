package balance_test

import (
	"context"
	"testing"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/bootstrap"
	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type captureAudit struct {
	entries []bootstrap.AuditLog
}

func (c *captureAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	c.entries = append(c.entries, entry)
}

func ptr(v float64) *float64 { return &v }

type allowList map[domain.Role][]domain.Permission

func (a allowList) Can(role domain.Role, perm domain.Permission) bool {
	for _, p := range a[role] {
		if p == perm {
			return true
		}
	}
	return false
}

var (
	testAuthz = allowList{
		domain.RoleEmployee: {domain.PermBalanceRead},
		domain.RoleManager:  {domain.PermBalanceRead},
		domain.RoleHR:       {domain.PermBalanceRead, domain.PermBalanceReadAll, domain.PermBalanceOverride},
	}

	hrActor       = domain.Principal{UserID: uuid.NewString(), Username: "hr", Role: domain.RoleHR}
	managerActor  = domain.Principal{UserID: uuid.NewString(), Username: "mgr", Role: domain.RoleManager}
	employeeActor = domain.Principal{UserID: uuid.NewString(), Username: "emp", Role: domain.RoleEmployee}
)

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestBalanceService_SetAbsolute(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, row *balance.LeaveBalance) (balance.Service, sqlmock.Sqlmock, *captureAudit) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		repo := rowRepo(row)
		repo.findByIDFn = func(context.Context, string) (*balance.LeaveBalance, error) {
			copied := *row
			return &copied, nil
		}
		audit := &captureAudit{}
		return balance.NewService(db, repo, balance.NewLedger(repo, nil), testAuthz, audit), mock, audit
	}

	t.Run("derives used from remaining", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Used: 3, Remaining: 7}
		svc, mock, audit := newService(t, row)
		expectTx(t, mock, true)

		resp, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), balance.SetBalanceRequest{Remaining: ptr(4)})

		assert.NoError(t, err)
		assert.Equal(t, float64(10), resp.Allocated)
		assert.Equal(t, float64(6), resp.Used)
		assert.Equal(t, float64(4), resp.Remaining)
		assert.Equal(t, float64(6), row.Used)
		assert.Len(t, audit.entries, 1)
		assert.Equal(t, balance.AuditActionBalanceOverride, audit.entries[0].Action)
		assert.Equal(t, hrActor.UserID, audit.entries[0].ActorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("new allocation", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Used: 3, Remaining: 7}
		svc, mock, _ := newService(t, row)
		expectTx(t, mock, true)

		resp, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), balance.SetBalanceRequest{Remaining: ptr(12), Allocated: ptr(15)})

		assert.NoError(t, err)
		assert.Equal(t, float64(3), resp.Used)
		assert.Equal(t, resp.Allocated, resp.Remaining+resp.Used)
	})

	t.Run("remaining above allocated", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Remaining: 10}
		svc, mock, audit := newService(t, row)
		expectTx(t, mock, false)

		_, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), balance.SetBalanceRequest{Remaining: ptr(11)})

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidBalanceValues)
		assert.Equal(t, float64(10), row.Remaining)
		assert.Empty(t, audit.entries)
	})

	t.Run("negative remaining", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Remaining: 10}
		svc, mock, _ := newService(t, row)
		expectTx(t, mock, false)

		_, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), balance.SetBalanceRequest{Remaining: ptr(-1)})

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidBalanceValues)
	})

	t.Run("values off the tenths grid are refused", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Used: 0, Remaining: 10}
		svc, mock, audit := newService(t, row)

		for _, req := range []balance.SetBalanceRequest{
			{Remaining: ptr(2.35)},
			{Remaining: ptr(2), Allocated: ptr(10.05)},
			{Remaining: ptr(100000)},
		} {
			_, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), req)
			assert.ErrorIs(t, err, balanceerrors.ErrInvalidBalanceValues)
		}

		assert.Equal(t, float64(10), row.Remaining)
		assert.Empty(t, audit.entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tenths keep the columns consistent", func(t *testing.T) {
		row := &balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Used: 0, Remaining: 10}
		svc, mock, _ := newService(t, row)
		expectTx(t, mock, true)

		resp, err := svc.SetAbsolute(ctx, hrActor, row.ID.String(), balance.SetBalanceRequest{Remaining: ptr(2.4), Allocated: ptr(10.3)})

		assert.NoError(t, err)
		assert.Equal(t, 2.4, resp.Remaining)
		assert.Equal(t, 7.9, resp.Used)
		assert.Equal(t, 10.3, resp.Allocated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		svc, _, _ := newService(t, &balance.LeaveBalance{})

		_, err := svc.SetAbsolute(ctx, hrActor, "nope", balance.SetBalanceRequest{Remaining: ptr(1)})

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidBalanceID)
	})
}

func TestBalanceService_List(t *testing.T) {
	ctx := context.Background()
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	var gotFilter balance.ListFilter
	repo := &fakeBalanceRepository{listFn: func(_ context.Context, filter balance.ListFilter) ([]balance.BalanceView, error) {
		gotFilter = filter
		return []balance.BalanceView{{
			LeaveBalance:  balance.LeaveBalance{ID: uuid.New(), Allocated: 10, Remaining: 10},
			LeaveTypeName: "Annual Leave",
			TracksBalance: true,
		}}, nil
	}}
	svc := balance.NewService(db, repo, balance.NewLedger(repo, nil), testAuthz, &captureAudit{})

	t.Run("employee sees own rows", func(t *testing.T) {
		resp, err := svc.List(ctx, employeeActor, balance.ListBalancesQuery{})

		assert.NoError(t, err)
		assert.Equal(t, employeeActor.UserID, gotFilter.UserID)
		assert.Equal(t, "Annual Leave", resp[0].LeaveTypeName)
	})

	t.Run("employee cannot read another user", func(t *testing.T) {
		_, err := svc.List(ctx, employeeActor, balance.ListBalancesQuery{UserID: uuid.NewString()})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("hr sees everyone", func(t *testing.T) {
		_, err := svc.List(ctx, hrActor, balance.ListBalancesQuery{Year: 2026})

		assert.NoError(t, err)
		assert.Equal(t, "", gotFilter.UserID)
		assert.Equal(t, 2026, gotFilter.Year)
	})

	t.Run("a role granted read_all sees other users", func(t *testing.T) {
		_, err := svc.List(ctx, managerActor, balance.ListBalancesQuery{UserID: uuid.NewString()})
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		grants := allowList{domain.RoleManager: {domain.PermBalanceRead, domain.PermBalanceReadAll}}
		other := uuid.NewString()
		_, err = balance.NewService(db, repo, balance.NewLedger(repo, nil), grants, &captureAudit{}).
			List(ctx, managerActor, balance.ListBalancesQuery{UserID: other})

		assert.NoError(t, err)
		assert.Equal(t, other, gotFilter.UserID)
	})
}

func TestBalanceService_InitializeForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates rows in one tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeBalanceRepository{initializeFn: func(context.Context, string, int) (int64, error) { return 4, nil }}
		svc := balance.NewService(db, repo, balance.NewLedger(repo, nil), testAuthz, &captureAudit{})
		expectTx(t, mock, true)

		resp, err := svc.InitializeForUser(ctx, hrActor, uuid.NewString())

		assert.NoError(t, err)
		assert.Equal(t, int64(4), resp.Created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeBalanceRepository{initializeFn: func(context.Context, string, int) (int64, error) {
			return 0, &pgconn.PgError{Code: "23503"}
		}}
		svc := balance.NewService(db, repo, balance.NewLedger(repo, nil), testAuthz, &captureAudit{})
		expectTx(t, mock, false)

		_, err = svc.InitializeForUser(ctx, hrActor, uuid.NewString())

		assert.ErrorIs(t, err, balanceerrors.ErrUserNotFound)
	})
}
