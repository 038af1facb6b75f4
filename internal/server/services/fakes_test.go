package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/dvi/internal/dbx"
	"github.com/dmitrijs2005/dvi/internal/models"
	smodels "github.com/dmitrijs2005/dvi/internal/server/models"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/companies"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/inspections"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/lineitems"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/mechanics"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/workorders"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeMechanicsRepo struct {
	out *smodels.Mechanic
	err error

	created   []smodels.Mechanic
	createErr error

	byCompany map[int64][]models.MechanicInfo
	listErr   error
}

func (f *fakeMechanicsRepo) Create(ctx context.Context, m *smodels.Mechanic) (*smodels.Mechanic, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	m.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *m)
	return m, nil
}

func (f *fakeMechanicsRepo) GetByID(ctx context.Context, id int64) (*smodels.Mechanic, error) {
	return f.out, f.err
}

func (f *fakeMechanicsRepo) ListByCompany(ctx context.Context, companyID int64) ([]models.MechanicInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.MechanicInfo{}
	return append(out, f.byCompany[companyID]...), nil
}

type fakeWorkOrdersRepo struct {
	out []models.WorkOrder
	err error

	asked []int64
}

func (f *fakeWorkOrdersRepo) ListOpenByMechanic(ctx context.Context, mechanicID int64) ([]models.WorkOrder, error) {
	f.asked = append(f.asked, mechanicID)
	return f.out, f.err
}

type fakeCompaniesRepo struct {
	out []models.Company
	err error
}

func (f *fakeCompaniesRepo) List(ctx context.Context) ([]models.Company, error) {
	return f.out, f.err
}

type fakeLineItemsRepo struct {
	out []models.LineItem
	err error
}

func (f *fakeLineItemsRepo) ListByOrder(ctx context.Context, orderID int64) ([]models.LineItem, error) {
	return f.out, f.err
}

type fakeInspectionsRepo struct {
	duplicate bool
	createErr error
	resultErr error

	created []models.Submission
	results []models.InspectionResult
}

func (f *fakeInspectionsRepo) CreateSubmission(ctx context.Context, s *models.Submission) (int64, bool, error) {
	if f.createErr != nil {
		return 0, false, f.createErr
	}
	if f.duplicate {
		return 0, false, nil
	}
	f.created = append(f.created, *s)
	return int64(len(f.created)), true, nil
}

func (f *fakeInspectionsRepo) AddResult(ctx context.Context, pk, orderID int64, r *models.InspectionResult) error {
	if f.resultErr != nil {
		return f.resultErr
	}
	f.results = append(f.results, *r)
	return nil
}

type fakeRepoManager struct {
	mechanics   *fakeMechanicsRepo
	lineItems   *fakeLineItemsRepo
	inspections *fakeInspectionsRepo
	workOrders  *fakeWorkOrdersRepo
	companies   *fakeCompaniesRepo
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Mechanics(dbx.DBTX) mechanics.Repository { return f.mechanics }

func (f *fakeRepoManager) LineItems(dbx.DBTX) lineitems.Repository { return f.lineItems }

func (f *fakeRepoManager) Inspections(dbx.DBTX) inspections.Repository { return f.inspections }

func (f *fakeRepoManager) WorkOrders(dbx.DBTX) workorders.Repository { return f.workOrders }

func (f *fakeRepoManager) Companies(dbx.DBTX) companies.Repository { return f.companies }
