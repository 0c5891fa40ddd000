package service_test

import (
	"context"
	"testing"

	"tenders/db"
	"tenders/internal/service"
	"tenders/internal/store/database"
	"tenders/internal/testutil"
	"tenders/models"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	db   *db.DB
	svc  *service.Service
	seed *testutil.Seed

	org      *models.Organization // организация заказчика
	owner    *models.Employee     // ответственный за org
	outsider *models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbx := testutil.OpenDB(t)
	s := database.New()
	f := &fixture{
		db:   dbx,
		svc:  service.New(dbx, s),
		seed: testutil.NewSeed(t, dbx, s),
	}
	f.org = f.seed.Organization("Customer")
	f.owner = f.seed.Employee("owner")
	f.outsider = f.seed.Employee("outsider")
	f.seed.Responsible(f.org, f.owner)
	return f
}

func (f *fixture) tender(t *testing.T, status models.TenderStatus) *models.TenderSnapshot {
	t.Helper()
	ctx := context.Background()

	snap, err := f.svc.CreateTender(ctx, service.CreateTenderInput{
		Name:            "Road",
		Description:     "Build a road",
		ServiceType:     models.ServiceConstruction,
		OrganizationID:  f.org.ID.String(),
		CreatorUsername: f.owner.Username,
	})
	require.NoError(t, err)

	if status != models.TenderCreated {
		snap, err = f.svc.SetTenderStatus(ctx, snap.Tender.ID.String(), f.owner.Username, status)
		require.NoError(t, err)
	}
	return snap
}

func (f *fixture) userBid(t *testing.T, tender *models.TenderSnapshot, author *models.Employee) *models.BidSnapshot {
	t.Helper()

	snap, err := f.svc.CreateBid(context.Background(), service.CreateBidInput{
		Name:        "Offer",
		Description: "Cheap and fast",
		TenderID:    tender.Tender.ID.String(),
		AuthorType:  models.AuthorUser,
		AuthorID:    author.ID.String(),
	})
	require.NoError(t, err)
	return snap
}

func ptr[T any](v T) *T { return &v }
