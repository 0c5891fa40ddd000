package service_test

import (
	"context"
	"testing"

	"tenders/internal/domain"
	"tenders/internal/service"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateTender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap := f.tender(t, models.TenderCreated)
	require.Equal(t, models.TenderCreated, snap.Tender.Status)
	require.Equal(t, f.org.ID, snap.Tender.OrganizationID)
	require.Equal(t, f.owner.ID, snap.Tender.CreatorID)
	require.Equal(t, 1, snap.Version.Version)
	require.True(t, snap.Version.Actual)
	require.False(t, snap.Tender.CreatedAt.IsZero())

	resp := snap.Response()
	require.Equal(t, "Road", resp.Name)
	require.Equal(t, models.ServiceConstruction, resp.ServiceType)

	in := service.CreateTenderInput{
		Name:            "Bridge",
		ServiceType:     models.ServiceConstruction,
		OrganizationID:  f.org.ID.String(),
		CreatorUsername: f.outsider.Username,
	}
	_, err := f.svc.CreateTender(ctx, in)
	require.ErrorIs(t, err, domain.ErrForbidden)

	in.CreatorUsername = "ghost"
	_, err = f.svc.CreateTender(ctx, in)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	in.CreatorUsername = f.owner.Username
	in.OrganizationID = "not-a-uuid"
	_, err = f.svc.CreateTender(ctx, in)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	in.OrganizationID = uuid.NewString()
	_, err = f.svc.CreateTender(ctx, in)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	in.ServiceType = "Cleaning"
	_, err = f.svc.CreateTender(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalid)
}

func TestEditTenderCarriesOverFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tender := f.tender(t, models.TenderCreated)
	id := tender.Tender.ID.String()

	snap, err := f.svc.EditTender(ctx, id, f.owner.Username, models.TenderPatch{Name: ptr("X")})
	require.NoError(t, err)
	require.Equal(t, 2, snap.Version.Version)
	require.Equal(t, "X", snap.Version.Name)
	require.Equal(t, "Build a road", snap.Version.Description)
	require.Equal(t, models.ServiceConstruction, snap.Version.ServiceType)

	_, err = f.svc.EditTender(ctx, id, f.outsider.Username, models.TenderPatch{Name: ptr("Y")})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.EditTender(ctx, id, f.owner.Username, models.TenderPatch{ServiceType: ptr(models.ServiceType("Cleaning"))})
	require.ErrorIs(t, err, domain.ErrInvalid)
}

func TestEditTenderIgnoresEmptyFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tender := f.tender(t, models.TenderCreated)
	id := tender.Tender.ID.String()

	snap, err := f.svc.EditTender(ctx, id, f.owner.Username, models.TenderPatch{
		Name:        ptr(""),
		ServiceType: ptr(models.ServiceType("")),
		Description: ptr("Build two roads"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, snap.Version.Version)
	require.Equal(t, "Road", snap.Version.Name)
	require.Equal(t, models.ServiceConstruction, snap.Version.ServiceType)
	require.Equal(t, "Build two roads", snap.Version.Description)

	bid := f.userBid(t, f.tender(t, models.TenderPublished), f.outsider)
	got, err := f.svc.EditBid(ctx, bid.Bid.ID.String(), f.outsider.Username, models.BidPatch{Name: ptr("")})
	require.NoError(t, err)
	require.Equal(t, 2, got.Version.Version)
	require.Equal(t, "Offer", got.Version.Name)
}

func TestRollbackTenderAppendsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.tender(t, models.TenderCreated).Tender.ID.String()

	for _, name := range []string{"v2", "v3", "v4", "v5"} {
		_, err := f.svc.EditTender(ctx, id, f.owner.Username, models.TenderPatch{Name: ptr(name)})
		require.NoError(t, err)
	}
	_, err := f.svc.EditTender(ctx, id, f.owner.Username, models.TenderPatch{
		Description: ptr("changed"),
		ServiceType: ptr(models.ServiceDelivery),
	})
	require.NoError(t, err)

	snap, err := f.svc.RollbackTender(ctx, id, f.owner.Username, 2)
	require.NoError(t, err)
	require.Equal(t, 7, snap.Version.Version)
	require.Equal(t, "v2", snap.Version.Name)
	require.Equal(t, "Build a road", snap.Version.Description)
	require.Equal(t, models.ServiceConstruction, snap.Version.ServiceType)

	_, err = f.svc.RollbackTender(ctx, id, f.owner.Username, 42)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.RollbackTender(ctx, id, f.owner.Username, 0)
	require.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTenderStatusVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tender := f.tender(t, models.TenderCreated)
	id := tender.Tender.ID.String()

	status, err := f.svc.TenderStatus(ctx, id, f.owner.Username)
	require.NoError(t, err)
	require.Equal(t, models.TenderCreated, status)

	_, err = f.svc.TenderStatus(ctx, id, f.outsider.Username)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.TenderStatus(ctx, id, "")
	require.ErrorIs(t, err, domain.ErrForbidden)

	snap, err := f.svc.SetTenderStatus(ctx, id, f.owner.Username, models.TenderPublished)
	require.NoError(t, err)
	require.Equal(t, models.TenderPublished, snap.Tender.Status)
	require.Equal(t, 1, snap.Version.Version)

	status, err = f.svc.TenderStatus(ctx, id, "")
	require.NoError(t, err)
	require.Equal(t, models.TenderPublished, status)

	ok, err := f.svc.HasTenderReadAccess(ctx, tender.Tender.ID, uuid.New())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.TenderStatus(ctx, "bad-id", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.TenderStatus(ctx, uuid.NewString(), "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.TenderStatus(ctx, id, "ghost")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSetTenderStatusAllowsAnyTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.tender(t, models.TenderClosed).Tender.ID.String()

	snap, err := f.svc.SetTenderStatus(ctx, id, f.owner.Username, models.TenderCreated)
	require.NoError(t, err)
	require.Equal(t, models.TenderCreated, snap.Tender.Status)

	_, err = f.svc.SetTenderStatus(ctx, id, f.owner.Username, "Archived")
	require.ErrorIs(t, err, domain.ErrInvalid)

	_, err = f.svc.SetTenderStatus(ctx, id, f.outsider.Username, models.TenderPublished)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListTenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	published := f.tender(t, models.TenderPublished)
	f.tender(t, models.TenderCreated)

	delivery := f.tender(t, models.TenderPublished)
	_, err := f.svc.EditTender(ctx, delivery.Tender.ID.String(), f.owner.Username, models.TenderPatch{
		Name:        ptr("Apples"),
		ServiceType: ptr(models.ServiceDelivery),
	})
	require.NoError(t, err)

	list, err := f.svc.ListTenders(ctx, nil, service.DefaultPage)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// одна запись на тендер, по имени актуальной версии
	require.Equal(t, "Apples", list[0].Version.Name)
	require.Equal(t, 2, list[0].Version.Version)
	require.Equal(t, published.Tender.ID, list[1].Tender.ID)

	list, err = f.svc.ListTenders(ctx, []models.ServiceType{models.ServiceDelivery}, service.DefaultPage)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, delivery.Tender.ID, list[0].Tender.ID)

	list, err = f.svc.ListTenders(ctx, nil, service.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, published.Tender.ID, list[0].Tender.ID)

	_, err = f.svc.ListTenders(ctx, nil, service.Page{Limit: 51})
	require.ErrorIs(t, err, domain.ErrInvalid)
	_, err = f.svc.ListTenders(ctx, []models.ServiceType{"Cleaning"}, service.DefaultPage)
	require.ErrorIs(t, err, domain.ErrInvalid)
}

func TestListMyTenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tender(t, models.TenderCreated)
	f.tender(t, models.TenderPublished)

	list, err := f.svc.ListMyTenders(ctx, f.owner.Username, service.DefaultPage)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = f.svc.ListMyTenders(ctx, f.outsider.Username, service.DefaultPage)
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = f.svc.ListMyTenders(ctx, "", service.DefaultPage)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = f.svc.ListMyTenders(ctx, "ghost", service.DefaultPage)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEditTenderVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tender := f.tender(t, models.TenderCreated)

	// номер следующей версии уже занят параллельной записью
	_, err := f.db.ExecContext(ctx, f.db.Rebind(`INSERT INTO tender_version
		(id, tender_id, version, actual, name, description, service_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		uuid.New(), tender.Tender.ID, 2, false, "Road", "other", models.ServiceConstruction)
	require.NoError(t, err)

	_, err = f.svc.EditTender(ctx, tender.Tender.ID.String(), f.owner.Username, models.TenderPatch{Name: ptr("X")})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.ErrorIs(t, err, store.ErrVersionConflict)

	mine, err := f.svc.ListMyTenders(ctx, f.owner.Username, service.DefaultPage)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, 1, mine[0].Version.Version)
	require.Equal(t, "Road", mine[0].Version.Name)
}
