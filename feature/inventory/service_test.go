package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"lv-inventory/core/database"
	"lv-inventory/core/procore"
	"lv-inventory/core/storage/mocks"
	"lv-inventory/feature/inventory/localstore"
	"lv-inventory/feature/inventory/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAPI is a testify mock of procore.API.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListPurchaseOrders(ctx context.Context, projectID string) ([]procore.PurchaseOrder, error) {
	args := m.Called(ctx, projectID)
	if orders, ok := args.Get(0).([]procore.PurchaseOrder); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) ListLineItems(ctx context.Context, purchaseOrderID int64) ([]procore.LineItem, error) {
	args := m.Called(ctx, purchaseOrderID)
	if items, ok := args.Get(0).([]procore.LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetInventory(ctx context.Context, projectID string) (json.RawMessage, error) {
	args := m.Called(ctx, projectID)
	if raw, ok := args.Get(0).(json.RawMessage); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) ReplaceInventory(ctx context.Context, projectID string, payload json.RawMessage) error {
	args := m.Called(ctx, projectID, payload)
	return args.Error(0)
}

func newTestLocalStore(t *testing.T) *localstore.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store, err := localstore.New(db)
	require.NoError(t, err)
	return store
}

func TestServiceLoadFromVendor(t *testing.T) {
	records := []models.Record{
		{ID: "r1", Description: "Cat6 Plenum", Available: 10},
		{ID: "r2", Description: "RJ45 Jack", Available: 200},
	}
	raw, err := json.Marshal(records)
	require.NoError(t, err)

	api := new(mockAPI)
	api.On("GetInventory", mock.Anything, "proj-1").Return(json.RawMessage(raw), nil)

	svc := NewService(api, newTestLocalStore(t), zap.NewNop())

	count, err := svc.Load(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := svc.UpdateItem("proj-1", "r1", Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Cat6 Plenum", got.Description)
	api.AssertExpectations(t)
}

func TestServiceLoadFallsBackToLocalSnapshot(t *testing.T) {
	local := newTestLocalStore(t)
	records := []models.Record{{ID: "r1", Description: "Fiber patch panel"}}
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, local.Save(context.Background(), "proj-1", raw))

	api := new(mockAPI)
	api.On("GetInventory", mock.Anything, "proj-1").
		Return(nil, procore.ErrUpstreamUnavailable)

	svc := NewService(api, local, zap.NewNop())

	count, err := svc.Load(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceLoadFallbackWithoutSnapshotYieldsEmpty(t *testing.T) {
	api := new(mockAPI)
	api.On("GetInventory", mock.Anything, "proj-1").
		Return(nil, procore.ErrUpstreamUnavailable)

	svc := NewService(api, newTestLocalStore(t), zap.NewNop())

	count, err := svc.Load(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestServiceLoadAuthErrorAborts(t *testing.T) {
	api := new(mockAPI)
	api.On("GetInventory", mock.Anything, "proj-1").
		Return(nil, procore.ErrNoSession)

	svc := NewService(api, newTestLocalStore(t), zap.NewNop())

	_, err := svc.Load(context.Background(), "proj-1")
	assert.ErrorIs(t, err, procore.ErrNoSession)
}

func TestServiceSaveSurvivesVendorFailure(t *testing.T) {
	local := newTestLocalStore(t)

	api := new(mockAPI)
	api.On("ReplaceInventory", mock.Anything, "proj-1", mock.Anything).
		Return(procore.ErrUpstreamUnavailable)

	svc := NewService(api, local, zap.NewNop())
	svc.AddItem("proj-1", models.Record{Description: "HDMI over IP encoder"})

	// Vendor rejection must not surface: the local write is the source of truth.
	require.NoError(t, svc.Save(context.Background(), "proj-1"))

	data, err := local.Load(context.Background(), "proj-1")
	require.NoError(t, err)

	var saved []models.Record
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "HDMI over IP encoder", saved[0].Description)
	api.AssertExpectations(t)
}

func TestServiceSaveWritesBothStores(t *testing.T) {
	local := newTestLocalStore(t)

	api := new(mockAPI)
	api.On("ReplaceInventory", mock.Anything, "proj-1", mock.Anything).Return(nil)

	svc := NewService(api, local, zap.NewNop())
	svc.AddItem("proj-1", models.Record{Description: "Door contact"})

	require.NoError(t, svc.Save(context.Background(), "proj-1"))
	api.AssertExpectations(t)
}

func TestServiceExportCSVArchives(t *testing.T) {
	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	store.On("MakeBucket", mock.Anything, "exports", mock.Anything).Return(nil)
	store.On("PutObject", mock.Anything, "exports",
		mock.MatchedBy(func(name string) bool {
			return strings.HasPrefix(name, "exports/proj-1/") && strings.HasSuffix(name, ".csv")
		}),
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop(),
		WithArchive(store, "exports"))
	svc.AddItem("proj-1", models.Record{Description: "Cat6 Plenum", PartNumber: "CBL-100"})

	data, err := svc.ExportCSV(context.Background(), "proj-1", true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CBL-100")
	store.AssertExpectations(t)
}

func TestServiceExportWithoutArchiveSkipsStorage(t *testing.T) {
	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop())
	svc.AddItem("proj-1", models.Record{Description: "Camera mount"})

	data, err := svc.ExportJSON(context.Background(), "proj-1", false)
	require.NoError(t, err)

	var out []models.Record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Len(t, out, 1)
}

func TestServiceArchiveUnconfigured(t *testing.T) {
	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop())

	_, err := svc.ExportCSV(context.Background(), "proj-1", true)
	assert.Error(t, err)

	_, err = svc.ListExports(context.Background(), "proj-1")
	assert.Error(t, err)
}

func TestServiceListAndDownloadExports(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "exports/proj-1/20260829T120000Z.csv"}
	ch <- minio.ObjectInfo{Key: "exports/proj-1/20260828T090000Z.json"}
	close(ch)

	store := new(mocks.Client)
	store.On("ListObjects", mock.Anything, "exports", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))
	store.On("GetObject", mock.Anything, "exports", "exports/proj-1/20260828T090000Z.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader("[]")), nil)

	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop(),
		WithArchive(store, "exports"))

	names, err := svc.ListExports(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"exports/proj-1/20260828T090000Z.json",
		"exports/proj-1/20260829T120000Z.csv",
	}, names)

	obj, err := svc.DownloadExport(context.Background(), "exports/proj-1/20260828T090000Z.json")
	require.NoError(t, err)
	defer obj.Close()

	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	store.AssertExpectations(t)
}

func TestServiceReconcilePersistsInventory(t *testing.T) {
	api := new(mockAPI)
	api.On("ListPurchaseOrders", mock.Anything, "proj-1").Return([]procore.PurchaseOrder{
		{ID: 10, Title: "Low Voltage Rough-In", Status: procore.StatusApproved},
	}, nil)
	api.On("ListLineItems", mock.Anything, int64(10)).Return([]procore.LineItem{
		{Description: "Cat6 Plenum 1000ft", PartNumber: "CBL-100", Quantity: 4, UnitCost: 189.0},
	}, nil)
	api.On("ReplaceInventory", mock.Anything, "proj-1", mock.Anything).Return(nil)

	local := newTestLocalStore(t)
	svc := NewService(api, local, zap.NewNop())

	result, err := svc.Reconcile(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsCreated)
	assert.Equal(t, 1, result.RecordsTouched)

	// The reconciled snapshot must land in the local store.
	data, err := local.Load(context.Background(), "proj-1")
	require.NoError(t, err)

	var saved []models.Record
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "CBL-100", saved[0].PartNumber)
	assert.Equal(t, 4.0, saved[0].Available)
	api.AssertExpectations(t)
}

func TestServiceStoresAreIsolatedPerProject(t *testing.T) {
	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop())

	svc.AddItem("proj-1", models.Record{Description: "Patch panel"})
	svc.AddItem("proj-2", models.Record{Description: "Keypad"})

	assert.Len(t, svc.SearchItems("proj-1", Filter{}), 1)
	assert.Len(t, svc.SearchItems("proj-2", Filter{}), 1)
	assert.Equal(t, "Patch panel", svc.SearchItems("proj-1", Filter{})[0].Description)
}

type fakePublisher struct {
	published []models.Record
	err       error
}

func (f *fakePublisher) PublishReorder(_ context.Context, rec models.Record) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, rec)
	return nil
}

func TestServiceAdjustPublishesReorderAlert(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop(), WithNotifier(pub))

	rec := svc.AddItem("proj-1", models.Record{
		Description:       "Cat6 Plenum",
		Available: 10,
		ReorderThreshold:  5,
	})

	_, err := svc.AdjustQuantity(context.Background(), "proj-1", rec.ID, -6, models.ModeStock)
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, rec.ID, pub.published[0].ID)
}

func TestServiceAdjustAlertFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop(), WithNotifier(pub))

	rec := svc.AddItem("proj-1", models.Record{
		Description:       "RJ45 Jack",
		Available: 4,
		ReorderThreshold:  5,
	})

	got, err := svc.AdjustQuantity(context.Background(), "proj-1", rec.ID, -1, models.ModeStock)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Available)
}
