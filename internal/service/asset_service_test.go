package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

// fakeDeps records every collaborator call in order so the tests can assert
// the write state machine.
type fakeDeps struct {
	calls []string

	assets     map[uint]*models.Asset
	users      map[uint]*models.User
	categories map[uint]*models.Category
	nextID     uint

	codeErr   error
	appendErr error
	issued    int

	appended []classification.Scores
	recorded []activitylog.Entry
	detached []uint
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		assets: map[uint]*models.Asset{},
		users:  map[uint]*models.User{},
		categories: map[uint]*models.Category{
			models.CategoryPerangkatKeras: {ID: models.CategoryPerangkatKeras, Name: "Perangkat Keras", CodePrefix: "HW"},
		},
	}
}

func (f *fakeDeps) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	f.calls = append(f.calls, "tx.begin")
	if err := fn(nil); err != nil {
		f.calls = append(f.calls, "tx.rollback")
		return err
	}
	f.calls = append(f.calls, "tx.commit")
	return nil
}

func (f *fakeDeps) CreateAsset(_ *gorm.DB, a *models.Asset) error {
	f.calls = append(f.calls, "store.create")
	f.nextID++
	a.ID = f.nextID
	f.assets[a.ID] = a
	return nil
}

func (f *fakeDeps) SaveAsset(_ *gorm.DB, a *models.Asset) error {
	f.calls = append(f.calls, "store.save")
	f.assets[a.ID] = a
	return nil
}

func (f *fakeDeps) AssetByID(_ context.Context, id uint) (*models.Asset, error) {
	if a, ok := f.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperr.NotFound("asset", id)
}

func (f *fakeDeps) ListAssets(_ context.Context, _ AssetFilter) ([]models.Asset, error) {
	out := make([]models.Asset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeDeps) CategoryByID(_ context.Context, id uint) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("category", id)
}

func (f *fakeDeps) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeDeps) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

func (f *fakeDeps) DeleteUser(_ *gorm.DB, id uint) error {
	f.calls = append(f.calls, "store.deleteUser")
	delete(f.users, id)
	return nil
}

func (f *fakeDeps) NextCode(_ context.Context, _ uint) (string, error) {
	f.calls = append(f.calls, "codes.next")
	if f.codeErr != nil {
		return "", f.codeErr
	}
	f.issued++
	return formatFakeCode(f.issued), nil
}

func (f *fakeDeps) AppendWith(_ *gorm.DB, assetID, assessorID uint, scores classification.Scores, note string) (*models.Assessment, error) {
	f.calls = append(f.calls, "ledger.append")
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.appended = append(f.appended, scores)
	tier := classification.Classify(scores, classification.DefaultThresholds)
	return &models.Assessment{
		AssetID:    assetID,
		AssessorID: assessorID,
		TotalScore: scores.Total(),
		Tier:       tier,
		Note:       note,
	}, nil
}

func (f *fakeDeps) Record(_ context.Context, e activitylog.Entry) {
	f.calls = append(f.calls, "audit.record")
	f.recorded = append(f.recorded, e)
}

func (f *fakeDeps) DetachUser(_ *gorm.DB, userID uint) error {
	f.calls = append(f.calls, "audit.detach")
	f.detached = append(f.detached, userID)
	return nil
}

func formatFakeCode(n int) string {
	return string(rune('A'+n-1)) + "-001"
}

func newAssetService(f *fakeDeps) *AssetService {
	return NewAssetService(f, f, f, f, zerolog.Nop())
}

var testActor = Actor{ID: 9, Username: "budi", Role: models.RoleManajerAset, IPAddress: "10.1.1.1", UserAgent: "go-test"}

func validCreateInput() CreateAssetInput {
	return CreateAssetInput{
		CategoryID: models.CategoryPerangkatKeras,
		Name:       "Server Utama",
		Location:   "Ruang Server Lt. 2",
		Owner:      "Divisi TI",
		Detail:     json.RawMessage(`{"brand":"Dull","model":"R740","serial_number":"SN-1"}`),
		Scores:     classification.Scores{Confidentiality: 3, Integrity: 3, Availability: 3, Authenticity: 1, NonRepudiation: 2},
	}
}

func TestCreateRunsStepsInOrder(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)

	asset, err := svc.Create(context.Background(), testActor, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"codes.next",
		"tx.begin",
		"store.create",
		"ledger.append",
		"tx.commit",
		"audit.record",
	}, f.calls)

	assert.Equal(t, "A-001", asset.Code)
	assert.Equal(t, models.StatusAktif, asset.Status)
	require.NotNil(t, asset.CurrentTier)
	assert.Equal(t, models.TierTinggi, *asset.CurrentTier)
	require.NotNil(t, asset.CurrentTotalScore)
	assert.Equal(t, 12, *asset.CurrentTotalScore)

	require.Len(t, f.recorded, 1)
	assert.Contains(t, f.recorded[0].Activity, "Menambahkan aset Server Utama (A-001)")
	assert.Equal(t, "budi", f.recorded[0].Username)
}

func TestCreateValidationAbortsBeforeSideEffects(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)

	in := validCreateInput()
	in.Name = "ab"
	in.Scores.Integrity = 4

	_, err := svc.Create(context.Background(), testActor, in)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Fields))
	for _, fe := range ve.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "scores.integrity")

	assert.Empty(t, f.calls, "validation failure must leave no side effect")
}

func TestCreateUnknownCategory(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)

	in := validCreateInput()
	in.CategoryID = 42

	_, err := svc.Create(context.Background(), testActor, in)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, f.calls)
}

func TestCreateCodeConflictAbortsBeforePersist(t *testing.T) {
	f := newFakeDeps()
	f.codeErr = apperr.Conflict("contended")
	svc := newAssetService(f)

	_, err := svc.Create(context.Background(), testActor, validCreateInput())
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	assert.Equal(t, []string{"codes.next"}, f.calls)
	assert.Empty(t, f.assets)
	assert.Empty(t, f.recorded)
}

func TestCreateAppendFailureRollsBack(t *testing.T) {
	f := newFakeDeps()
	f.appendErr = apperr.Dependency("append assessment", assert.AnError)
	svc := newAssetService(f)

	_, err := svc.Create(context.Background(), testActor, validCreateInput())
	require.Error(t, err)
	assert.True(t, apperr.IsDependency(err))

	assert.Equal(t, []string{
		"codes.next",
		"tx.begin",
		"store.create",
		"ledger.append",
		"tx.rollback",
	}, f.calls)
	assert.Empty(t, f.recorded, "aborted write must not reach the activity log")
}

func createSeedAsset(t *testing.T, f *fakeDeps, svc *AssetService) *models.Asset {
	t.Helper()
	asset, err := svc.Create(context.Background(), testActor, validCreateInput())
	require.NoError(t, err)
	f.calls = nil
	f.recorded = nil
	return asset
}

func TestUpdateWithScoresAppendsAndKeepsCode(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)
	asset := createSeedAsset(t, f, svc)

	newName := "Server Cadangan"
	scores := classification.Scores{Confidentiality: 1, Integrity: 1, Availability: 1, Authenticity: 1, NonRepudiation: 1}
	updated, err := svc.Update(context.Background(), testActor, asset.ID, UpdateAssetInput{
		Name:   &newName,
		Scores: &scores,
		Note:   "Penilaian ulang tahunan",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"tx.begin",
		"ledger.append",
		"store.save",
		"tx.commit",
		"audit.record",
	}, f.calls)

	assert.Equal(t, asset.Code, updated.Code, "code is never regenerated on edit")
	assert.Equal(t, "Server Cadangan", updated.Name)
	require.NotNil(t, updated.CurrentTier)
	assert.Equal(t, models.TierRendah, *updated.CurrentTier)
}

func TestUpdateWithoutScoresSkipsLedger(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)
	asset := createSeedAsset(t, f, svc)

	loc := "Gudang Arsip"
	updated, err := svc.Update(context.Background(), testActor, asset.ID, UpdateAssetInput{Location: &loc})
	require.NoError(t, err)

	assert.Equal(t, []string{"tx.begin", "store.save", "tx.commit", "audit.record"}, f.calls)
	assert.Equal(t, "Gudang Arsip", updated.Location)
	require.NotNil(t, updated.CurrentTier, "denormalized tier untouched by non-score edit")
	assert.Equal(t, models.TierTinggi, *updated.CurrentTier)
}

func TestUpdateUnknownAsset(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)

	_, err := svc.Update(context.Background(), testActor, 77, UpdateAssetInput{})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestReassessAppendsAndRecords(t *testing.T) {
	f := newFakeDeps()
	svc := newAssetService(f)
	asset := createSeedAsset(t, f, svc)

	scores := classification.Scores{Confidentiality: 2, Integrity: 2, Availability: 2, Authenticity: 1, NonRepudiation: 1}
	rec, err := svc.Reassess(context.Background(), testActor, asset.ID, scores, "Audit internal")
	require.NoError(t, err)

	assert.Equal(t, models.TierSedang, rec.Tier)
	assert.Equal(t, []string{"tx.begin", "ledger.append", "tx.commit", "audit.record"}, f.calls)
	require.Len(t, f.recorded, 1)
	assert.Contains(t, f.recorded[0].Activity, "Menilai ulang aset")
	assert.Contains(t, f.recorded[0].Activity, "Sedang")
}

func TestUserDeleteDetachesBeforeDelete(t *testing.T) {
	f := newFakeDeps()
	f.users[3] = &models.User{ID: 3, Username: "sari", Role: models.RoleAuditor}
	svc := NewUserService(f, f, zerolog.Nop())

	require.NoError(t, svc.Delete(context.Background(), testActor, 3))

	assert.Equal(t, []string{
		"tx.begin",
		"audit.detach",
		"store.deleteUser",
		"tx.commit",
		"audit.record",
	}, f.calls)
	assert.Equal(t, []uint{3}, f.detached)
	require.Len(t, f.recorded, 1)
	assert.Contains(t, f.recorded[0].Activity, "Menghapus pengguna sari")
}

func TestUserDeleteRejectsSelf(t *testing.T) {
	f := newFakeDeps()
	f.users[testActor.ID] = &models.User{ID: testActor.ID, Username: "budi"}
	svc := NewUserService(f, f, zerolog.Nop())

	err := svc.Delete(context.Background(), testActor, testActor.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, f.calls)
}
