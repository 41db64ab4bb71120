package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/ledger"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

type AssetService struct {
	store  Store
	codes  codeGenerator
	ledger appender
	audit  auditTrail
	log    zerolog.Logger
}

func NewAssetService(store Store, codes codeGenerator, ledg appender, audit auditTrail, log zerolog.Logger) *AssetService {
	return &AssetService{store: store, codes: codes, ledger: ledg, audit: audit, log: log}
}

type CreateAssetInput struct {
	CategoryID uint
	Name       string
	Location   string
	Owner      string
	Status     models.AssetStatus
	Detail     json.RawMessage
	Scores     classification.Scores
	Note       string
}

// Create runs the full creation state machine:
// validate, generate code, then asset row + initial assessment +
// denormalized tier in one transaction, then the activity record. Any error
// before commit leaves no side effect; the issued code is the only thing
// consumed on a post-generation failure, and issued numbers are never
// recycled.
func (s *AssetService) Create(ctx context.Context, actor Actor, in CreateAssetInput) (*models.Asset, error) {
	detail, err := s.validateCreate(ctx, &in)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.NextCode(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{
		Code:       code,
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Location:   in.Location,
		Owner:      in.Owner,
		Status:     in.Status,
		Detail:     detail,
	}

	note := in.Note
	if note == "" {
		note = ledger.DefaultInitialNote
	}

	err = s.store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.store.CreateAsset(tx, asset); err != nil {
			return err
		}
		rec, err := s.ledger.AppendWith(tx, asset.ID, actor.ID, in.Scores, note)
		if err != nil {
			return err
		}
		asset.CurrentTier = &rec.Tier
		total := rec.TotalScore
		asset.CurrentTotalScore = &total
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.audit, actor, fmt.Sprintf("Menambahkan aset %s (%s)", asset.Name, asset.Code))
	return asset, nil
}

type UpdateAssetInput struct {
	Name     *string
	Location *string
	Owner    *string
	Status   *models.AssetStatus
	Detail   json.RawMessage
	Scores   *classification.Scores
	Note     string
}

// Update edits an existing asset. The code is never regenerated; changed
// scores append a new assessment instead of rewriting any stored one.
func (s *AssetService) Update(ctx context.Context, actor Actor, assetID uint, in UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.store.AssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpdate(asset, &in); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx *gorm.DB) error {
		if in.Scores != nil {
			rec, err := s.ledger.AppendWith(tx, asset.ID, actor.ID, *in.Scores, in.Note)
			if err != nil {
				return err
			}
			asset.CurrentTier = &rec.Tier
			total := rec.TotalScore
			asset.CurrentTotalScore = &total
		}
		applyUpdate(asset, in)
		return s.store.SaveAsset(tx, asset)
	})
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.audit, actor, fmt.Sprintf("Memperbarui aset %s (%s)", asset.Name, asset.Code))
	return asset, nil
}

// Reassess appends a standalone scoring event without touching the asset's
// other fields.
func (s *AssetService) Reassess(ctx context.Context, actor Actor, assetID uint, scores classification.Scores, note string) (*models.Assessment, error) {
	asset, err := s.store.AssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	var rec *models.Assessment
	err = s.store.InTx(ctx, func(tx *gorm.DB) error {
		rec, err = s.ledger.AppendWith(tx, asset.ID, actor.ID, scores, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.audit, actor,
		fmt.Sprintf("Menilai ulang aset %s (%s): %s", asset.Name, asset.Code, rec.Tier))
	return rec, nil
}

func (s *AssetService) Get(ctx context.Context, assetID uint) (*models.Asset, error) {
	return s.store.AssetByID(ctx, assetID)
}

func (s *AssetService) List(ctx context.Context, f AssetFilter) ([]models.Asset, error) {
	return s.store.ListAssets(ctx, f)
}

func (s *AssetService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *AssetService) validateCreate(ctx context.Context, in *CreateAssetInput) (datatypes.JSON, error) {
	var ve *apperr.ValidationError
	fail := func(field, msg string) {
		if ve == nil {
			ve = &apperr.ValidationError{}
		}
		ve.Add(field, msg)
	}

	in.Name = strings.TrimSpace(in.Name)
	if len(in.Name) < 3 {
		fail("name", "must be at least 3 characters")
	}
	if in.Status == "" {
		in.Status = models.StatusAktif
	}
	if !in.Status.Valid() {
		fail("status", "must be aktif, nonaktif or dihapuskan")
	}

	var sve *apperr.ValidationError
	if errors.As(in.Scores.Validate(), &sve) {
		for _, f := range sve.Fields {
			fail("scores."+f.Field, f.Message)
		}
	}

	categoryOK := true
	if _, err := s.store.CategoryByID(ctx, in.CategoryID); err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		categoryOK = false
		fail("category_id", "unknown category")
	}

	var detail models.AssetDetail
	if categoryOK {
		var derr error
		detail, derr = models.DecodeDetail(in.CategoryID, in.Detail)
		if derr != nil {
			fail("detail", derr.Error())
		}
	}

	if ve != nil {
		return nil, ve
	}
	return models.EncodeDetail(detail)
}

func (s *AssetService) validateUpdate(asset *models.Asset, in *UpdateAssetInput) error {
	var ve *apperr.ValidationError
	fail := func(field, msg string) {
		if ve == nil {
			ve = &apperr.ValidationError{}
		}
		ve.Add(field, msg)
	}

	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		if len(*in.Name) < 3 {
			fail("name", "must be at least 3 characters")
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		fail("status", "must be aktif, nonaktif or dihapuskan")
	}
	if in.Scores != nil {
		var sve *apperr.ValidationError
		if errors.As(in.Scores.Validate(), &sve) {
			for _, f := range sve.Fields {
				fail("scores."+f.Field, f.Message)
			}
		}
	}
	if in.Detail != nil {
		if _, err := models.DecodeDetail(asset.CategoryID, in.Detail); err != nil {
			fail("detail", err.Error())
		}
	}

	if ve != nil {
		return ve
	}
	return nil
}

func applyUpdate(asset *models.Asset, in UpdateAssetInput) {
	if in.Name != nil {
		asset.Name = *in.Name
	}
	if in.Location != nil {
		asset.Location = *in.Location
	}
	if in.Owner != nil {
		asset.Owner = *in.Owner
	}
	if in.Status != nil {
		asset.Status = *in.Status
	}
	if in.Detail != nil {
		asset.Detail = datatypes.JSON(in.Detail)
	}
}

func recordActivity(ctx context.Context, audit auditTrail, actor Actor, activity string) {
	uid := actor.ID
	audit.Record(ctx, activitylog.Entry{
		UserID:    &uid,
		Username:  actor.Username,
		Activity:  activity,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})
}

