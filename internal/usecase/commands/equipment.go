package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	domequipment "equipment-rental/internal/domain/equipment"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/pkg/errs"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidEquipment   = errs.New("invalid equipment")
	ErrDuplicateEquipment = errs.New("duplicate equipment")
	ErrInvalidStockAmount = errs.New("invalid stock amount")
	ErrUnsupportedImage   = errs.New("unsupported image")
)

// ImageStore abstracts the object storage that holds equipment photos.
type ImageStore interface {
	Upload(ctx context.Context, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

type CreateEquipmentInput struct {
	Name        string
	Category    string
	Description string
	Stock       int32
	Available   bool
}

type UpdateEquipmentInput struct {
	Name        string
	Category    string
	Description string
	Available   bool
}

type CreateEquipmentResult struct {
	EquipmentID uuid.UUID
}

type EquipmentCommands interface {
	CreateEquipment(ctx context.Context, input CreateEquipmentInput) (*CreateEquipmentResult, error)
	UpdateEquipment(ctx context.Context, id uuid.UUID, input UpdateEquipmentInput) error
	UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (string, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
	// IncreaseStock and DecreaseStock are the admin's direct stock
	// adjustments, guarded the same way approvals are.
	IncreaseStock(ctx context.Context, id uuid.UUID, amount int32) error
	DecreaseStock(ctx context.Context, id uuid.UUID, amount int32) error
}

type equipmentUseCaseImpl struct {
	uow    shared.UnitOfWork
	images ImageStore
}

func NewEquipmentUseCase(uow shared.UnitOfWork, images ImageStore) EquipmentCommands {
	return &equipmentUseCaseImpl{uow: uow, images: images}
}

func (uc *equipmentUseCaseImpl) CreateEquipment(ctx context.Context, input CreateEquipmentInput) (*CreateEquipmentResult, error) {
	equip, err := domequipment.NewEquipment(
		input.Name, input.Category, input.Description, nil, input.Stock, input.Available,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidEquipment)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.Equipment().Create(ctx, tx.DB(), shared.CreateEquipmentParams{
			Name:        equip.Name(),
			Category:    equip.Category(),
			Description: equip.Description(),
			Stock:       equip.Stock(),
			Available:   equip.Available(),
		})
		if derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrDuplicateEquipment
			}
			return derr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateEquipmentResult{EquipmentID: createdID}, nil
}

func (uc *equipmentUseCaseImpl) UpdateEquipment(ctx context.Context, id uuid.UUID, input UpdateEquipmentInput) error {
	if _, err := domequipment.NewEquipment(
		input.Name, input.Category, input.Description, nil, 0, input.Available,
	); err != nil {
		return errs.Mark(err, ErrInvalidEquipment)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Equipment().Update(ctx, tx.DB(), id, shared.UpdateEquipmentParams{
			Name:        input.Name,
			Category:    input.Category,
			Description: input.Description,
			Available:   input.Available,
		})
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrEquipmentNotFoundWrite
		}
		return err
	})
}

// UploadImage stores the new image first, then swaps the reference. The old
// object is removed best-effort after commit; a leaked object is preferable
// to a dangling reference.
func (uc *equipmentUseCaseImpl) UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (string, error) {
	var oldURL *string
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		equip, derr := tx.Reads().EquipmentByID(ctx, id)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrEquipmentNotFoundWrite
			}
			return derr
		}
		oldURL = equip.ImageURL
		return nil
	})
	if err != nil {
		return "", err
	}

	newURL, err := uc.images.Upload(ctx, contentType, body)
	if err != nil {
		return "", errs.Mark(err, ErrUnsupportedImage)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		derr := tx.Equipment().SetImageURL(ctx, tx.DB(), id, &newURL)
		if infra.IsKind(derr, infra.KindNotFound) {
			return ErrEquipmentNotFoundWrite
		}
		return derr
	})
	if err != nil {
		if delErr := uc.images.Delete(ctx, newURL); delErr != nil {
			slog.Warn("failed to clean up uploaded image", "url", newURL, "error", delErr.Error())
		}
		return "", err
	}

	if oldURL != nil {
		if delErr := uc.images.Delete(ctx, *oldURL); delErr != nil {
			slog.Warn("failed to delete replaced image", "url", *oldURL, "error", delErr.Error())
		}
	}

	return newURL, nil
}

// DeleteImage clears the stored reference inside the transaction; the object
// itself is removed best-effort after commit, same as the upload-replacement
// path. Deleting when no image is set succeeds as a no-op.
func (uc *equipmentUseCaseImpl) DeleteImage(ctx context.Context, id uuid.UUID) error {
	var oldURL *string
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		equip, derr := tx.Reads().EquipmentByID(ctx, id)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrEquipmentNotFoundWrite
			}
			return derr
		}
		oldURL = equip.ImageURL
		if oldURL == nil {
			return nil
		}

		derr = tx.Equipment().SetImageURL(ctx, tx.DB(), id, nil)
		if infra.IsKind(derr, infra.KindNotFound) {
			return ErrEquipmentNotFoundWrite
		}
		return derr
	})
	if err != nil {
		return err
	}

	if oldURL != nil {
		if delErr := uc.images.Delete(ctx, *oldURL); delErr != nil {
			slog.Warn("failed to delete equipment image", "url", *oldURL, "error", delErr.Error())
		}
	}
	return nil
}

func (uc *equipmentUseCaseImpl) IncreaseStock(ctx context.Context, id uuid.UUID, amount int32) error {
	if amount <= 0 {
		return ErrInvalidStockAmount
	}
	return uc.adjustStock(ctx, id, amount)
}

func (uc *equipmentUseCaseImpl) DecreaseStock(ctx context.Context, id uuid.UUID, amount int32) error {
	if amount <= 0 {
		return ErrInvalidStockAmount
	}
	return uc.adjustStock(ctx, id, -amount)
}

func (uc *equipmentUseCaseImpl) adjustStock(ctx context.Context, id uuid.UUID, delta int32) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		equip, err := tx.Reads().EquipmentByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEquipmentNotFoundWrite
			}
			return err
		}

		if derr := applyStockDelta(equip.Entity(), delta); derr != nil {
			if errors.Is(derr, domequipment.ErrInsufficientStock) {
				return insufficientStock(equip.Name, equip.Stock, -delta)
			}
			return errs.Mark(derr, ErrInvalidStockAmount)
		}

		applied, err := tx.Equipment().AdjustStockGuarded(ctx, tx.DB(), id, delta, equip.Version)
		if err != nil {
			return err
		}
		if !applied {
			current, rerr := tx.Reads().EquipmentByID(ctx, id)
			if rerr != nil {
				if infra.IsKind(rerr, infra.KindNotFound) {
					return ErrEquipmentNotFoundWrite
				}
				return rerr
			}
			if errors.Is(applyStockDelta(current.Entity(), delta), domequipment.ErrInsufficientStock) {
				return insufficientStock(current.Name, current.Stock, -delta)
			}
			return errs.Mark(errs.New(fmt.Sprintf("equipment %q was updated concurrently", current.Name)), ErrStockConflict)
		}
		return nil
	})
}

// applyStockDelta runs the entity validation for a signed adjustment.
func applyStockDelta(e *domequipment.Equipment, delta int32) error {
	if delta < 0 {
		return e.DecreaseStock(-delta)
	}
	return e.IncreaseStock(delta)
}
