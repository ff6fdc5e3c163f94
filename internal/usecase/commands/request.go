package commands

import (
	"context"
	"errors"
	"fmt"

	domequipment "equipment-rental/internal/domain/equipment"
	domrequest "equipment-rental/internal/domain/request"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/pkg/clock"
	"equipment-rental/internal/pkg/errs"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRequesterNotFound       = errs.New("requester not found")
	ErrRequesterInactive       = errs.New("requester inactive")
	ErrEquipmentNotFoundWrite  = errs.New("equipment not found")
	ErrEquipmentUnavailable    = errs.New("equipment unavailable")
	ErrEmptyItems              = errs.New("request has no items")
	ErrInvalidQuantity         = errs.New("invalid item quantity")
	ErrRequestNotFoundWrite    = errs.New("request not found")
	ErrRequestAlreadyProcessed = errs.New("request already processed")
	ErrInsufficientStock       = errs.New("insufficient stock")
	ErrStockConflict           = errs.New("concurrent stock update")
	ErrEmptyRejectReason       = errs.New("empty reject reason")
)

type RequestItemInput struct {
	EquipmentID uuid.UUID
	Quantity    int32
}

type CreateRequestResult struct {
	RequestID uuid.UUID
}

type RequestCommands interface {
	CreateRequest(ctx context.Context, userID uuid.UUID, items []RequestItemInput) (*CreateRequestResult, error)
	ApproveRequest(ctx context.Context, requestID uuid.UUID) error
	RejectRequest(ctx context.Context, requestID uuid.UUID, reason string) error
}

type requestUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewRequestUseCase(uow shared.UnitOfWork, clk clock.Clock) RequestCommands {
	return &requestUseCaseImpl{uow: uow, clock: clk}
}

func (uc *requestUseCaseImpl) CreateRequest(ctx context.Context, userID uuid.UUID, items []RequestItemInput) (*CreateRequestResult, error) {
	lineItems := make([]domrequest.LineItem, 0, len(items))
	for _, item := range items {
		li, err := domrequest.NewLineItem(item.EquipmentID, item.Quantity)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidQuantity)
		}
		lineItems = append(lineItems, li)
	}

	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		requester, derr := tx.Reads().UserByID(ctx, userID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrRequesterNotFound
			}
			return derr
		}
		if !requester.IsActive {
			return ErrRequesterInactive
		}

		for _, item := range lineItems {
			equip, derr := tx.Reads().EquipmentByID(ctx, item.EquipmentID)
			if derr != nil {
				if infra.IsKind(derr, infra.KindNotFound) {
					return errs.Mark(errs.New(fmt.Sprintf("equipment %s not found", item.EquipmentID)), ErrEquipmentNotFoundWrite)
				}
				return derr
			}
			if !equip.Available {
				return errs.Mark(errs.New(fmt.Sprintf("equipment %q is not available for request", equip.Name)), ErrEquipmentUnavailable)
			}
		}

		req, derr := domrequest.NewEquipmentRequest(userID, lineItems)
		if derr != nil {
			return errs.Mark(derr, ErrEmptyItems)
		}

		id, derr := tx.Requests().Create(ctx, tx.DB(), req)
		if derr != nil {
			return derr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateRequestResult{RequestID: createdID}, nil
}

// ApproveRequest decrements stock for every line item and flips the request
// to APPROVED, all inside one transaction. Each decrement is guarded by the
// equipment version read moments before, so a concurrent approval of the last
// unit loses cleanly instead of driving stock negative.
func (uc *requestUseCaseImpl) ApproveRequest(ctx context.Context, requestID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := uc.loadPendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		req := snap.Entity()
		if err := req.Approve(uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrRequestAlreadyProcessed)
		}

		for _, item := range req.Items() {
			if err := uc.decrementGuarded(ctx, tx, item); err != nil {
				return err
			}
		}

		transitioned, err := tx.Requests().MarkApproved(ctx, tx.DB(), requestID, *req.ProcessedAt())
		if err != nil {
			return err
		}
		if !transitioned {
			return ErrRequestAlreadyProcessed
		}
		return nil
	})
}

func (uc *requestUseCaseImpl) RejectRequest(ctx context.Context, requestID uuid.UUID, reason string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := uc.loadPendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		req := snap.Entity()
		if err := req.Reject(reason, uc.clock.Now()); err != nil {
			if errors.Is(err, domrequest.ErrEmptyReason) {
				return ErrEmptyRejectReason
			}
			return errs.Mark(err, ErrRequestAlreadyProcessed)
		}

		transitioned, err := tx.Requests().MarkRejected(ctx, tx.DB(), requestID, *req.RejectReason(), *req.ProcessedAt())
		if err != nil {
			return err
		}
		if !transitioned {
			return ErrRequestAlreadyProcessed
		}
		return nil
	})
}

func (uc *requestUseCaseImpl) loadPendingRequest(ctx context.Context, tx shared.Tx, requestID uuid.UUID) (*shared.RequestSnapshot, error) {
	snap, err := tx.Reads().RequestWithItems(ctx, requestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRequestNotFoundWrite
		}
		return nil, err
	}
	if snap.Status.IsTerminal() {
		return nil, ErrRequestAlreadyProcessed
	}
	return snap, nil
}

// decrementGuarded applies one item's stock decrement with a version guard.
// The entity validates the decrement against the snapshot the guard will be
// checked against; a rejected guard is re-read to tell an out-of-stock item
// apart from a version race with another writer.
func (uc *requestUseCaseImpl) decrementGuarded(ctx context.Context, tx shared.Tx, item domrequest.LineItem) error {
	snap, err := tx.Reads().EquipmentByID(ctx, item.EquipmentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(errs.New(fmt.Sprintf("equipment %s not found", item.EquipmentID)), ErrEquipmentNotFoundWrite)
		}
		return err
	}

	if err := snap.Entity().DecreaseStock(item.Quantity); err != nil {
		if errors.Is(err, domequipment.ErrInsufficientStock) {
			return insufficientStock(snap.Name, snap.Stock, item.Quantity)
		}
		return errs.Mark(err, ErrInvalidQuantity)
	}

	applied, err := tx.Equipment().AdjustStockGuarded(ctx, tx.DB(), item.EquipmentID, -item.Quantity, snap.Version)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	current, err := tx.Reads().EquipmentByID(ctx, item.EquipmentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(errs.New(fmt.Sprintf("equipment %s not found", item.EquipmentID)), ErrEquipmentNotFoundWrite)
		}
		return err
	}
	if errors.Is(current.Entity().DecreaseStock(item.Quantity), domequipment.ErrInsufficientStock) {
		return insufficientStock(current.Name, current.Stock, item.Quantity)
	}

	return errs.Mark(errs.New(fmt.Sprintf("equipment %q was updated concurrently", current.Name)), ErrStockConflict)
}

func insufficientStock(name string, stock, requested int32) error {
	return errs.Mark(
		errs.New(fmt.Sprintf("insufficient stock for %q: have %d, requested %d", name, stock, requested)),
		ErrInsufficientStock,
	)
}
