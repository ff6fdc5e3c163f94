package request

import "github.com/google/uuid"

type RequestItemPayload struct {
	EquipmentID uuid.UUID `json:"equipmentId" binding:"required"`
	Quantity    int32     `json:"quantity" binding:"required,gt=0"`
}

type CreateRequestRequest struct {
	Items []RequestItemPayload `json:"items" binding:"required,min=1,dive"`
}

type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}
