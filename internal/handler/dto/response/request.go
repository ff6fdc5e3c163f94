package response

import (
	"time"

	"equipment-rental/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RequestResponse struct {
	ID           uuid.UUID             `json:"id"`
	UserID       uuid.UUID             `json:"userId"`
	UserName     string                `json:"userName"`
	Status       string                `json:"status"`
	Items        []RequestItemResponse `json:"items"`
	CreatedAt    time.Time             `json:"createdAt"`
	ProcessedAt  *time.Time            `json:"processedAt"`
	RejectReason *string               `json:"rejectReason"`
}

type RequestItemResponse struct {
	ID            uuid.UUID `json:"id"`
	EquipmentID   uuid.UUID `json:"equipmentId"`
	EquipmentName string    `json:"equipmentName"`
	Quantity      int32     `json:"quantity"`
}

type CreateRequestResponse struct {
	RequestID uuid.UUID `json:"requestId"`
	Message   string    `json:"message"`
}

func FromRequestView(view *queries.RequestView) (*RequestResponse, error) {
	var resp RequestResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []RequestItemResponse{}
	}
	return &resp, nil
}

func FromRequestViews(views []*queries.RequestView) ([]*RequestResponse, error) {
	responses := make([]*RequestResponse, 0, len(views))
	for _, view := range views {
		resp, err := FromRequestView(view)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
