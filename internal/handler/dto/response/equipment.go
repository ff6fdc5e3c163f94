package response

import (
	"time"

	"equipment-rental/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type EquipmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Stock       int32     `json:"stock"`
	Available   bool      `json:"available"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateEquipmentResponse struct {
	ID uuid.UUID `json:"id"`
}

type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

func FromEquipmentView(view *queries.EquipmentView) (*EquipmentResponse, error) {
	var resp EquipmentResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromEquipmentViews(views []*queries.EquipmentView) ([]*EquipmentResponse, error) {
	responses := make([]*EquipmentResponse, 0, len(views))
	for _, view := range views {
		resp, err := FromEquipmentView(view)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
