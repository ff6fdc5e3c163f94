package request

type CreateEquipmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Stock       int32  `json:"stock" binding:"gte=0"`
	Available   *bool  `json:"available"`
}

type UpdateEquipmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

type AdjustStockRequest struct {
	Amount int32 `json:"amount" binding:"required,gt=0"`
}
