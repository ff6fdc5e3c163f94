package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "equipment-rental/internal/handler/dto/request"
	resdto "equipment-rental/internal/handler/dto/response"
	"equipment-rental/internal/pkg/patch"
	"equipment-rental/internal/usecase/commands"
	"equipment-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 5 MB is plenty for a catalog photo
const maxImageSize = 5 << 20

type EquipmentHandler struct {
	equipmentCommands commands.EquipmentCommands
	equipmentQueries  queries.EquipmentQueries
}

func NewEquipmentHandler(equipmentCommands commands.EquipmentCommands, equipmentQueries queries.EquipmentQueries) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentCommands: equipmentCommands,
		equipmentQueries:  equipmentQueries,
	}
}

func (h *EquipmentHandler) List(c *gin.Context) {
	filter := queries.EquipmentFilter{
		Category:      c.Query("category"),
		Keyword:       c.Query("keyword"),
		AvailableOnly: c.Query("available") == "true",
	}

	views, err := h.equipmentQueries.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	resp, err := resdto.FromEquipmentViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid equipment ID",
		})
		return
	}

	view, err := h.equipmentQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrEquipmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Equipment not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	resp, err := resdto.FromEquipmentView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req reqdto.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.equipmentCommands.CreateEquipment(c.Request.Context(), commands.CreateEquipmentInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Stock:       req.Stock,
		Available:   patch.Coalesce(req.Available, true),
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidEquipment):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid equipment data",
			})
		case errors.Is(err, commands.ErrDuplicateEquipment):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Equipment already exists",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateEquipmentResponse{ID: result.EquipmentID})
}

func (h *EquipmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid equipment ID",
		})
		return
	}

	var req reqdto.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err = h.equipmentCommands.UpdateEquipment(c.Request.Context(), id, commands.UpdateEquipmentInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEquipmentNotFoundWrite):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Equipment not found",
			})
		case errors.Is(err, commands.ErrInvalidEquipment):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid equipment data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EquipmentHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid equipment ID",
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image file required",
		})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image exceeds the size limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	defer func() { _ = file.Close() }()

	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := h.equipmentCommands.UploadImage(c.Request.Context(), id, contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEquipmentNotFoundWrite):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Equipment not found",
			})
		case errors.Is(err, commands.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unsupported image type",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.ImageUploadResponse{ImageURL: imageURL})
}

func (h *EquipmentHandler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid equipment ID",
		})
		return
	}

	if err := h.equipmentCommands.DeleteImage(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrEquipmentNotFoundWrite) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Equipment not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EquipmentHandler) IncreaseStock(c *gin.Context) {
	h.adjustStock(c, h.equipmentCommands.IncreaseStock)
}

func (h *EquipmentHandler) DecreaseStock(c *gin.Context) {
	h.adjustStock(c, h.equipmentCommands.DecreaseStock)
}

func (h *EquipmentHandler) adjustStock(c *gin.Context, adjust func(ctx context.Context, id uuid.UUID, amount int32) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid equipment ID",
		})
		return
	}

	var req reqdto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := adjust(c.Request.Context(), id, req.Amount); err != nil {
		switch {
		case errors.Is(err, commands.ErrEquipmentNotFoundWrite):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Equipment not found",
			})
		case errors.Is(err, commands.ErrInvalidStockAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid stock amount",
			})
		case errors.Is(err, commands.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient stock",
			})
		case errors.Is(err, commands.ErrStockConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Stock was updated concurrently, try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
