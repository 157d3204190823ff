package handlers

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/timeparse"
)

// ======================================================
// HANDLER
// ======================================================

type ShiftHandler struct {
	db *gorm.DB
}

func NewShiftHandler(db *gorm.DB) *ShiftHandler {
	return &ShiftHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type ShiftConfig struct {
	Weekday   int     `json:"weekday" binding:"min=0,max=6"`
	ShopID    *string `json:"shop_id"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
}

type ShiftUpdateRequest struct {
	Shifts []ShiftConfig `json:"shifts" binding:"required"`
}

// ======================================================
// GET
// ======================================================

func (h *ShiftHandler) Get(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(string)

	var shifts []models.Shift
	if err := h.db.
		Where("barber_id = ?", barberID).
		Order("weekday ASC, start_time ASC").
		Find(&shifts).Error; err != nil {

		httperr.Internal(c, "failed_to_get_shifts", "Could not load shifts.")
		return
	}

	httpresp.List(c, shifts)
}

// ======================================================
// UPDATE (replace-all)
// ======================================================

func (h *ShiftHandler) Update(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(string)

	var req ShiftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	for _, s := range req.Shifts {
		start, err := timeparse.ParseWallClock(s.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "start_time must be HH:MM.")
			return
		}
		end, err := timeparse.ParseWallClock(s.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "end_time must be HH:MM.")
			return
		}
		if start >= end {
			httperr.BadRequest(c, "invalid_window", "start_time must be before end_time.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barberID).Delete(&models.Shift{}).Error; err != nil {
			return err
		}

		var toCreate []models.Shift
		for _, s := range req.Shifts {
			toCreate = append(toCreate, models.Shift{
				BarberID:  barberID,
				ShopID:    s.ShopID,
				Weekday:   s.Weekday,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			})
		}

		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_shifts", "Could not save shifts.")
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}
