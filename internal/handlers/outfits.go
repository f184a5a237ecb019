package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/models"
)

type OutfitsHandler struct {
	source catalog.OutfitSource
	logger *zap.Logger
}

func NewOutfitsHandler(source catalog.OutfitSource, logger *zap.Logger) *OutfitsHandler {
	return &OutfitsHandler{source: source, logger: logger}
}

// GetAllOutfits godoc
// @Summary     List every outfit
// @Description Returns the whole remote outfit collection. No paging.
// @Tags        outfits
// @Produce     json
// @Success     200 {array}  models.RemoteOutfit
// @Failure     502 {object} models.ErrorResponse
// @Router      /getAllOutfits [get]
func (h *OutfitsHandler) GetAllOutfits(c *gin.Context) {
	outfits, err := h.source.FetchOutfits(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch outfits", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to fetch outfits",
			Message: err.Error(),
		})
		return
	}
	if outfits == nil {
		outfits = []models.RemoteOutfit{}
	}
	c.JSON(http.StatusOK, outfits)
}
