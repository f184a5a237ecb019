package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/filter"
	"outfit-studio/internal/models"
)

type CatalogHandler struct {
	loader *catalog.Loader
	images ImageStore
	logger *zap.Logger
}

func NewCatalogHandler(loader *catalog.Loader, images ImageStore, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{loader: loader, images: images, logger: logger}
}

// GetCatalog godoc
// @Summary     Shuffled, filtered outfit deck
// @Description Loads the outfit collection (falling back to the bundled catalog), shuffles it,
// @Description prepends the create card and applies the filter given in the query.
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Param       q         query string false "Search text"
// @Param       occasion  query []string false "Occasion ids" collectionFormat(multi)
// @Param       gender    query string false "male or female"
// @Param       generated query string false "all, generated or not_generated"
// @Success     200 {object} models.CatalogResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	state := filterStateFromQuery(c)

	var records []models.GeneratedRecord
	if state.Status() != models.GeneratedAll {
		images, err := h.images.ListGeneratedImages(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to load generated images",
				Message: err.Error(),
			})
			return
		}
		records = generatedRecords(images)
	}

	result := h.loader.Load(c.Request.Context())
	cards := filter.Apply(result.Cards, state, records)
	if cards == nil {
		cards = []models.Card{}
	}

	response := models.CatalogResponse{
		Cards:      cards,
		Provenance: string(result.Source.Provenance),
		Empty:      !state.IsDefault() && len(cards) == 0,
		Dropped:    result.Dropped,
	}
	if result.FallbackReason != nil {
		response.FallbackReason = result.FallbackReason.Error()
	}
	c.JSON(http.StatusOK, response)
}

// GetFilterOptions godoc
// @Summary     Filter choices
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.FilterOptionsResponse
// @Router      /api/v1/catalog/filters [get]
func (h *CatalogHandler) GetFilterOptions(c *gin.Context) {
	ids := filter.Occasions()
	occasions := make([]models.OccasionOption, len(ids))
	for i, id := range ids {
		occasions[i] = models.OccasionOption{ID: id, Synonyms: filter.Synonyms(id)}
	}

	c.JSON(http.StatusOK, models.FilterOptionsResponse{
		Occasions: occasions,
		Genders:   []string{string(models.GenderMale), string(models.GenderFemale)},
		GeneratedStatus: []string{
			string(models.GeneratedAll),
			string(models.GeneratedOnly),
			string(models.NotGenerated),
		},
	})
}

func filterStateFromQuery(c *gin.Context) models.FilterState {
	state := models.DefaultFilterState()
	state.Query = c.Query("q")
	for _, occasion := range c.QueryArray("occasion") {
		if occasion != "" {
			state.Occasions = append(state.Occasions, occasion)
		}
	}
	state.Gender = models.ParseGender(c.Query("gender"))
	state.GeneratedStatus = models.ParseGeneratedStatus(c.Query("generated"))
	return state
}
