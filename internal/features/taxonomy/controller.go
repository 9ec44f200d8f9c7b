package taxonomy

import (
	"github.com/gofiber/fiber/v2"
)

type TaxonomyController struct {
	Store *Store
}

func NewTaxonomyController(store *Store) *TaxonomyController {
	return &TaxonomyController{Store: store}
}

// GetTaxonomy godoc
// @Summary Workflow taxonomy
// @Description Phase codes and the phase/section/line item table with responsible roles
// @Tags taxonomy
// @Produce json
// @Success 200 {object} Document
// @Router /api/taxonomy [get]
func (c *TaxonomyController) GetTaxonomy(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Store.Current().Document())
}

// Resolve godoc
// @Summary Resolve a workflow step
// @Tags taxonomy
// @Produce json
// @Param phase query string true "Phase code or name"
// @Param stepName query string true "Step name"
// @Success 200 {object} Resolution
// @Failure 400 {object} map[string]string
// @Router /api/taxonomy/resolve [get]
func (c *TaxonomyController) Resolve(ctx *fiber.Ctx) error {
	stepName := ctx.Query("stepName")
	if stepName == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stepName query parameter is required"})
	}
	return ctx.JSON(c.Store.Resolve(stepName, ctx.Query("phase")))
}
