package taxonomy

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-pm/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	route := NewTaxonomyApi(NewTaxonomyController(NewStore(Default())), &config.Config{SkipAuth: true})
	route.Setup(app)
	return app
}

func TestTaxonomyController_Resolve(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/taxonomy/resolve?phase=LEAD&stepName=Input%20Customer%20Information", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got Resolution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, RoleOffice, got.ResponsibleRole)
	assert.Equal(t, "Make sure the name is spelled correctly", got.LineItem)
}

func TestTaxonomyController_ResolveRequiresStepName(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/taxonomy/resolve?phase=LEAD", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTaxonomyController_GetTaxonomy(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/taxonomy", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var doc Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "2nd Supp", doc.PhaseCodes["SUPPLEMENT"])
	assert.Len(t, doc.Phases, 7)
}
