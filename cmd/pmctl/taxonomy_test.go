package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pm/internal/features/taxonomy"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setViper(t *testing.T, key string, value any) {
	t.Helper()
	prev := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, prev) })
}

func TestCommandTaxonomy_NoSessionUsesBuiltIn(t *testing.T) {
	setViper(t, "token", "")

	tax := commandTaxonomy(context.Background(), zap.NewNop())
	require.NotNil(t, tax)
	assert.Equal(t,
		taxonomy.Default().Resolve("Input Customer Information", "LEAD"),
		tax.Resolve("Input Customer Information", "LEAD"))
}

func TestCommandTaxonomy_UsesServerTable(t *testing.T) {
	doc := taxonomy.Document{
		PhaseCodes: map[string]string{"LEAD": "Lead"},
		Phases: []taxonomy.Phase{{
			Name:  "Lead",
			Steps: []taxonomy.Entry{{StepName: "Call Back", Section: "Intake", LineItem: "Return call", ResponsibleRole: taxonomy.RoleOffice}},
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/taxonomy", r.URL.Path)
		assert.Equal(t, "Bearer t-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()
	setViper(t, "server", srv.URL)
	setViper(t, "token", "t-1")

	res := commandTaxonomy(context.Background(), zap.NewNop()).Resolve("call back", "LEAD")
	assert.Equal(t, "Intake", res.Section)
	assert.Equal(t, "Return call", res.LineItem)
}
