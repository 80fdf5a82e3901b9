package tools

import (
	"embed"
	"encoding/json"
	"fmt"

	"go-agentplan/pkg/models"
)

//go:embed catalog/*.json
var catalogFS embed.FS

var catalogFiles = map[models.AgentName]string{
	models.HrAgent:          "catalog/hr.json",
	models.MarketingAgent:   "catalog/marketing.json",
	models.ProcurementAgent: "catalog/procurement.json",
	models.ProductAgent:     "catalog/product.json",
	models.TechSupportAgent: "catalog/tech_support.json",
	models.GenericAgent:     "catalog/generic.json",
}

// Catalog loads the static tool list for the named agent.
func Catalog(name models.AgentName) ([]Tool, error) {
	file, ok := catalogFiles[name]
	if !ok {
		return nil, fmt.Errorf("no tool catalog for agent %s", name)
	}
	data, err := catalogFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", file, err)
	}
	var list []Tool
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", file, err)
	}
	return list, nil
}
