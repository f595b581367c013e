package rpc

// toolsListResult describes the single registered search tool and its
// accepted parameters. The shape is a fixed contract.
func toolsListResult() map[string]any {
	return map[string]any{
		"tools": []map[string]any{{
			"name":        toolName,
			"description": "Search the Nadlan property database. Pass the original user query in _query_text parameter for optimal formatting.",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"_query_text":   prop("string", "Original user query for intent detection"),
					"max_price":     prop("number", "Maximum price in NIS"),
					"min_price":     prop("number", "Minimum price in NIS"),
					"rooms":         prop("number", "Minimum number of rooms"),
					"property_type": prop("string", "Property type filter"),
					"transaction_type": map[string]any{
						"type":        "string",
						"description": "Filter by transaction type (For Sale or To Let)",
						"enum":        []string{"For Sale", "To Let"},
					},
					"neighborhoods": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Hebrew neighborhood names",
					},
					"near_schools": prop("boolean", "Properties within 1.5km of schools"),
					"near_medical": prop("boolean", "Properties within 2km of medical facilities"),
					"has_parking":  prop("boolean", "Must have parking"),
					"has_elevator": prop("boolean", "Must have elevator"),
					"has_balcony":  prop("boolean", "Must have balcony"),
					"sort_by": map[string]any{
						"type":        "string",
						"description": "Sort order",
						"enum":        []string{"price_low", "price_high", "madlan_match", "area", "school_distance", "newest"},
					},
					"limit": prop("number", "Maximum results (default 10)"),
				},
				"additionalProperties": false,
			},
		}},
	}
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}
