package claude

// extractTool is the tool schema the model must answer with. Property names
// mirror the column headers of the partner delivery sheets so the model maps
// them without guessing.
var extractTool = map[string]interface{}{
	"name":        toolName,
	"description": "Report every product row found on the delivery sheet.",
	"input_schema": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"products": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"trackingId": map[string]interface{}{
							"type":        "string",
							"description": "Tracking number exactly as printed",
						},
						"clientName": map[string]interface{}{
							"type":        "string",
							"description": "Recipient full name",
						},
						"phone": map[string]interface{}{
							"type":        "string",
							"description": "Recipient phone number",
						},
						"price": map[string]interface{}{
							"type":        "string",
							"description": "COD amount as printed, including currency text if any",
						},
					},
					"required": []string{"trackingId"},
				},
			},
		},
		"required": []string{"products"},
	},
}

const basePrompt = `You are reading a scanned delivery sheet (bordereau) from a parcel delivery company.
Extract every product row on the sheet and report them with the extract_products tool.
Keep tracking numbers exactly as printed. Do not invent rows. If a cell is unreadable, leave the field empty.`

const zrExpressPrompt = basePrompt + `
This sheet follows the ZR Express layout: the tracking number is in the "Tracking" column,
the recipient in "Client", the phone in "Telephone" and the COD amount in "Montant".
Ignore the totals row at the bottom of the table.`

// buildPrompt selects the extraction prompt for a company's sheet template.
func buildPrompt(templateHint string) string {
	switch templateHint {
	case "zr_express":
		return zrExpressPrompt
	default:
		return basePrompt
	}
}
