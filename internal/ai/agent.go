package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockease/internal/billing"
	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a shopkeeper question using live stock and billing data.
// The model decides which tool to call; each tool reads from the database
// and feeds the result back for a final natural-language answer.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the Stock8Ease shop assistant.

RULES:
1. STOCK: For price, cost, quantity or expiry of any item, call 'check_stock'
   and read the answer from the returned JSON. Do not say you cannot look it up.
2. SALES: For sales or profit questions, call 'get_sales_report' with a date range.
3. DUES: For unpaid bills or outstanding customer balances, call 'get_outstanding_dues'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_stock",
					Description: "Get the full stock list. Use this to find ANY product details like code, name, selling price, cost price, quantity or expiry.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales, profit and bill count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "get_outstanding_dues",
					Description: "Get the total unpaid amount and the per-customer breakdown of unpaid bills.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_stock":
				return executeCheckStock(ctx, session)
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall)
			case "get_outstanding_dues":
				return executeOutstandingDues(ctx, session)
			}
		}
	}

	return textResponse(resp), nil
}

func executeCheckStock(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		return "", err
	}

	type stockRow struct {
		Code     string  `json:"code"`
		Name     string  `json:"name"`
		Selling  float64 `json:"selling_price"`
		Cost     float64 `json:"cost_price"`
		Quantity int     `json:"quantity"`
		Expiry   string  `json:"expiry"`
	}
	rows := make([]stockRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, stockRow{
			Code:     p.ProductCode,
			Name:     p.ItemName,
			Selling:  p.SellingPrice,
			Cost:     p.CostPrice,
			Quantity: p.Quantity,
			Expiry:   p.Expiry.Format("2006-01-02"),
		})
	}

	jsonBytes, _ := json.Marshal(rows)

	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_stock",
		Response: map[string]interface{}{"stock": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return textResponse(resp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) (string, error) {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.SalesBetween(database.DB, start, end)
	if err != nil {
		return "", err
	}

	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"profit":      report.TotalProfit,
			"sales_count": report.TotalCount,
		},
	})
	if err != nil {
		return "", err
	}
	return textResponse(resp), nil
}

func executeOutstandingDues(ctx context.Context, session *genai.ChatSession) (string, error) {
	total, err := database.TotalDue(database.DB, billing.StatusUnpaid)
	if err != nil {
		return "", err
	}
	dues, err := database.CustomerDues(database.DB, billing.StatusUnpaid)
	if err != nil {
		return "", err
	}

	jsonBytes, _ := json.Marshal(dues)

	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_outstanding_dues",
		Response: map[string]interface{}{
			"total_due": total,
			"customers": string(jsonBytes),
		},
	})
	if err != nil {
		return "", err
	}
	return textResponse(resp), nil
}

func textResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
