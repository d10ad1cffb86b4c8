package reports

import (
	"context"
	"database/sql"
	"fmt"

	"stock-insight/logging"
	"stock-insight/warehouse"
)

func salesReports() []*Report {
	return []*Report{
		{
			Group:        GroupSales,
			Name:         "unique_product_categories",
			Description:  "All unique product categories present in the sales forecast table",
			Exportable:   true,
			FailMessage:  "Error retrieving product categories",
			EmptyMessage: "No product categories found",
			Run:          runDistinct(warehouse.TableSalesForecast, "product_category"),
		},
		{
			Group:        GroupSales,
			Name:         "unique_warehouse_locations",
			Description:  "All unique warehouse locations present in the sales forecast table",
			Exportable:   true,
			FailMessage:  "Error retrieving warehouse locations",
			EmptyMessage: "No warehouse locations found",
			Run:          runDistinct(warehouse.TableSalesForecast, "warehouse_location"),
		},
		{
			Group:        GroupSales,
			Name:         "top_products_and_their_projected_demand",
			Description:  "Top 10 products by next month's forecast rate per day",
			Exportable:   true,
			FailMessage:  "Error retrieving projected demand",
			EmptyMessage: "No sales forecast data found",
			Run:          runProjectedDemand,
		},
		{
			Group:        GroupSales,
			Name:         "overselling_products_based_on_sales",
			Description:  "Sales and forecast metrics for overselling products",
			FailMessage:  "Error retrieving overselling products",
			EmptyMessage: "No overselling products found",
			Run:          runOverselling,
		},
		{
			Group:        GroupSales,
			Name:         "underselling_products_based_on_sales",
			Description:  "Sales and forecast metrics for underselling products",
			FailMessage:  "Error retrieving underselling products",
			EmptyMessage: "No underselling products found",
			Run:          runUnderselling,
		},
		{
			Group:       GroupSales,
			Name:        "sales_rate_by_product_and_location",
			Description: "Daily sales rate for one product across all locations",
			Params: []Param{
				{Name: "product_code", Label: "Product code", Required: true, Integer: true},
			},
			Exportable:   true,
			FailMessage:  "Error retrieving sales rate",
			EmptyMessage: "No sales data found for the given product",
			Run:          runSalesRate,
		},
		{
			Group:       GroupSales,
			Name:        "forecast_sales_vs_actual_sales_for_products_and_locations",
			Description: "Average forecast vs actual sales for one product across all locations",
			Params: []Param{
				{Name: "product_code", Label: "Product code", Required: true, Integer: true},
			},
			Exportable:   true,
			FailMessage:  "Error retrieving forecast metrics",
			EmptyMessage: "No forecast data found for the given product",
			Run:          runForecastVsActual,
		},
	}
}

type projectedDemand struct {
	ProductCode       string  `json:"Product Code"`
	CurrentSalesRate  float64 `json:"Current Month Sales Rate"`
	CurrentForecast   float64 `json:"Current Month Forecast Rate"`
	NextMonthForecast float64 `json:"Next Month Forecast Rate"`
}

func runProjectedDemand(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			Product_Code,
			AVG(MTDSalesRate) AS current_sales_rate,
			AVG(M1ForecastRate) AS current_forecast_rate,
			AVG(M2Forecast/26) AS next_forecast_rate
		FROM %s
		GROUP BY Product_Code
		ORDER BY next_forecast_rate DESC
		LIMIT 10`,
		x.Table(warehouse.TableSalesForecast))
	rows, err := x.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []projectedDemand
	for rows.Next() {
		var code sql.NullString
		var sales, forecast, next sql.NullFloat64
		if err := rows.Scan(&code, &sales, &forecast, &next); err != nil {
			return nil, err
		}
		out = append(out, projectedDemand{
			ProductCode:       code.String,
			CurrentSalesRate:  intMagnitude(sales),
			CurrentForecast:   intMagnitude(forecast),
			NextMonthForecast: intMagnitude(next),
		})
	}
	return out, rows.Err()
}

type oversellingProduct struct {
	ProductCode   string  `json:"Product Code"`
	TotalForecast float64 `json:"Total Forecast per day"`
	TotalSales    float64 `json:"Total Sales per day"`
	Oversold      float64 `json:"Oversold per day"`
}

type undersellingProduct struct {
	ProductCode   string  `json:"Product Code"`
	TotalForecast float64 `json:"Total Forecast per day"`
	TotalSales    float64 `json:"Total Sales per day"`
	Undersold     float64 `json:"Undersold per day"`
}

// Enveloppe 200 historique des deux rapports selling status.
type sellingStatusResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type sellingMetrics struct {
	ProductCode string
	Sales       float64
	Forecast    float64
	Difference  float64
}

func querySellingStatus(ctx context.Context, x warehouse.Executor, status, order string) ([]sellingMetrics, error) {
	q := fmt.Sprintf(`
		SELECT
			Product_Code,
			AVG(MTDSalesRate) AS total_sales_per_day,
			AVG(M1ForecastRate) AS total_forecast_per_day,
			AVG(ForecastError) AS sales_difference
		FROM %s
		WHERE Selling_Status = ?
		GROUP BY Product_Code
		ORDER BY %s`,
		x.Table(warehouse.TableSalesForecast), order)
	rows, err := x.Query(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []sellingMetrics
	for rows.Next() {
		var code sql.NullString
		var sales, forecast, diff sql.NullFloat64
		if err := rows.Scan(&code, &sales, &forecast, &diff); err != nil {
			return nil, err
		}
		out = append(out, sellingMetrics{
			ProductCode: code.String,
			Sales:       intMagnitude(sales),
			Forecast:    intMagnitude(forecast),
			Difference:  intMagnitude(diff),
		})
	}
	return out, rows.Err()
}

func runOverselling(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	metrics, err := querySellingStatus(ctx, x, "Overselling", "sales_difference ASC")
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}
	data := make([]oversellingProduct, 0, len(metrics))
	for _, m := range metrics {
		data = append(data, oversellingProduct{
			ProductCode:   m.ProductCode,
			TotalForecast: m.Forecast,
			TotalSales:    m.Sales,
			Oversold:      m.Difference,
		})
	}
	return sellingStatusResponse{
		Message: "All overselling products across all locations.",
		Data:    data,
	}, nil
}

func runUnderselling(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	metrics, err := querySellingStatus(ctx, x, "Underselling", "total_sales_per_day DESC")
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}
	data := make([]undersellingProduct, 0, len(metrics))
	for _, m := range metrics {
		data = append(data, undersellingProduct{
			ProductCode:   m.ProductCode,
			TotalForecast: m.Forecast,
			TotalSales:    m.Sales,
			Undersold:     m.Difference,
		})
	}
	return sellingStatusResponse{
		Message: "All underselling products across all locations.",
		Data:    data,
	}, nil
}

type salesRate struct {
	WarehouseLocation string  `json:"Warehouse Location"`
	SalesPerDay       float64 `json:"Sales rate per day"`
}

func runSalesRate(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			AVG(MTDSalesRate) AS sales
		FROM %s
		WHERE Product_Code = ?
		GROUP BY warehouse_location
		ORDER BY sales DESC`,
		x.Table(warehouse.TableSalesForecast))
	rows, err := x.Query(ctx, q, args.Int("product_code"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []salesRate
	for rows.Next() {
		var loc sql.NullString
		var sales sql.NullFloat64
		if err := rows.Scan(&loc, &sales); err != nil {
			return nil, err
		}
		out = append(out, salesRate{
			WarehouseLocation: loc.String,
			SalesPerDay:       intMagnitude(sales),
		})
	}
	return out, rows.Err()
}

type forecastVsActual struct {
	WarehouseLocation string  `json:"Warehouse Location"`
	ProductCode       string  `json:"Product Code"`
	AvgForecast       float64 `json:"Average Forecast Rate"`
	AvgSales          float64 `json:"Average Sales Rate"`
	AvgError          float64 `json:"Average Forecast Error"`
}

func runForecastVsActual(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			Product_Code,
			AVG(M1ForecastRate) AS total_forecast,
			AVG(MTDSalesRate) AS total_actual_sales,
			AVG(ForecastError) AS total_forecast_error
		FROM %s
		WHERE Product_Code = ?
		GROUP BY warehouse_location, Product_Code
		ORDER BY total_forecast DESC`,
		x.Table(warehouse.TableSalesForecast))
	rows, err := x.Query(ctx, q, args.Int("product_code"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []forecastVsActual
	for rows.Next() {
		var loc, code sql.NullString
		var forecast, sales, ferr sql.NullFloat64
		if err := rows.Scan(&loc, &code, &forecast, &sales, &ferr); err != nil {
			return nil, err
		}
		out = append(out, forecastVsActual{
			WarehouseLocation: loc.String,
			ProductCode:       code.String,
			AvgForecast:       intMagnitude(forecast),
			AvgSales:          intMagnitude(sales),
			AvgError:          intMagnitude(ferr),
		})
	}
	return out, rows.Err()
}
