package reports

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stock-insight/logging"
	"stock-insight/warehouse"
)

func inventoryReports() []*Report {
	return []*Report{
		{
			Group:        GroupInventory,
			Name:         "unique_product_categories",
			Description:  "All unique product categories present in the available stock table",
			Exportable:   true,
			FailMessage:  "Error retrieving product categories",
			EmptyMessage: "No product categories found",
			Run:          runDistinct(warehouse.TableAvailableStock, "product_category"),
		},
		{
			Group:        GroupInventory,
			Name:         "unique_warehouse_locations",
			Description:  "All unique warehouse locations present in the available stock table",
			Exportable:   true,
			FailMessage:  "Error retrieving warehouse locations",
			EmptyMessage: "No warehouse locations found",
			Run:          runDistinct(warehouse.TableAvailableStock, "warehouse_location"),
		},
		{
			Group:        GroupInventory,
			Name:         "stocked_out_products_all_locations",
			Description:  "Stocked out products (less supply) per warehouse location",
			Exportable:   true,
			FailMessage:  "Error retrieving stocked out products",
			EmptyMessage: "No stocked out products found",
			Run:          runStockedOut,
		},
		{
			Group:        GroupInventory,
			Name:         "overstocked_products_by_location_and_product",
			Description:  "Top 10 products in excess, ordered by stock difference",
			Exportable:   true,
			FailMessage:  "Error retrieving overstocked items",
			EmptyMessage: "No overstocked items found.",
			Run:          runStockStatusTop("excess", "DESC"),
		},
		{
			Group:        GroupInventory,
			Name:         "understocked_products_by_location_and_product",
			Description:  "Top 10 products in shortage, ordered by stock difference",
			Exportable:   true,
			FailMessage:  "Failed to retrieve understocked products",
			EmptyMessage: "No understocked items found",
			Run:          runStockStatusTop("shortage", "ASC"),
		},
		{
			Group:        GroupInventory,
			Name:         "stock_distribution_and_status_across_all_locations",
			Description:  "Stock status distribution (shortage/excess/out-of-stock) per location",
			Exportable:   true,
			FailMessage:  "Error retrieving stock levels",
			EmptyMessage: "No stock level data found",
			Run:          runStockDistribution,
		},
		{
			Group:        GroupInventory,
			Name:         "inventory_variance_analysis_across_locations",
			Description:  "Top 5 positive and top 5 negative stock variances",
			FailMessage:  "Error processing stock variance data",
			EmptyMessage: "No stock variance data found",
			Run:          runVarianceAnalysis,
		},
		{
			Group:        GroupInventory,
			Name:         "expected_stock_requirements_for_products_till_month_ends",
			Description:  "Top 10 products by total required stock until month end",
			Exportable:   true,
			FailMessage:  "Error retrieving expected stock levels",
			EmptyMessage: "No stock level data found",
			Run:          runExpectedStockRequirements,
		},
		{
			Group:        GroupInventory,
			Name:         "cover_days_summary",
			Description:  "Product counts bucketed by cover days range",
			Exportable:   true,
			FailMessage:  "Error retrieving cover days distribution",
			EmptyMessage: "No cover days distribution data found",
			Run:          runCoverDaysSummary,
		},
		{
			Group:        GroupInventory,
			Name:         "discontinued_products_across_all_warehouse_locations",
			Description:  "Discontinued products per warehouse location",
			Exportable:   true,
			FailMessage:  "Error retrieving discontinued products data",
			EmptyMessage: "No discontinued products data found",
			Run:          runDiscontinued,
		},
		{
			Group:       GroupInventory,
			Name:        "get_inventory_level_for_products_and_locations",
			Description: "Stock at hand filtered by location and/or product code",
			Params: []Param{
				{Name: "location", Label: "Location"},
				{Name: "product_code", Label: "Product code"},
			},
			AtLeastOne:  []string{"location", "product_code"},
			Exportable:  true,
			FailMessage: "An error occurred while retrieving inventory data",
			EmptyMessageFunc: func(args Args) string {
				var criteria []string
				if v, ok := args["location"]; ok {
					criteria = append(criteria, "location: "+v)
				}
				if v, ok := args["product_code"]; ok {
					criteria = append(criteria, "product code: "+v)
				}
				return "No inventory data found for " + strings.Join(criteria, " and ")
			},
			Run: runInventoryLevel,
		},
		{
			Group:       GroupInventory,
			Name:        "estimated_stockout_of_products_by_cover_days",
			Description: "Per-location count of products at risk within the given cover days",
			Params: []Param{
				{Name: "cover_days", Label: "Cover days", Required: true, Integer: true, Positive: true},
			},
			Exportable:   true,
			FailMessage:  "An error occurred while retrieving stock estimates",
			EmptyMessage: "No estimates found for the given criteria",
			Run:          runEstimatedStockout,
		},
	}
}

// runDistinct fabrique le run des rapports "liste plate" (DISTINCT
// sur une seule colonne).
func runDistinct(logical, column string) RunFunc {
	return func(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
		q := fmt.Sprintf("SELECT DISTINCT %s FROM %s", column, x.Table(logical))
		rows, err := x.Query(ctx, q)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var values []string
		for rows.Next() {
			var v sql.NullString
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			if v.Valid {
				values = append(values, v.String)
			}
		}
		return values, rows.Err()
	}
}

type stockedOutLocation struct {
	WarehouseLocation string   `json:"Warehouse location"`
	TotalStockedOut   int      `json:"Total stocked out products"`
	ProductCodes      []string `json:"Product codes"`
}

const reasonLessSupply = "stockout due to less supply"

func runStockedOut(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			COUNT(*) AS total_stocked_out_products,
			%s AS stockout_product_codes
		FROM %s
		WHERE stock_out_reason = ?
		GROUP BY warehouse_location
		ORDER BY total_stocked_out_products DESC`,
		x.GroupConcat("product_code", ", "), x.Table(warehouse.TableOOS))
	rows, err := x.Query(ctx, q, reasonLessSupply)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []stockedOutLocation
	for rows.Next() {
		var loc sql.NullString
		var total int
		var codes sql.NullString
		if err := rows.Scan(&loc, &total, &codes); err != nil {
			return nil, err
		}
		out = append(out, stockedOutLocation{
			WarehouseLocation: loc.String,
			TotalStockedOut:   total,
			ProductCodes:      splitCodes(codes),
		})
	}
	return out, rows.Err()
}

type stockLevelItem struct {
	ProductCode       string  `json:"Product Code"`
	WarehouseLocation string  `json:"Warehouse Location"`
	CoverDays         float64 `json:"Cover Days"`
	CurrentStock      float64 `json:"Current Stock"`
	IdealStock        float64 `json:"Ideal Stock"`
	StockDifference   float64 `json:"Stock Difference"`
}

// runStockStatusTop couvre les deux rapports excess/shortage, seuls
// le filtre et le sens du tri changent. order est une constante du
// catalogue, jamais une entrée utilisateur.
func runStockStatusTop(status, order string) RunFunc {
	return func(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
		q := fmt.Sprintf(`
			SELECT
				product_code,
				warehouse_location,
				cover_days,
				stock_at_hand,
				ideal_required_quantity,
				stock_diff
			FROM %s
			WHERE stock_status = ?
			ORDER BY stock_diff %s
			LIMIT 10`,
			x.Table(warehouse.TableAvailableStock), order)
		rows, err := x.Query(ctx, q, status)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []stockLevelItem
		for rows.Next() {
			var code, loc sql.NullString
			var cover, current, ideal, diff sql.NullFloat64
			if err := rows.Scan(&code, &loc, &cover, &current, &ideal, &diff); err != nil {
				return nil, err
			}
			out = append(out, stockLevelItem{
				ProductCode:       code.String,
				WarehouseLocation: loc.String,
				CoverDays:         cover.Float64,
				CurrentStock:      current.Float64,
				IdealStock:        ideal.Float64,
				StockDifference:   diff.Float64,
			})
		}
		return out, rows.Err()
	}
}

type distributionRow struct {
	WarehouseLocation string `json:"Warehouse Location"`
	PartiallyStocked  int    `json:"Partially Stocked"`
	FullyStocked      int    `json:"Fully Stocked"`
	StockedOut        int    `json:"Stocked Out"`
	TotalItems        int    `json:"Total Items"`
}

func mapDistributionRow(loc sql.NullString, partial, full, oos sql.NullInt64) distributionRow {
	p := nonNegativeCount(partial)
	f := nonNegativeCount(full)
	c := nonNegativeCount(oos)
	return distributionRow{
		WarehouseLocation: stringOr(loc, "Unknown Location"),
		PartiallyStocked:  p,
		FullyStocked:      f,
		StockedOut:        c,
		TotalItems:        p + f + c,
	}
}

func runStockDistribution(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		WITH available_stock_summary AS (
			SELECT
				warehouse_location,
				SUM(CASE WHEN stock_status = 'shortage' THEN 1 ELSE 0 END) AS partially_stocked,
				SUM(CASE WHEN stock_status = 'excess' THEN 1 ELSE 0 END) AS fully_stocked
			FROM %s
			GROUP BY warehouse_location
		),
		oos_summary AS (
			SELECT warehouse_location, COUNT(*) AS completely_stockout
			FROM %s
			GROUP BY warehouse_location
		)
		SELECT
			a.warehouse_location,
			a.partially_stocked,
			a.fully_stocked,
			COALESCE(o.completely_stockout, 0) AS completely_stockout
		FROM available_stock_summary a
		LEFT JOIN oos_summary o ON a.warehouse_location = o.warehouse_location
		ORDER BY a.warehouse_location`,
		x.Table(warehouse.TableAvailableStock), x.Table(warehouse.TableOOS))
	rows, err := x.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []distributionRow
	var totalPartial, totalFull, totalOOS int
	for rows.Next() {
		var loc sql.NullString
		var partial, full, oos sql.NullInt64
		if err := rows.Scan(&loc, &partial, &full, &oos); err != nil {
			return nil, err
		}
		row := mapDistributionRow(loc, partial, full, oos)
		totalPartial += row.PartiallyStocked
		totalFull += row.FullyStocked
		totalOOS += row.StockedOut
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Totaux globaux : pas dans la réponse, juste tracés.
	if len(out) > 0 {
		logger.Writef("[DISTRIBUTION] locations=%d partial=%d full=%d oos=%d",
			len(out), totalPartial, totalFull, totalOOS)
	}
	return out, nil
}

type varianceItem struct {
	WarehouseLocation string  `json:"Warehouse Location"`
	ProductCode       string  `json:"Product Code"`
	ProductCategory   string  `json:"Product Category"`
	StockDifference   float64 `json:"Stock Difference"`
	CurrentStock      float64 `json:"Current Stock"`
	IdealStock        float64 `json:"Ideal Stock Requirement"`
	Variancy          string  `json:"Variancy"`
}

type varianceAnalysis struct {
	Positive []varianceItem `json:"positive_variance_data"`
	Negative []varianceItem `json:"negative_variance_data"`
}

func queryVariance(ctx context.Context, x warehouse.Executor, where, order string) ([]varianceItem, error) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			product_code,
			product_category,
			stock_diff,
			stock_at_hand,
			ideal_required_quantity
		FROM %s
		WHERE %s
		ORDER BY stock_diff %s
		LIMIT 5`,
		x.Table(warehouse.TableAvailableStock), where, order)
	rows, err := x.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []varianceItem{}
	for rows.Next() {
		var loc, code, cat sql.NullString
		var diff, current, ideal sql.NullFloat64
		if err := rows.Scan(&loc, &code, &cat, &diff, &current, &ideal); err != nil {
			return nil, err
		}
		items = append(items, varianceItem{
			WarehouseLocation: loc.String,
			ProductCode:       code.String,
			ProductCategory:   cat.String,
			StockDifference:   diff.Float64,
			CurrentStock:      current.Float64,
			IdealStock:        ideal.Float64,
			Variancy:          variancePercent(current.Float64, ideal.Float64),
		})
	}
	return items, rows.Err()
}

// Deux requêtes par appel : top 5 positifs, top 5 négatifs.
func runVarianceAnalysis(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	positive, err := queryVariance(ctx, x, "stock_diff > 0", "DESC")
	if err != nil {
		return nil, err
	}
	negative, err := queryVariance(ctx, x, "stock_diff < 0", "ASC")
	if err != nil {
		return nil, err
	}
	if len(positive) == 0 && len(negative) == 0 {
		return nil, nil
	}
	return varianceAnalysis{Positive: positive, Negative: negative}, nil
}

type expectedStockLevel struct {
	ProductCode   string `json:"Product Code"`
	RequiredStock int    `json:"Required Stock"`
	LocationCount int    `json:"Warehouse Location Count"`
}

func runExpectedStockRequirements(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			product_code,
			SUM(required_stock) AS total_required_stock,
			COUNT(DISTINCT warehouse_location) AS location_count
		FROM %s
		GROUP BY product_code
		ORDER BY total_required_stock DESC
		LIMIT 10`,
		x.Table(warehouse.TableAvailableStock))
	rows, err := x.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []expectedStockLevel
	for rows.Next() {
		var code sql.NullString
		var required sql.NullFloat64
		var locations sql.NullInt64
		if err := rows.Scan(&code, &required, &locations); err != nil {
			return nil, err
		}
		out = append(out, expectedStockLevel{
			ProductCode:   code.String,
			RequiredStock: int(required.Float64),
			LocationCount: int(locations.Int64),
		})
	}
	return out, rows.Err()
}

type coverDaysBucket struct {
	Range string `json:"Cover Days Range"`
	Count int    `json:"Product Code and Location pair count"`
}

func runCoverDaysSummary(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	bucket := `CASE
				WHEN cover_days BETWEEN 0 AND 5 THEN '0-5 days'
				WHEN cover_days BETWEEN 6 AND 10 THEN '6-10 days'
				WHEN cover_days BETWEEN 11 AND 30 THEN '11-30 days'
				WHEN cover_days BETWEEN 31 AND 60 THEN '31-60 days'
				WHEN cover_days > 60 THEN 'Over 60 days'
			END`
	q := fmt.Sprintf(`
		SELECT
			%s AS cover_days_range,
			COUNT(*) AS product_count
		FROM %s
		GROUP BY %s
		ORDER BY MIN(cover_days)`,
		bucket, x.Table(warehouse.TableAvailableStock), bucket)
	rows, err := x.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []coverDaysBucket
	for rows.Next() {
		var rng sql.NullString
		var count int
		if err := rows.Scan(&rng, &count); err != nil {
			return nil, err
		}
		out = append(out, coverDaysBucket{Range: rng.String, Count: count})
	}
	return out, rows.Err()
}

type discontinuedLocation struct {
	WarehouseLocation string   `json:"Warehouse Location"`
	DiscontinuedCount int      `json:"Discontinued Product Count"`
	ProductCodes      []string `json:"Discontinued Product Codes"`
}

const reasonDiscontinuation = "stockout due to discontinuation"

func runDiscontinued(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			COUNT(DISTINCT product_code) AS discontinued_products_count,
			%s AS discontinued_product_codes
		FROM %s
		WHERE stock_out_reason = ?
		GROUP BY warehouse_location
		ORDER BY discontinued_products_count DESC`,
		x.GroupConcat("product_code", ", "), x.Table(warehouse.TableOOS))
	rows, err := x.Query(ctx, q, reasonDiscontinuation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []discontinuedLocation
	for rows.Next() {
		var loc sql.NullString
		var count int
		var codes sql.NullString
		if err := rows.Scan(&loc, &count, &codes); err != nil {
			return nil, err
		}
		out = append(out, discontinuedLocation{
			WarehouseLocation: loc.String,
			DiscontinuedCount: count,
			ProductCodes:      splitCodes(codes),
		})
	}
	return out, rows.Err()
}

type inventoryLevel struct {
	WarehouseLocation string  `json:"Warehouse Location"`
	ProductCode       string  `json:"Product Code"`
	StockAtHand       float64 `json:"Available stock at hand"`
}

// inventoryLevelQuery construit le WHERE dynamique avec valeurs
// liées (jamais interpolées).
func inventoryLevelQuery(x warehouse.Executor, args Args) (string, []interface{}) {
	var conds []string
	var qargs []interface{}
	if v, ok := args["location"]; ok {
		conds = append(conds, "warehouse_location = ?")
		qargs = append(qargs, v)
	}
	if v, ok := args["product_code"]; ok {
		conds = append(conds, "product_code = ?")
		qargs = append(qargs, v)
	}
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			product_code,
			stock_at_hand
		FROM %s
		WHERE %s
		ORDER BY warehouse_location, stock_at_hand DESC`,
		x.Table(warehouse.TableAvailableStock), strings.Join(conds, " AND "))
	return q, qargs
}

func runInventoryLevel(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q, qargs := inventoryLevelQuery(x, args)
	rows, err := x.Query(ctx, q, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []inventoryLevel
	for rows.Next() {
		var loc, code sql.NullString
		var stock sql.NullFloat64
		if err := rows.Scan(&loc, &code, &stock); err != nil {
			return nil, err
		}
		out = append(out, inventoryLevel{
			WarehouseLocation: loc.String,
			ProductCode:       code.String,
			StockAtHand:       stock.Float64,
		})
	}
	return out, rows.Err()
}

type stockoutEstimate struct {
	WarehouseLocation string `json:"Warehouse Location"`
	TotalProducts     int    `json:"Total Products"`
	BelowThreshold    int    `json:"Count of Products under given days"`
}

func estimatedStockoutQuery(x warehouse.Executor, coverDays int) (string, []interface{}) {
	q := fmt.Sprintf(`
		SELECT
			warehouse_location,
			COUNT(*) AS total_products,
			SUM(CASE WHEN cover_days <= ? THEN 1 ELSE 0 END) AS products_below_threshold
		FROM %s
		GROUP BY warehouse_location
		HAVING SUM(CASE WHEN cover_days <= ? THEN 1 ELSE 0 END) > 0
		ORDER BY products_below_threshold DESC`,
		x.Table(warehouse.TableAvailableStock))
	return q, []interface{}{coverDays, coverDays}
}

func runEstimatedStockout(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error) {
	q, qargs := estimatedStockoutQuery(x, args.Int("cover_days"))
	rows, err := x.Query(ctx, q, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []stockoutEstimate
	for rows.Next() {
		var loc sql.NullString
		var total, below sql.NullInt64
		if err := rows.Scan(&loc, &total, &below); err != nil {
			return nil, err
		}
		out = append(out, stockoutEstimate{
			WarehouseLocation: loc.String,
			TotalProducts:     int(total.Int64),
			BelowThreshold:    int(below.Int64),
		})
	}
	return out, rows.Err()
}
