// Package analytics computes sales reports from orders.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"balcao/internal/models"

	"github.com/shopspring/decimal"
)

// DateRange names a reporting window relative to now.
type DateRange string

const (
	RangeToday      DateRange = "today"
	RangeYesterday  DateRange = "yesterday"
	RangeLast7Days  DateRange = "last7days"
	RangeLast30Days DateRange = "last30days"
	RangeAll        DateRange = "all"
)

// ParseDateRange accepts the range names above; empty means today.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(s); r {
	case "":
		return RangeToday, nil
	case RangeToday, RangeYesterday, RangeLast7Days, RangeLast30Days, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// Bounds returns the inclusive window for r, with day boundaries taken in
// now's location. RangeAll has no bounds.
func (r DateRange) Bounds(now time.Time) (from, to *time.Time) {
	if r == RangeAll {
		return nil, nil
	}

	today := startOfDay(now)
	start, end := today, endOfDay(now)
	switch r {
	case RangeYesterday:
		start = today.AddDate(0, 0, -1)
		end = today.Add(-time.Nanosecond)
	case RangeLast7Days:
		start = today.AddDate(0, 0, -6)
	case RangeLast30Days:
		start = today.AddDate(0, 0, -29)
	}
	return &start, &end
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// NoSalesType labels orders placed without a sales type.
const NoSalesType = "Sem tipo"

// TopProductsLimit bounds Report.TopProducts.
const TopProductsLimit = 10

type ProductSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type TypeSales struct {
	Name    string          `json:"name"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
}

// Report summarizes one date range. Revenue figures only count orders that
// were completed or picked up; StatusCounts covers every order in range.
type Report struct {
	Range         DateRange       `json:"range"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOrders   int             `json:"total_orders"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	TotalItems    int             `json:"total_items"`
	TopProducts   []ProductSales  `json:"top_products"`
	SalesByType   []TypeSales     `json:"sales_by_type"`
	StatusCounts  []StatusCount   `json:"status_counts"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// Revenue reports whether an order in status s counts as a sale.
func Revenue(s models.OrderStatus) bool {
	return s == models.StatusCompleted || s == models.StatusPickedUp
}

// Summarize aggregates orders, which must already be restricted to the range.
// Products are keyed by the name snapshot on each item.
func Summarize(orders []*models.Order) *Report {
	report := &Report{
		TotalRevenue:  decimal.Zero,
		AverageTicket: decimal.Zero,
		TopProducts:   []ProductSales{},
		SalesByType:   []TypeSales{},
		StatusCounts:  []StatusCount{},
	}

	products := map[string]*ProductSales{}
	var productOrder []string
	types := map[string]*TypeSales{}
	var typeOrder []string
	statuses := map[models.OrderStatus]int{}

	for _, order := range orders {
		statuses[order.Status]++
		if !Revenue(order.Status) {
			continue
		}

		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(order.Total)

		for i := range order.Items {
			item := &order.Items[i]
			ps, ok := products[item.ProductName]
			if !ok {
				ps = &ProductSales{Name: item.ProductName, Revenue: decimal.Zero}
				products[item.ProductName] = ps
				productOrder = append(productOrder, item.ProductName)
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.LineTotal())
			report.TotalItems += item.Quantity
		}

		typeName := NoSalesType
		if order.SalesType != nil && order.SalesType.Name != "" {
			typeName = order.SalesType.Name
		}
		ts, ok := types[typeName]
		if !ok {
			ts = &TypeSales{Name: typeName, Revenue: decimal.Zero}
			types[typeName] = ts
			typeOrder = append(typeOrder, typeName)
		}
		ts.Orders++
		ts.Revenue = ts.Revenue.Add(order.Total)
	}

	if report.TotalOrders > 0 {
		report.AverageTicket = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.TotalOrders))).Round(2)
	}

	for _, name := range productOrder {
		report.TopProducts = append(report.TopProducts, *products[name])
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Quantity > report.TopProducts[j].Quantity
	})
	if len(report.TopProducts) > TopProductsLimit {
		report.TopProducts = report.TopProducts[:TopProductsLimit]
	}

	for _, name := range typeOrder {
		report.SalesByType = append(report.SalesByType, *types[name])
	}

	for _, status := range models.AllStatuses {
		if n := statuses[status]; n > 0 {
			report.StatusCounts = append(report.StatusCounts, StatusCount{Status: status, Label: status.Label(), Count: n})
		}
	}

	return report
}
