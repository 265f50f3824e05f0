package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/report"
)

var (
	orderingParam = "ordering"
	searchParam   = "search"
)

// Ordering is the first known field of the "ordering" query param ("-field" sorts descending).
type Ordering struct {
	Key   report.SortKey
	Order report.Order
	Set   bool
}

func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Key, ord.Order, ord.Set = report.ParseOrdering(ctx.QueryParam(orderingParam))
}

func bindQuery(ctx echo.Context) (string, Ordering) {
	var ord Ordering
	ord.Bind(ctx)
	return core.CleanString(ctx.QueryParam(searchParam)), ord
}
