package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/hanmadi/internal/concept"
)

// List endpoints return defaultPageSize rows unless limit asks otherwise,
// and never more than maxPageSize.
const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// orderings accepts both the short names and field-style sort keys.
var orderings = map[string]concept.Order{
	"":               concept.OrderWeakestFirst,
	"weakest":        concept.OrderWeakestFirst,
	"mastery_score":  concept.OrderWeakestFirst,
	"strongest":      concept.OrderStrongestFirst,
	"-mastery_score": concept.OrderStrongestFirst,
	"recent":         concept.OrderRecentlyReviewed,
	"-last_reviewed": concept.OrderRecentlyReviewed,
	"alphabetical":   concept.OrderAlphabetical,
	"pattern":        concept.OrderAlphabetical,
	"word_korean":    concept.OrderAlphabetical,
	"random":         concept.OrderRandom,
}

func listOptions(c echo.Context) (concept.ListOptions, error) {
	var opts concept.ListOptions

	order, ok := orderings[strings.ToLower(strings.TrimSpace(c.QueryParam("ordering")))]
	if !ok {
		return opts, &paramError{Param: "ordering", Msg: "must be one of weakest, strongest, recent, alphabetical, random"}
	}
	opts.Order = order

	var err error
	if opts.Offset, err = intParam(c, "offset", 0); err != nil {
		return opts, err
	}
	if opts.Limit, err = limitParam(c); err != nil {
		return opts, err
	}
	return opts, nil
}

// limitParam reads limit, treating a missing or zero value as
// defaultPageSize.
func limitParam(c echo.Context) (int, error) {
	n, err := intParam(c, "limit", defaultPageSize)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		n = defaultPageSize
	}
	return n, nil
}

// intParam parses a non-negative query integer no larger than maxPageSize
// for limits.
func intParam(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &paramError{Param: name, Msg: "must be a non-negative integer"}
	}
	if name == "limit" && n > maxPageSize {
		return 0, &paramError{Param: name, Msg: "must be at most " + strconv.Itoa(maxPageSize)}
	}
	return n, nil
}

func idParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &paramError{Param: "id", Msg: "must be a positive integer"}
	}
	return id, nil
}
