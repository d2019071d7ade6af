package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/farxc/store_manager/internal/store"
	"github.com/go-chi/chi/v5"
)

// pathInt reads a numeric route parameter.
func pathInt(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return n, nil
}

// pathInts reads several numeric route parameters, stopping at the first
// bad one.
func pathInts(r *http.Request, names ...string) ([]int64, error) {
	out := make([]int64, len(names))
	for i, name := range names {
		n, err := pathInt(r, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func maxOrderNo(orders []store.OrderSummary) int64 {
	var highest int64
	for _, o := range orders {
		if o.OrderNo > highest {
			highest = o.OrderNo
		}
	}
	return highest
}

func maxCustNo(customers []store.Customer) int64 {
	var highest int64
	for _, c := range customers {
		if c.CustNo > highest {
			highest = c.CustNo
		}
	}
	return highest
}

func customerOrdersURL(custNo, maxOrderNo int64) string {
	return fmt.Sprintf("/main/login/%d/%d", custNo, maxOrderNo)
}
