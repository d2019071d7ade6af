package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/farxc/store_manager/internal/forms"
	"github.com/farxc/store_manager/internal/metrics"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
	"github.com/go-chi/chi/v5"
)

const ordersComponent = "Orders"

type mainPageData struct {
	MaxOrderNo int64
}

type orderIndexData struct {
	Orders     []store.OrderSummary
	MaxOrderNo int64
}

type loginData struct {
	MaxOrderNo int64
	CustNo     string
}

type customerOrdersData struct {
	CustNo     int64
	MaxOrderNo int64
	Orders     []store.OrderSummary
}

type orderInfoData struct {
	CustNo      int64              `json:"-"`
	OrderNo     int64              `json:"-"`
	MaxOrderNo  int64              `json:"-"`
	Containings []store.OrderLine  `json:"containings"`
	Total       []store.OrderTotal `json:"total"`
	PaidOrders  []int64            `json:"paid_orders"`
}

type orderFormData struct {
	CustNo     int64
	MaxOrderNo int64
	Products   []store.Product
}

// @Summary		Main page
// @Description	Menu page. JSON clients get every order sorted by customer.
// @Tags			Orders
// @Produce		json,html
// @Success		200	{object}	response.APIResponse[[]store.OrderSummary]
// @Router			/main [get]
func (app *application) handleMainPage(w http.ResponseWriter, r *http.Request) {
	orders, err := app.store.Orders.List(r.Context(), store.ByCustomer)
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	app.logger.Debug(ordersComponent, "Found %d rows.", len(orders))

	page := view.Page{Title: "Store", Data: mainPageData{MaxOrderNo: maxOrderNo(orders) + 1}}
	app.respond(w, r, "main", page, orders, "Successfully retrieved orders")
}

// @Summary		List orders
// @Description	All orders, most recent first.
// @Tags			Orders
// @Produce		json,html
// @Success		200	{object}	response.APIResponse[[]store.OrderSummary]
// @Router			/main/orders [get]
func (app *application) handleOrderIndex(w http.ResponseWriter, r *http.Request) {
	orders, err := app.store.Orders.List(r.Context(), store.ByDateDesc)
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	app.logger.Debug(ordersComponent, "Found %d rows.", len(orders))

	page := view.Page{Title: "Orders", Data: orderIndexData{Orders: orders, MaxOrderNo: maxOrderNo(orders) + 1}}
	app.respond(w, r, "order/index", page, orders, "Successfully retrieved orders")
}

func (app *application) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	maxOrder, err := pathInt(r, "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	app.render(w, r, http.StatusOK, "pay/login", view.Page{Title: "Customer orders", Data: loginData{MaxOrderNo: maxOrder}})
}

// handleLogin asks which customer's orders to work on. There is no
// authentication, only a check that the customer exists.
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	maxOrder, err := pathInt(r, "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}

	form, err := forms.DecodeLogin(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	page := view.Page{Title: "Customer orders", Data: loginData{MaxOrderNo: maxOrder, CustNo: form.CustNo}}
	if page.Errors = forms.Validate(form); page.Errors != nil {
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "pay/login", page)
		return
	}

	exists, err := app.store.Customers.Exists(r.Context(), form.CustomerNo())
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	if !exists {
		page.Errors = []string{"Customer not found."}
		app.invalidForm(w, r, http.StatusNotFound, "pay/login", page)
		return
	}

	redirect(w, r, customerOrdersURL(form.CustomerNo(), maxOrder))
}

// @Summary		Customer orders
// @Description	The orders of one customer, most recent first.
// @Tags			Orders
// @Produce		json,html
// @Param			cust_no			path		int	true	"Customer number"
// @Param			max_order_no	path		int	true	"Number for the next order"
// @Success		200				{object}	response.APIResponse[map[string][]store.OrderSummary]
// @Router			/main/login/{cust_no}/{max_order_no} [get]
func (app *application) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	custNo, maxOrder := ids[0], ids[1]

	orders, err := app.store.Orders.ListByCustomer(r.Context(), custNo)
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	app.logger.Debug(ordersComponent, "Found %d rows.", len(orders))

	page := view.Page{
		Title: "Orders",
		Data:  customerOrdersData{CustNo: custNo, MaxOrderNo: maxOrder, Orders: orders},
	}
	payload := map[string][]store.OrderSummary{"orders": orders}
	app.respond(w, r, "pay/index", page, payload, "Successfully retrieved customer orders")
}

func (app *application) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "order_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	custNo, orderNo, maxOrder := ids[0], ids[1], ids[2]

	err = app.store.Orders.Pay(r.Context(), orderNo, custNo)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		app.logger.Warn(ordersComponent, "Order %d already paid: %v", orderNo, err)
	case errors.Is(err, store.ErrMissingReference):
		app.storeError(w, r, ordersComponent, fmt.Errorf("%w: %w", store.ErrNotFound, err))
		return
	case err != nil:
		app.storeError(w, r, ordersComponent, err)
		return
	default:
		app.logger.Info(ordersComponent, "Paid order %d for customer %d", orderNo, custNo)
	}

	redirect(w, r, customerOrdersURL(custNo, maxOrder))
}

// @Summary		Order details
// @Description	Lines, total and the customer's paid orders for one order.
// @Tags			Orders
// @Produce		json,html
// @Param			cust_no			path		int	true	"Customer number"
// @Param			order_no		path		int	true	"Order number"
// @Param			max_order_no	path		int	true	"Number for the next order"
// @Success		200				{object}	response.APIResponse[orderInfoData]
// @Router			/main/login/{cust_no}/{order_no}/info/{max_order_no} [get]
func (app *application) handleOrderInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "order_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	info := orderInfoData{CustNo: ids[0], OrderNo: ids[1], MaxOrderNo: ids[2]}
	ctx := r.Context()

	if info.Containings, err = app.store.Orders.Lines(ctx, info.OrderNo); err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	if info.Total, err = app.store.Orders.Totals(ctx, info.OrderNo); err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	if info.PaidOrders, err = app.store.Orders.PaidOrders(ctx, info.CustNo); err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	app.logger.Debug(ordersComponent, "Order %d: lines=%d paid=%d", info.OrderNo, len(info.Containings), len(info.PaidOrders))

	page := view.Page{Title: "Order details", Data: info}
	app.respond(w, r, "pay/order_info", page, info, "Successfully retrieved order details")
}

func (app *application) handleOrderCreateForm(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}

	products, err := app.store.Products.ListDesc(r.Context())
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}

	page := view.Page{
		Title: "New order",
		Data:  orderFormData{CustNo: ids[0], MaxOrderNo: ids[1], Products: products},
	}
	app.respond(w, r, "pay/for_order", page, products, "Successfully retrieved products")
}

// handleOrderCreate places an order when at least one quantity is
// positive. The customer is sent back to their orders with the next order
// number.
func (app *application) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	custNo, maxOrder := ids[0], ids[1]
	ctx := r.Context()

	products, err := app.store.Products.ListDesc(ctx)
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}

	form, err := forms.DecodeOrder(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	page := view.Page{
		Title: "New order",
		Data:  orderFormData{CustNo: custNo, MaxOrderNo: maxOrder, Products: products},
	}
	if page.Errors = forms.Validate(form); page.Errors != nil {
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "pay/for_order", page)
		return
	}

	lines := form.Lines(products)
	if !forms.HasQuantity(lines) {
		page.Errors = []string{"Choose a quantity for at least one product."}
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "pay/for_order", page)
		return
	}

	orderNo, err := app.store.Orders.Create(ctx, maxOrder, custNo, lines)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			page.Errors = []string{"The customer or one of the products no longer exists."}
			app.invalidForm(w, r, http.StatusConflict, "pay/for_order", page)
			return
		}
		app.storeError(w, r, ordersComponent, err)
		return
	}
	metrics.RecordOrderCreated()

	app.logger.Info(ordersComponent, "Created order %d for customer %d: lines=%d", orderNo, custNo, len(lines))
	redirect(w, r, customerOrdersURL(custNo, orderNo+1))
}

// handleOrderDelete removes an order. flag says where the request came
// from: "customer" returns to the customer's orders, "employee" to the
// orders page.
func (app *application) handleOrderDelete(w http.ResponseWriter, r *http.Request) {
	ids, err := pathInts(r, "cust_no", "order_no", "max_order_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	custNo, orderNo, maxOrder := ids[0], ids[1], ids[2]

	var next string
	switch flag := chi.URLParam(r, "flag"); flag {
	case "customer":
		next = customerOrdersURL(custNo, maxOrder)
	case "employee":
		next = "/main/orders"
	default:
		app.badRequest(w, r, "unknown flag "+flag)
		return
	}

	cascade, err := app.store.Orders.Delete(r.Context(), orderNo)
	if err != nil {
		app.storeError(w, r, ordersComponent, err)
		return
	}
	metrics.RecordCascade("order_delete", cascade.Deleted)

	app.logger.Info(ordersComponent, "Deleted order %d of customer %d", orderNo, custNo)
	redirect(w, r, next)
}
