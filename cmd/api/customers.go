package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/farxc/store_manager/internal/forms"
	"github.com/farxc/store_manager/internal/metrics"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
)

const customersComponent = "Customers"

type customerIndexData struct {
	Customers []store.Customer
	MaxCustNo int64
}

type customerCreateData struct {
	CustNo int64
	Form   forms.CustomerForm
}

// @Summary		List customers
// @Description	All customers by customer number. The page links the customer form with the next free number.
// @Tags			Customers
// @Produce		json,html
// @Success		200	{object}	response.APIResponse[[]store.Customer]
// @Router			/main/customers [get]
func (app *application) handleCustomerIndex(w http.ResponseWriter, r *http.Request) {
	customers, err := app.store.Customers.List(r.Context())
	if err != nil {
		app.storeError(w, r, customersComponent, err)
		return
	}
	app.logger.Debug(customersComponent, "Found %d rows.", len(customers))

	page := view.Page{
		Title: "Customers",
		Data:  customerIndexData{Customers: customers, MaxCustNo: maxCustNo(customers) + 1},
	}
	app.respond(w, r, "customer/index", page, customers, "Successfully retrieved customers")
}

func (app *application) handleCustomerCreateForm(w http.ResponseWriter, r *http.Request) {
	custNo, err := pathInt(r, "max_cust_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	app.render(w, r, http.StatusOK, "customer/create", view.Page{Title: "New customer", Data: customerCreateData{CustNo: custNo}})
}

// handleCustomerCreate inserts the customer under the number the customer
// list handed out in the URL.
func (app *application) handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	custNo, err := pathInt(r, "max_cust_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}

	form, err := forms.DecodeCustomer(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	page := view.Page{Title: "New customer", Data: customerCreateData{CustNo: custNo, Form: form}}
	if page.Errors = forms.Validate(form); page.Errors != nil {
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "customer/create", page)
		return
	}

	if err := app.store.Customers.Create(r.Context(), form.Customer(custNo)); err != nil {
		if errors.Is(err, store.ErrConflict) {
			page.Errors = []string{fmt.Sprintf("Customer number %d is already taken.", custNo)}
			app.invalidForm(w, r, http.StatusConflict, "customer/create", page)
			return
		}
		app.storeError(w, r, customersComponent, err)
		return
	}

	app.logger.Info(customersComponent, "Created customer %d", custNo)
	redirect(w, r, "/main/customers")
}

func (app *application) handleCustomerDelete(w http.ResponseWriter, r *http.Request) {
	custNo, err := pathInt(r, "cust_no")
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}

	cascade, err := app.store.Customers.Delete(r.Context(), custNo)
	if err != nil {
		app.storeError(w, r, customersComponent, err)
		return
	}
	metrics.RecordCascade("customer_delete", cascade.Deleted)

	app.logger.Info(customersComponent, "Deleted customer %d: orders=%d", custNo, cascade.Deleted["orders"])
	redirect(w, r, "/main/customers")
}
