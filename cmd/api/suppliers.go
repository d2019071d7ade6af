package main

import (
	"errors"
	"net/http"

	"github.com/farxc/store_manager/internal/forms"
	"github.com/farxc/store_manager/internal/metrics"
	"github.com/farxc/store_manager/internal/store"
	"github.com/farxc/store_manager/internal/view"
	"github.com/go-chi/chi/v5"
)

const suppliersComponent = "Suppliers"

type supplierIndexData struct {
	Suppliers []store.SupplierListing
}

// @Summary		List suppliers
// @Description	All suppliers with the product they supply, by ascending TIN.
// @Tags			Suppliers
// @Produce		json,html
// @Success		200	{object}	response.APIResponse[[]store.SupplierListing]
// @Router			/main/suppliers [get]
func (app *application) handleSupplierIndex(w http.ResponseWriter, r *http.Request) {
	suppliers, err := app.store.Suppliers.List(r.Context())
	if err != nil {
		app.storeError(w, r, suppliersComponent, err)
		return
	}
	app.logger.Debug(suppliersComponent, "Found %d rows.", len(suppliers))

	page := view.Page{Title: "Suppliers", Data: supplierIndexData{Suppliers: suppliers}}
	app.respond(w, r, "supplier/index", page, suppliers, "Successfully retrieved suppliers")
}

func (app *application) handleSupplierCreateForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "supplier/create", view.Page{Title: "New supplier", Data: forms.SupplierForm{}})
}

func (app *application) handleSupplierCreate(w http.ResponseWriter, r *http.Request) {
	form, err := forms.DecodeSupplier(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	page := view.Page{Title: "New supplier", Data: form}
	if page.Errors = forms.Validate(form); page.Errors != nil {
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "supplier/create", page)
		return
	}

	if err := app.store.Suppliers.Create(r.Context(), form.Supplier()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			page.Errors = []string{"Supplier TIN already exists or the SKU is unknown."}
			app.invalidForm(w, r, http.StatusConflict, "supplier/create", page)
			return
		}
		app.storeError(w, r, suppliersComponent, err)
		return
	}

	app.logger.Info(suppliersComponent, "Created supplier %s for product %s", form.TIN, form.SKU)
	redirect(w, r, "/main/suppliers")
}

func (app *application) handleSupplierDelete(w http.ResponseWriter, r *http.Request) {
	tin := chi.URLParam(r, "tin")

	cascade, err := app.store.Suppliers.Delete(r.Context(), tin)
	if err != nil {
		app.storeError(w, r, suppliersComponent, err)
		return
	}
	metrics.RecordCascade("supplier_delete", cascade.Deleted)

	app.logger.Info(suppliersComponent, "Deleted supplier %s: deliveries=%d", tin, cascade.Deleted["delivery"])
	redirect(w, r, "/main/suppliers")
}
