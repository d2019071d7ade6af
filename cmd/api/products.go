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

const productsComponent = "Products"

type productIndexData struct {
	Products []store.Product
}

type productUpdateData struct {
	SKU         string
	Name        string
	Price       string
	Description string
}

// @Summary		List products
// @Description	All products, alphabetically.
// @Tags			Products
// @Produce		json,html
// @Success		200	{object}	response.APIResponse[[]store.Product]
// @Router			/main/products [get]
func (app *application) handleProductIndex(w http.ResponseWriter, r *http.Request) {
	products, err := app.store.Products.List(r.Context())
	if err != nil {
		app.storeError(w, r, productsComponent, err)
		return
	}
	app.logger.Debug(productsComponent, "Found %d rows.", len(products))

	page := view.Page{Title: "Products", Data: productIndexData{Products: products}}
	app.respond(w, r, "product/index", page, products, "Successfully retrieved products")
}

func (app *application) handleProductCreateForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "product/create", view.Page{Title: "New product", Data: forms.ProductForm{}})
}

func (app *application) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	form, err := forms.DecodeProduct(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	page := view.Page{Title: "New product", Data: form}
	if page.Errors = forms.Validate(form); page.Errors != nil {
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "product/create", page)
		return
	}

	if err := app.store.Products.Create(r.Context(), form.Product()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			page.Errors = []string{fmt.Sprintf("Product %s already exists.", form.SKU)}
			app.invalidForm(w, r, http.StatusConflict, "product/create", page)
			return
		}
		app.storeError(w, r, productsComponent, err)
		return
	}

	app.logger.Info(productsComponent, "Created product %s", form.SKU)
	redirect(w, r, "/main/products")
}

func (app *application) handleProductUpdateForm(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	product, err := app.store.Products.Get(r.Context(), sku)
	if err != nil {
		app.storeError(w, r, productsComponent, err)
		return
	}

	page := view.Page{
		Title: "Edit " + product.Name,
		Data: productUpdateData{
			SKU:         product.SKU,
			Name:        product.Name,
			Price:       product.Price.String(),
			Description: product.Description,
		},
	}
	app.respond(w, r, "product/update", page, product, "Successfully retrieved product")
}

func (app *application) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	product, err := app.store.Products.Get(r.Context(), sku)
	if err != nil {
		app.storeError(w, r, productsComponent, err)
		return
	}

	form, err := forms.DecodeProductUpdate(r)
	if err != nil {
		app.badRequest(w, r, "invalid form")
		return
	}

	if msgs := forms.Validate(form); msgs != nil {
		page := view.Page{
			Title:  "Edit " + product.Name,
			Errors: msgs,
			Data: productUpdateData{
				SKU:         product.SKU,
				Name:        product.Name,
				Price:       form.Price,
				Description: form.Description,
			},
		}
		app.invalidForm(w, r, http.StatusUnprocessableEntity, "product/update", page)
		return
	}

	if err := app.store.Products.Update(r.Context(), sku, form.PriceValue(), form.Description); err != nil {
		app.storeError(w, r, productsComponent, err)
		return
	}

	app.logger.Info(productsComponent, "Updated product %s: price=%s", sku, form.Price)
	redirect(w, r, "/main/products")
}

func (app *application) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	cascade, err := app.store.Products.Delete(r.Context(), sku)
	if err != nil {
		app.storeError(w, r, productsComponent, err)
		return
	}
	metrics.RecordCascade("product_delete", cascade.Deleted)

	app.logger.Info(productsComponent, "Deleted product %s: ordersRemoved=%v", sku, cascade.OrdersRemoved)
	redirect(w, r, "/main/products")
}
