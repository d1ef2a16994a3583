package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doGet(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductsPage(ctx context.Context, page, pageSize int, name string) (ProductPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	query := map[string]string{
		"page":     strconv.Itoa(page),
		"pageSize": strconv.Itoa(pageSize),
	}
	if name = strings.TrimSpace(name); name != "" {
		query["name"] = name
	}

	var result ProductPage
	if err := c.doGet(ctx, "/products/list", query, &result); err != nil {
		return ProductPage{}, err
	}
	return result, nil
}

func (c *Client) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	if err := requireID(p.ID); err != nil {
		return Product{}, err
	}
	var updated Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(p.ID.String()), p, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.doGet(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat Category) (Category, error) {
	var created Category
	if err := c.do(ctx, http.MethodPost, "/categories", cat, &created); err != nil {
		return Category{}, err
	}
	return created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, cat Category) (Category, error) {
	if err := requireID(cat.ID); err != nil {
		return Category{}, err
	}
	var updated Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(cat.ID.String()), cat, &updated); err != nil {
		return Category{}, err
	}
	return updated, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) ListSubcategories(ctx context.Context) ([]Subcategory, error) {
	var subcategories []Subcategory
	if err := c.doGet(ctx, "/subcategories", nil, &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (c *Client) CreateSubcategory(ctx context.Context, sub Subcategory) (Subcategory, error) {
	var created Subcategory
	if err := c.do(ctx, http.MethodPost, "/subcategories", sub, &created); err != nil {
		return Subcategory{}, err
	}
	return created, nil
}

func (c *Client) UpdateSubcategory(ctx context.Context, sub Subcategory) (Subcategory, error) {
	if err := requireID(sub.ID); err != nil {
		return Subcategory{}, err
	}
	var updated Subcategory
	if err := c.do(ctx, http.MethodPut, "/subcategories/"+url.PathEscape(sub.ID.String()), sub, &updated); err != nil {
		return Subcategory{}, err
	}
	return updated, nil
}

func (c *Client) DeleteSubcategory(ctx context.Context, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/subcategories/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) ListStock(ctx context.Context) ([]StockEntry, error) {
	var stock []StockEntry
	if err := c.doGet(ctx, "/stock", nil, &stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// SetStock replaces the quantity of one product in one store. The store is
// also sent as X-Store.
func (c *Client) SetStock(ctx context.Context, productID ID, store string, quantity int) error {
	if err := requireID(productID); err != nil {
		return err
	}
	body := StockEntry{ProductID: productID, Store: store, Quantity: quantity}
	return c.do(WithStore(ctx, store), http.MethodPost, "/stock/"+url.PathEscape(productID.String()), body, nil)
}
