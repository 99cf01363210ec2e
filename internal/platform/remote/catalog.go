package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Book is the catalog service's view of a book.
type Book struct {
	ID        int64  `json:"idLivro,omitempty"`
	Title     string `json:"titulo"`
	Publisher string `json:"editora"`
	Stock     int    `json:"estoque"`
}

// StockUpdate is the body sent to overwrite a book's stock count.
type StockUpdate struct {
	Quantity int `json:"novaQuantidade"`
}

// CatalogClient talks to the catalog service.
type CatalogClient struct {
	c *client
}

// NewCatalogClient creates a client for the catalog service at cfg.BaseURL.
func NewCatalogClient(cfg ClientConfig, logger *slog.Logger) (*CatalogClient, error) {
	c, err := newClient(cfg, "catalog_client", logger)
	if err != nil {
		return nil, err
	}
	return &CatalogClient{c: c}, nil
}

// GetBook fetches a book by id. A book without a title is an invalid response.
func (cc *CatalogClient) GetBook(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := cc.c.getJSON(ctx, cc.c.resolve(strconv.FormatInt(id, 10)), "", &book); err != nil {
		return nil, err
	}
	if book.Title == "" {
		return nil, fmt.Errorf("%w: book %d missing titulo", ErrInvalidResponse, id)
	}
	book.ID = id
	return &book, nil
}

// SetStock overwrites a book's stock count. It is sent exactly once.
func (cc *CatalogClient) SetStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 0 {
		quantity = 0
	}
	return cc.c.putJSON(ctx, cc.c.resolve(strconv.FormatInt(id, 10), "stock"), "", StockUpdate{Quantity: quantity})
}
