package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
)

// Client fetches the product collection from the headless CMS.
type Client interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
}

type httpCMSClient struct {
	baseURL  string
	apiToken string
	pageSize int
	client   *http.Client
}

func NewClient(baseURL, apiToken string, pageSize int) Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &httpCMSClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		pageSize: pageSize,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// collectionResponse is the Strapi envelope around a collection query.
type collectionResponse struct {
	Data []productDocument `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type productDocument struct {
	ID         uint         `json:"id"`
	Attributes productEntry `json:"attributes"`
}

// productEntry carries both the current and the legacy spellings of every
// renamed CMS field. Old catalog entries were published before the schema was
// migrated to camelCase, so the decoder accepts either and the rest of the
// codebase only ever sees the canonical model.
type productEntry struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Name        string `json:"name"` // legacy title field
	Badge       string `json:"badge"`
	Description string `json:"description"`

	Room       string `json:"room"`
	Menu       string `json:"menu"` // legacy room field
	Collection string `json:"collection"`
	Module     string `json:"module"`
	Type       string `json:"type"` // legacy module field

	PriceUZS       *float64 `json:"priceUZS"`
	PriceUZSSnake  *float64 `json:"price_uzs"`
	PriceRUB       *float64 `json:"priceRUB"`
	PriceRUBSnake  *float64 `json:"price_rub"`
	OldPriceUZS    *float64 `json:"oldPriceUZS"`
	OldUZSSnake    *float64 `json:"old_price_uzs"`
	OldPriceRUB    *float64 `json:"oldPriceRUB"`
	OldRUBSnake    *float64 `json:"old_price_rub"`

	DoorCount      string `json:"doorCount"`
	DoorCountSnake string `json:"door_count"`
	Doors          string `json:"doors"` // oldest spelling

	Facade   string   `json:"facade"`
	ImageURL string   `json:"image"`
	Gallery  []string `json:"gallery"`
	Position int      `json:"position"`

	Variants []variantEntry `json:"variants"`
}

type variantEntry struct {
	Slug      string `json:"slug"`
	GroupName string `json:"group"`
	Title     string `json:"title"`
	Name      string `json:"name"` // legacy title field

	DeltaUZS      *float64 `json:"deltaUZS"`
	DeltaUZSSnake *float64 `json:"delta_uzs"`
	DeltaRUB      *float64 `json:"deltaRUB"`
	DeltaRUBSnake *float64 `json:"delta_rub"`

	ImageURL  string   `json:"image"`
	Gallery   []string `json:"gallery"`
	IsDefault bool     `json:"isDefault"`
}

// FetchProducts pages through the CMS product collection and returns the
// entries mapped into the canonical model. Entries with a missing or
// malformed slug are skipped with a warning rather than failing the sync.
func (c *httpCMSClient) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	page := 1

	for {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, doc := range resp.Data {
			product, ok := mapProduct(doc)
			if !ok {
				continue
			}
			products = append(products, product)
		}

		if page >= resp.Meta.Pagination.PageCount || len(resp.Data) == 0 {
			break
		}
		page++
	}

	logger.Info("Fetched products from CMS", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (c *httpCMSClient) fetchPage(ctx context.Context, page int) (*collectionResponse, error) {
	url := fmt.Sprintf("%s/api/products?populate=variants&pagination[page]=%d&pagination[pageSize]=%d",
		c.baseURL, page, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call CMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("CMS returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CMS response: %w", err)
	}

	var collection collectionResponse
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse CMS response: %w", err)
	}
	return &collection, nil
}

// mapProduct turns a CMS document into the canonical product. Legacy field
// spellings are coalesced here and classification tokens are normalized, so
// downstream code never sees raw CMS vocabulary.
func mapProduct(doc productDocument) (model.Product, bool) {
	entry := doc.Attributes

	if entry.Slug == "" {
		logger.Warn("Skipping CMS product without slug", map[string]interface{}{
			"cms_id": doc.ID,
		})
		return model.Product{}, false
	}
	if !itemkey.ValidProductID(entry.Slug) {
		logger.Warn("Skipping CMS product with reserved characters in slug", map[string]interface{}{
			"cms_id": doc.ID,
			"slug":   entry.Slug,
		})
		return model.Product{}, false
	}

	product := model.Product{
		Slug:        entry.Slug,
		Title:       firstString(entry.Title, entry.Name),
		Badge:       entry.Badge,
		Description: entry.Description,
		Room:        model.NormalizeRoom(firstString(entry.Room, entry.Menu)),
		Collection:  model.NormalizeCollection(entry.Collection),
		Module:      model.NormalizeModule(firstString(entry.Module, entry.Type)),
		PriceUZS:    firstFloat(entry.PriceUZS, entry.PriceUZSSnake),
		PriceRUB:    firstFloat(entry.PriceRUB, entry.PriceRUBSnake),
		OldPriceUZS: firstFloat(entry.OldPriceUZS, entry.OldUZSSnake),
		OldPriceRUB: firstFloat(entry.OldPriceRUB, entry.OldRUBSnake),
		DoorCount:   firstString(entry.DoorCount, entry.DoorCountSnake, entry.Doors),
		Facade:      strings.ToLower(strings.TrimSpace(entry.Facade)),
		ImageURL:    entry.ImageURL,
		Gallery:     entry.Gallery,
		Position:    entry.Position,
	}

	for _, v := range entry.Variants {
		if v.Slug == "" || strings.Contains(v.Slug, itemkey.Separator) {
			logger.Warn("Skipping CMS variant with invalid slug", map[string]interface{}{
				"product_slug": entry.Slug,
				"variant_slug": v.Slug,
			})
			continue
		}
		product.Variants = append(product.Variants, model.Variant{
			Slug:      v.Slug,
			GroupName: v.GroupName,
			Title:     firstString(v.Title, v.Name),
			DeltaUZS:  firstFloat(v.DeltaUZS, v.DeltaUZSSnake),
			DeltaRUB:  firstFloat(v.DeltaRUB, v.DeltaRUBSnake),
			ImageURL:  v.ImageURL,
			Gallery:   v.Gallery,
			IsDefault: v.IsDefault,
		})
	}

	return product, true
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
