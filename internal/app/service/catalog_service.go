package service

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

type CatalogSort string

const (
	CatalogSortPopularity CatalogSort = "popularity" // insertion order, the default
	CatalogSortTitle      CatalogSort = "title"
	CatalogSortPriceAsc   CatalogSort = "price_asc"
	CatalogSortPriceDesc  CatalogSort = "price_desc"
)

// ParseCatalogSort maps a raw sort value to a known sort, defaulting to
// popularity.
func ParseCatalogSort(raw string) CatalogSort {
	switch CatalogSort(raw) {
	case CatalogSortTitle, CatalogSortPriceAsc, CatalogSortPriceDesc:
		return CatalogSort(raw)
	default:
		return CatalogSortPopularity
	}
}

// CatalogFilter carries the facets selected in the storefront URL.
// Tokens arrive free-form and are normalized inside the pipeline.
type CatalogFilter struct {
	Rooms       []string
	Collections []string
	Modules     []string
	PriceMin    float64
	PriceMax    float64 // <= 0 means unbounded
	Query       string
	Sort        CatalogSort
	Doors       []string // wardrobe-like modules only
	Facades     []string
	Region      model.Region
}

// CatalogResult is the ordered output of the pipeline. Scenes keep their
// natural CMS order and are always prepended; Items carry the requested
// sort; All is Scenes followed by Items.
type CatalogResult struct {
	Scenes []model.Product `json:"scenes"`
	Items  []model.Product `json:"items"`
	All    []model.Product `json:"all"`
}

type CatalogService interface {
	Browse(filter CatalogFilter) (CatalogResult, error)
	GetProductBySlug(slug string) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) Browse(filter CatalogFilter) (CatalogResult, error) {
	logger.Debug("Browsing catalog", map[string]interface{}{
		"rooms":       filter.Rooms,
		"collections": filter.Collections,
		"modules":     filter.Modules,
		"price_min":   filter.PriceMin,
		"price_max":   filter.PriceMax,
		"query":       filter.Query,
		"sort":        filter.Sort,
		"region":      filter.Region,
	})

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to load catalog for browsing", err)
		return CatalogResult{}, err
	}

	result := RunCatalogPipeline(products, filter)

	logger.Info("Catalog browsed", map[string]interface{}{
		"source_count": len(products),
		"scene_count":  len(result.Scenes),
		"item_count":   len(result.Items),
	})
	return result, nil
}

func (s *catalogService) GetProductBySlug(slug string) (*model.Product, error) {
	logger.Debug("Fetching product by slug", map[string]interface{}{
		"slug": slug,
	})

	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}

// pipelineState is the filter with its tokens normalized and its price
// bounds resolved, computed once per run.
type pipelineState struct {
	rooms       map[string]bool
	collections map[string]bool
	modules     map[string]bool
	doors       map[string]bool
	facades     map[string]bool
	minBound    float64
	maxBound    float64
	query       string
	region      model.Region
}

func newPipelineState(filter CatalogFilter) pipelineState {
	state := pipelineState{
		rooms:       tokenSet(filter.Rooms, model.NormalizeRoom),
		collections: tokenSet(filter.Collections, model.NormalizeCollection),
		modules:     tokenSet(filter.Modules, model.NormalizeModule),
		doors:       tokenSet(filter.Doors, normalizeSubToken),
		facades:     tokenSet(filter.Facades, normalizeSubToken),
		minBound:    math.Max(0, filter.PriceMin),
		maxBound:    math.Inf(1),
		query:       strings.ToLower(strings.TrimSpace(filter.Query)),
		region:      filter.Region,
	}
	// A zero or negative max means "unbounded", not "exclude everything".
	if filter.PriceMax > 0 {
		state.maxBound = filter.PriceMax
	}
	return state
}

func tokenSet(raw []string, normalize func(string) string) map[string]bool {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[string]bool, len(raw))
	for _, token := range raw {
		if normalized := normalize(token); normalized != "" {
			set[normalized] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func normalizeSubToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// RunCatalogPipeline applies the facet filters to an in-memory product
// list and orders the output. It is pure and total: numeric garbage has
// already been coerced upstream and an empty source yields empty lists.
func RunCatalogPipeline(products []model.Product, filter CatalogFilter) CatalogResult {
	state := newPipelineState(filter)

	scenes := selectScenes(products, state)
	sceneIDs := make(map[uint]bool, len(scenes))
	for _, scene := range scenes {
		sceneIDs[scene.ID] = true
	}

	items := make([]model.Product, 0, len(products))
	for _, p := range products {
		if sceneIDs[p.ID] || p.IsScene() {
			continue
		}
		if state.matchesItem(&p) {
			items = append(items, p)
		}
	}

	sortItems(items, filter.Sort, state.region)

	result := CatalogResult{Scenes: scenes, Items: items}
	if len(scenes) > 0 {
		result.All = make([]model.Product, 0, len(scenes)+len(items))
		result.All = append(result.All, scenes...)
		result.All = append(result.All, items...)
	} else {
		result.All = items
	}
	return result
}

// selectScenes picks the showcase products promoted ahead of the item
// list: scenes for the selected room (hard-coded "bedrooms" when no room
// is selected), honoring collection, price and text constraints but never
// the module constraint, in natural CMS order.
func selectScenes(products []model.Product, state pipelineState) []model.Product {
	targetRooms := state.rooms
	if targetRooms == nil {
		targetRooms = map[string]bool{model.RoomBedrooms: true}
	}

	var scenes []model.Product
	for _, p := range products {
		if !p.IsScene() {
			continue
		}
		if !targetRooms[model.NormalizeRoom(p.Room)] {
			continue
		}
		if state.collections != nil && !state.collections[model.NormalizeCollection(p.Collection)] {
			continue
		}
		if !state.matchesPrice(&p) || !state.matchesQuery(&p) {
			continue
		}
		scenes = append(scenes, p)
	}
	return scenes
}

// matchesItem runs the full filter chain for a non-scene product,
// short-circuiting on the first failing check.
func (state pipelineState) matchesItem(p *model.Product) bool {
	// The room check is skipped when a room is selected together with a
	// collection or module filter: picking "bedrooms + amber" should show
	// the whole amber collection, not just its bedroom subset.
	roomIgnored := state.collections != nil || state.modules != nil
	if state.rooms != nil && !roomIgnored {
		if !state.rooms[model.NormalizeRoom(p.Room)] {
			return false
		}
	}

	if state.collections != nil && !state.collections[model.NormalizeCollection(p.Collection)] {
		return false
	}

	if state.modules != nil {
		module := model.NormalizeModule(p.Module)
		if !state.modules[module] {
			return false
		}
		if model.IsWardrobeModule(module) {
			if state.doors != nil && !state.doors[normalizeSubToken(p.DoorCount)] {
				return false
			}
			if state.facades != nil && !state.facades[normalizeSubToken(p.Facade)] {
				return false
			}
		}
	}

	return state.matchesPrice(p) && state.matchesQuery(p)
}

func (state pipelineState) matchesPrice(p *model.Product) bool {
	price := p.PriceIn(state.region)
	return price >= state.minBound && price <= state.maxBound
}

func (state pipelineState) matchesQuery(p *model.Product) bool {
	if state.query == "" {
		return true
	}
	haystack := strings.ToLower(p.Title + " " + p.Badge)
	return strings.Contains(haystack, state.query)
}

func sortItems(items []model.Product, by CatalogSort, region model.Region) {
	switch by {
	case CatalogSortTitle:
		collator := collate.New(language.Russian)
		sort.SliceStable(items, func(i, j int) bool {
			return collator.CompareString(items[i].Title, items[j].Title) < 0
		})
	case CatalogSortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PriceIn(region) < items[j].PriceIn(region)
		})
	case CatalogSortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PriceIn(region) > items[j].PriceIn(region)
		})
	default:
		// popularity keeps insertion (CMS) order
	}
}
