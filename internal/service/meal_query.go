package service

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/models"
)

// SortKey selects the result order of a meal search
type SortKey string

const (
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

const (
	// DefaultRadiusKm applies when coordinates are given without a radius
	DefaultRadiusKm = 10.0
	DefaultPageSize = 20
	MaxPageSize     = 100

	// pickupBoth means the caller accepts either pickup or delivery
	pickupBoth = "both"
)

// MealQuery is a parsed meal search. Zero values impose no constraint.
type MealQuery struct {
	Search                string
	Categories            []string
	Cuisines              []string
	DietaryRestrictions   []string
	PickupDeliveryOptions []string
	PaymentOptions        []string
	MinPrice              *float64
	MaxPrice              *float64
	Center                *geo.Point
	RadiusKm              float64
	SortBy                SortKey
	// Page and Limit are both zero when the full result is wanted
	Page  int
	Limit int
}

// MealPage is one page of search results
type MealPage struct {
	Meals []models.Meal `json:"data"`
	Count int64         `json:"count"`
	Page  int           `json:"page,omitempty"`
	Limit int           `json:"limit,omitempty"`
}

// FilterOptions lists the distinct filter values present in the catalogue
type FilterOptions struct {
	Categories            []string `json:"categories"`
	Cuisines              []string `json:"cuisines"`
	DietaryRestrictions   []string `json:"dietary_restrictions"`
	PickupDeliveryOptions []string `json:"pickup_delivery_options"`
	PaymentOptions        []string `json:"payment_options"`
}

// ParseMealQuery reads a meal search from query-string values
func ParseMealQuery(values url.Values) (*MealQuery, error) {
	q := &MealQuery{
		Search:                strings.TrimSpace(values.Get("search")),
		Categories:            listParam(values, "category"),
		Cuisines:              listParam(values, "cuisine"),
		DietaryRestrictions:   listParam(values, "dietaryRestrictions"),
		PickupDeliveryOptions: listParam(values, "pickupDeliveryOptions"),
		PaymentOptions:        listParam(values, "paymentOptions"),
		SortBy:                SortKey(strings.TrimSpace(values.Get("sortBy"))),
	}

	var err error
	if q.MinPrice, err = floatParam(values, "minPrice"); err != nil {
		return nil, err
	}
	if q.MaxPrice, err = floatParam(values, "maxPrice"); err != nil {
		return nil, err
	}

	lat, err := floatParam(values, "lat")
	if err != nil {
		return nil, err
	}
	lng, err := floatParam(values, "lng")
	if err != nil {
		return nil, err
	}
	switch {
	case lat != nil && lng != nil:
		q.Center = &geo.Point{Lat: *lat, Lng: *lng}
	case lat != nil:
		return nil, newValidationError("lng", "is required when lat is given")
	case lng != nil:
		return nil, newValidationError("lat", "is required when lng is given")
	}

	radius, err := floatParam(values, "radius")
	if err != nil {
		return nil, err
	}
	if radius != nil {
		q.RadiusKm = *radius
		if q.RadiusKm <= 0 {
			return nil, newValidationError("radius", "must be greater than zero")
		}
	}

	if q.Page, err = intParam(values, "page"); err != nil {
		return nil, err
	}
	if q.Limit, err = intParam(values, "limit"); err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks the query and fills in defaults
func (q *MealQuery) Validate() error {
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return newValidationError("minPrice", "must not be negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return newValidationError("maxPrice", "must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return newValidationError("minPrice", "must not exceed maxPrice")
	}

	if q.Center != nil {
		if err := q.Center.Validate(); err != nil {
			return &ValidationError{Field: "lat/lng", Message: err.Error()}
		}
		if q.RadiusKm < 0 {
			return newValidationError("radius", "must be greater than zero")
		}
		if q.RadiusKm == 0 {
			q.RadiusKm = DefaultRadiusKm
		}
	}

	switch q.SortBy {
	case "", SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
	default:
		return newValidationError("sortBy", "unknown sort key %q", q.SortBy)
	}

	if q.Page < 0 {
		return newValidationError("page", "must be at least 1")
	}
	if q.Limit < 0 || q.Limit > MaxPageSize {
		return newValidationError("limit", "must be between 1 and %d", MaxPageSize)
	}
	if q.Page > 0 || q.Limit > 0 {
		if q.Page == 0 {
			q.Page = 1
		}
		if q.Limit == 0 {
			q.Limit = DefaultPageSize
		}
	}
	return nil
}

// Paginated reports whether a page was requested
func (q *MealQuery) Paginated() bool {
	return q.Limit > 0
}

// MealQueryBuilder turns a MealQuery into a gorm query over the meals table
type MealQueryBuilder struct {
	db *gorm.DB
}

// NewMealQueryBuilder creates a new MealQueryBuilder instance
func NewMealQueryBuilder(db *gorm.DB) *MealQueryBuilder {
	return &MealQueryBuilder{db: db}
}

// Filter returns the meals query with every constraint of q applied, without ordering or paging.
// The geographic constraint is only the bounding-box prefilter here.
func (b *MealQueryBuilder) Filter(ctx context.Context, q *MealQuery) *gorm.DB {
	tx := b.db.WithContext(ctx).Model(&models.Meal{})
	postgres := b.db.Dialector.Name() == "postgres"

	if q.Search != "" {
		like := "%" + escapeLike(foldCase(q.Search, postgres)) + "%"
		tx = tx.Where(`(LOWER(meals.name) LIKE ? ESCAPE '\' OR LOWER(meals.description) LIKE ? ESCAPE '\')`, like, like)
	}
	if len(q.Categories) > 0 {
		tx = tx.Where("meals.category IN ?", q.Categories)
	}
	if len(q.Cuisines) > 0 {
		tx = tx.Where("meals.cuisine IN ?", q.Cuisines)
	}

	tx = containsAll(tx, postgres, "meals.dietary_restrictions", q.DietaryRestrictions)
	tx = containsAll(tx, postgres, "meals.pickup_delivery_options", withoutValue(q.PickupDeliveryOptions, pickupBoth))
	tx = containsAll(tx, postgres, "meals.payment_options", q.PaymentOptions)

	if q.MinPrice != nil {
		tx = tx.Where("meals.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("meals.price <= ?", *q.MaxPrice)
	}

	if q.Center != nil {
		box := geo.BoundingBox(*q.Center, q.RadiusKm)
		tx = tx.Joins("JOIN addresses ON addresses.id = meals.address_id").
			Where("addresses.latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
		if box.Wraps() {
			tx = tx.Where("(addresses.longitude >= ? OR addresses.longitude <= ?)", box.MinLng, box.MaxLng)
		} else {
			tx = tx.Where("addresses.longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
		}
	}

	return tx
}

// Order applies the sort key of q
func (b *MealQueryBuilder) Order(tx *gorm.DB, q *MealQuery) *gorm.DB {
	switch q.SortBy {
	case SortPriceAsc:
		tx = tx.Order("meals.price ASC")
	case SortPriceDesc:
		tx = tx.Order("meals.price DESC")
	case SortRating:
		tx = tx.Order("meals.seller_rating DESC")
	case SortNewest:
		tx = tx.Order("meals.created_at DESC")
	default:
		if !q.Paginated() {
			return tx
		}
	}
	// Ties and paging need a total order
	return tx.Order("meals.id ASC")
}

// Apply runs q against the store. It never writes.
func (b *MealQueryBuilder) Apply(ctx context.Context, q *MealQuery) (*MealPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	base := b.Filter(ctx, q).Session(&gorm.Session{})

	if q.Center == nil {
		page := &MealPage{Page: q.Page, Limit: q.Limit}
		if err := base.Count(&page.Count).Error; err != nil {
			return nil, &UpstreamError{Service: "database", Err: err}
		}

		tx := b.Order(base, q).Preload("Address")
		if q.Paginated() {
			tx = tx.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
		}
		if err := tx.Find(&page.Meals).Error; err != nil {
			return nil, &UpstreamError{Service: "database", Err: err}
		}
		if page.Meals == nil {
			page.Meals = []models.Meal{}
		}
		return page, nil
	}

	var candidates []models.Meal
	if err := b.Order(base, q).Preload("Address").Find(&candidates).Error; err != nil {
		return nil, &UpstreamError{Service: "database", Err: err}
	}

	within := WithinRadius(candidates, *q.Center, q.RadiusKm)
	page := &MealPage{Count: int64(len(within)), Page: q.Page, Limit: q.Limit, Meals: within}
	if q.Paginated() {
		page.Meals = pageOf(within, q.Page, q.Limit)
	}
	return page, nil
}

// FilterOptions collects the distinct filter values across all meals
func (b *MealQueryBuilder) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{}
	tx := b.db.WithContext(ctx).Model(&models.Meal{})

	if err := tx.Session(&gorm.Session{}).Where("category <> ''").Distinct().Order("category").Pluck("category", &opts.Categories).Error; err != nil {
		return nil, &UpstreamError{Service: "database", Err: err}
	}
	if err := tx.Session(&gorm.Session{}).Where("cuisine <> ''").Distinct().Order("cuisine").Pluck("cuisine", &opts.Cuisines).Error; err != nil {
		return nil, &UpstreamError{Service: "database", Err: err}
	}

	type setColumns struct {
		DietaryRestrictions   models.StringArray
		PickupDeliveryOptions models.StringArray
		PaymentOptions        models.StringArray
	}
	var rows []setColumns
	if err := tx.Session(&gorm.Session{}).Select("dietary_restrictions, pickup_delivery_options, payment_options").Scan(&rows).Error; err != nil {
		return nil, &UpstreamError{Service: "database", Err: err}
	}

	dietary, pickup, payment := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, r := range rows {
		addAll(dietary, r.DietaryRestrictions)
		addAll(pickup, r.PickupDeliveryOptions)
		addAll(payment, r.PaymentOptions)
	}
	opts.DietaryRestrictions = sortedKeys(dietary)
	opts.PickupDeliveryOptions = sortedKeys(pickup)
	opts.PaymentOptions = sortedKeys(payment)

	if opts.Categories == nil {
		opts.Categories = []string{}
	}
	if opts.Cuisines == nil {
		opts.Cuisines = []string{}
	}
	return opts, nil
}

// WithinRadius keeps the meals whose address lies within radiusKm of center, preserving order
func WithinRadius(meals []models.Meal, center geo.Point, radiusKm float64) []models.Meal {
	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if m.Address == nil {
			continue
		}
		if geo.Distance(center, m.Address.Point()) <= radiusKm {
			out = append(out, m)
		}
	}
	return out
}

// containsAll requires the JSON array column to hold every value
func containsAll(tx *gorm.DB, postgres bool, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return tx
	}
	if postgres {
		raw, _ := json.Marshal(values)
		return tx.Where(column+" @> ?::jsonb", string(raw))
	}
	for _, v := range values {
		tx = tx.Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value = ?)", v)
	}
	return tx
}

func pageOf(meals []models.Meal, page, limit int) []models.Meal {
	start := (page - 1) * limit
	if start >= len(meals) {
		return []models.Meal{}
	}
	end := start + limit
	if end > len(meals) {
		end = len(meals)
	}
	return meals[start:end]
}

// listParam accepts repeated keys, comma-separated lists and the key[] form
func listParam(values url.Values, key string) []string {
	raw := append(append([]string{}, values[key]...), values[key+"[]"]...)
	seen := map[string]struct{}{}
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

func floatParam(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, newValidationError(key, "must be a number, got %q", raw)
	}
	return &f, nil
}

func intParam(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, newValidationError(key, "must be a positive integer, got %q", raw)
	}
	return n, nil
}

func withoutValue(values []string, drop string) []string {
	var out []string
	for _, v := range values {
		if !strings.EqualFold(v, drop) {
			out = append(out, v)
		}
	}
	return out
}

// foldCase lowers s the way the dialect's LOWER does. SQLite only folds ASCII,
// so on sqlite non-ASCII letters match case-sensitively.
func foldCase(s string, postgres bool) string {
	if postgres {
		return strings.ToLower(s)
	}
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func addAll(set map[string]struct{}, values []string) {
	for _, v := range values {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
