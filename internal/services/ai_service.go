package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"laptopshop/internal/ai"
	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
	"laptopshop/pkg/slug"
)

// ProductSpecs is the structured form of a pasted spec sheet.
type ProductSpecs struct {
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	CPU            string `json:"cpu"`
	RAM            string `json:"ram"`
	Storage        string `json:"storage"`
	GPU            string `json:"gpu"`
	Display        string `json:"display"`
	Battery        string `json:"battery"`
	Weight         string `json:"weight"`
	OS             string `json:"os"`
	WarrantyMonths int    `json:"warrantyMonths"`
	Price          int64  `json:"price"`
	// Fallback is set when the model output could not be parsed; Notes then
	// carries the raw input.
	Fallback bool   `json:"fallback"`
	Notes    string `json:"notes,omitempty"`
}

// MarketingRequest selects the product a copy is written for, either by ID
// or by inline fields.
type MarketingRequest struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name" validate:"required_without=ProductID,max=200"`
	Specs     map[string]string `json:"specs"`
	Price     int64             `json:"price" validate:"gte=0"`
	Tone      string            `json:"tone" validate:"omitempty,oneof=professional friendly youthful"`
}

// MarketingCopy is generated product marketing text.
type MarketingCopy struct {
	Headline       string   `json:"headline"`
	Description    string   `json:"description"`
	Highlights     []string `json:"highlights"`
	SEODescription string   `json:"seoDescription"`
	Fallback       bool     `json:"fallback"`
}

// SearchFilters is a natural language query turned into catalog filters.
type SearchFilters struct {
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	MinPrice int64    `json:"minPrice"`
	MaxPrice int64    `json:"maxPrice"`
	Keywords []string `json:"keywords"`
	Purpose  string   `json:"purpose"`
}

// Search result sources.
const (
	SearchSourceCache    = "cache"
	SearchSourceAI       = "ai"
	SearchSourceFallback = "fallback"
)

// SearchResult is the answer of a natural language product search.
type SearchResult struct {
	Query    string           `json:"query"`
	Source   string           `json:"source"`
	Filters  SearchFilters    `json:"filters"`
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// commonSearches answers frequent queries without calling the model. Keys
// are slugs of the query.
var commonSearches = map[string]SearchFilters{
	"laptop-gaming":        {Category: "gaming", Purpose: "gaming"},
	"gaming-laptop":        {Category: "gaming", Purpose: "gaming"},
	"laptop-choi-game":     {Category: "gaming", Purpose: "gaming"},
	"laptop-van-phong":     {Category: "van-phong", Purpose: "office"},
	"office-laptop":        {Category: "van-phong", Purpose: "office"},
	"laptop-sinh-vien":     {MaxPrice: 15_000_000, Purpose: "student"},
	"student-laptop":       {MaxPrice: 15_000_000, Purpose: "student"},
	"laptop-do-hoa":        {Category: "do-hoa", Purpose: "design"},
	"laptop-lap-trinh":     {Keywords: []string{"16gb"}, Purpose: "programming"},
	"laptop-mong-nhe":      {Category: "mong-nhe", Purpose: "portable"},
	"macbook":              {Brand: "apple", Keywords: []string{"macbook"}},
	"laptop-duoi-10-trieu": {MaxPrice: 10_000_000},
	"laptop-duoi-15-trieu": {MaxPrice: 15_000_000},
	"laptop-duoi-20-trieu": {MaxPrice: 20_000_000},
}

// AIService builds prompts for the generative model and turns its answers
// into typed results, degrading to fixed fallbacks on unusable output.
type AIService struct {
	generator ai.Generator
	products  *ProductService
}

// NewAIService creates a new AIService. generator may be nil when no API key
// is configured.
func NewAIService(generator ai.Generator, products *ProductService) *AIService {
	return &AIService{generator: generator, products: products}
}

// Enabled reports whether a model is configured.
func (s *AIService) Enabled() bool {
	return s.generator != nil
}

const specsPrompt = `Bạn là trợ lý nhập liệu cho cửa hàng laptop. Trích xuất thông số từ đoạn văn bản sau và trả về DUY NHẤT một đối tượng JSON với các khóa:
name, brand, model, cpu, ram, storage, gpu, display, battery, weight, os (chuỗi), warrantyMonths (số nguyên, tháng), price (số nguyên, VND).
Để chuỗi rỗng hoặc 0 nếu không có thông tin.

Văn bản:
%s`

// ParseProductSpecs extracts structured specs from free text. Unusable model
// output yields the fallback specs instead of an error.
func (s *AIService) ParseProductSpecs(ctx context.Context, rawText string) (*ProductSpecs, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, validationError("text is required")
	}
	out, err := s.generate(ctx, fmt.Sprintf(specsPrompt, rawText))
	if err != nil {
		return nil, err
	}

	var specs ProductSpecs
	if err := ai.DecodeJSON(out, &specs); err != nil {
		log.Printf("AI spec parse fell back: %v", err)
		return fallbackSpecs(rawText), nil
	}
	specs.Fallback = false
	specs.Notes = ""
	if specs.WarrantyMonths <= 0 {
		specs.WarrantyMonths = models.DefaultWarrantyMonths
	}
	if specs.Price < 0 {
		specs.Price = 0
	}
	return &specs, nil
}

func fallbackSpecs(rawText string) *ProductSpecs {
	return &ProductSpecs{
		WarrantyMonths: models.DefaultWarrantyMonths,
		Fallback:       true,
		Notes:          rawText,
	}
}

const marketingPrompt = `Viết nội dung quảng cáo tiếng Việt cho laptop sau, giọng văn %s.
Trả về DUY NHẤT JSON: {"headline": string, "description": string (2-3 đoạn), "highlights": [string, 3-5 ý], "seoDescription": string (tối đa 160 ký tự)}.

Tên: %s
Giá: %s
Thông số:
%s`

// GenerateMarketingCopy writes marketing text for a product. Unusable model
// output yields a template built from the product fields.
func (s *AIService) GenerateMarketingCopy(ctx context.Context, req MarketingRequest) (*MarketingCopy, error) {
	if req.ProductID != "" {
		product, err := s.products.GetProductByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		req.Name = product.Name
		req.Specs = product.Specs
		req.Price = product.EffectivePrice()
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationError("product name is required")
	}
	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}

	out, err := s.generate(ctx, fmt.Sprintf(marketingPrompt, tone, req.Name, FormatVND(req.Price), formatSpecs(req.Specs)))
	if err != nil {
		return nil, err
	}

	var mc MarketingCopy
	if err := ai.DecodeJSON(out, &mc); err != nil || mc.Headline == "" || mc.Description == "" {
		log.Printf("AI marketing copy fell back for %q: %v", req.Name, err)
		return fallbackCopy(req), nil
	}
	mc.Fallback = false
	mc.SEODescription = truncateRunes(mc.SEODescription, 160)
	return &mc, nil
}

func fallbackCopy(req MarketingRequest) *MarketingCopy {
	highlights := make([]string, 0, 5)
	for _, key := range []string{"cpu", "ram", "storage", "gpu", "display"} {
		if v := req.Specs[key]; v != "" {
			highlights = append(highlights, fmt.Sprintf("%s: %s", strings.ToUpper(key), v))
		}
	}
	description := fmt.Sprintf("%s chính hãng, bảo hành đầy đủ, giao hàng toàn quốc.", req.Name)
	if req.Price > 0 {
		description = fmt.Sprintf("%s chính hãng với giá %s, bảo hành đầy đủ, giao hàng toàn quốc.", req.Name, FormatVND(req.Price))
	}
	return &MarketingCopy{
		Headline:       fmt.Sprintf("%s - Hiệu năng vượt trội", req.Name),
		Description:    description,
		Highlights:     highlights,
		SEODescription: truncateRunes(fmt.Sprintf("Mua %s chính hãng, giá tốt, bảo hành uy tín.", req.Name), 160),
		Fallback:       true,
	}
}

const searchPrompt = `Chuyển câu tìm kiếm laptop sau thành bộ lọc. Trả về DUY NHẤT JSON:
{"category": string (slug, ví dụ gaming, van-phong, do-hoa, mong-nhe hoặc rỗng), "brand": string (slug hãng, ví dụ asus, dell, lenovo, hp, acer, msi, apple hoặc rỗng), "minPrice": số VND, "maxPrice": số VND, "keywords": [string], "purpose": string}.

Câu tìm kiếm: %s`

// SearchProducts turns a natural language query into catalog filters and runs
// them. Common queries are answered from a fixed table; model failures fall
// back to a keyword search so the storefront search keeps working.
func (s *AIService) SearchProducts(ctx context.Context, query string, page repositories.Pagination) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}

	result := &SearchResult{Query: query}
	if filters, ok := commonSearches[slug.Make(query)]; ok {
		result.Source = SearchSourceCache
		result.Filters = filters
	} else {
		result.Filters, result.Source = s.interpretQuery(ctx, query)
	}

	products, total, err := s.products.ListProducts(ctx, searchFilter(result.Filters, page))
	if err != nil {
		return nil, err
	}
	result.Products = products
	result.Total = total
	return result, nil
}

func (s *AIService) interpretQuery(ctx context.Context, query string) (SearchFilters, string) {
	fallback := SearchFilters{Keywords: []string{query}}
	if s.generator == nil {
		return fallback, SearchSourceFallback
	}

	out, err := s.generator.Generate(ctx, fmt.Sprintf(searchPrompt, query))
	if err != nil {
		log.Printf("AI search unavailable, using keywords for %q: %v", query, err)
		return fallback, SearchSourceFallback
	}
	var filters SearchFilters
	if err := ai.DecodeJSON(out, &filters); err != nil {
		log.Printf("AI search output unusable for %q: %v", query, err)
		return fallback, SearchSourceFallback
	}
	filters.Category = slug.Make(filters.Category)
	filters.Brand = slug.Make(filters.Brand)
	if filters.MinPrice < 0 {
		filters.MinPrice = 0
	}
	if filters.MaxPrice < 0 || (filters.MaxPrice > 0 && filters.MaxPrice < filters.MinPrice) {
		filters.MaxPrice = 0
	}
	return filters, SearchSourceAI
}

func searchFilter(f SearchFilters, page repositories.Pagination) repositories.ProductFilter {
	return repositories.ProductFilter{
		CategorySlug: f.Category,
		BrandSlug:    f.Brand,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
		Keywords:     f.Keywords,
		ActiveOnly:   true,
		Sort:         "rating",
		Pagination:   page,
	}
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", ErrAINotConfigured
	}
	out, err := s.generator.Generate(ctx, prompt)
	if errors.Is(err, ai.ErrEmptyResponse) {
		// an answer without text is handled like any other unusable output
		log.Printf("AI generator returned no content")
		return "", nil
	}
	if err != nil {
		log.Printf("AI generator error: %v", err)
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	return out, nil
}

func formatSpecs(specs map[string]string) string {
	if len(specs) == 0 {
		return "(không có)"
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, specs[k])
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
