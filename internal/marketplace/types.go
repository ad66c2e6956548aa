// file: internal/marketplace/types.go
// version: 1.0.0
// guid: 7a3e5c91-0d4b-4f82-a6c9-e18b2d7f5043

package marketplace

// Model is a listed AI model.
type Model struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Provider         string   `json:"provider"`
	Category         string   `json:"category"`
	Description      string   `json:"description,omitempty"`
	PricePer1KTokens float64  `json:"price_per_1k_tokens"`
	Currency         string   `json:"currency"`
	Tags             []string `json:"tags,omitempty"`
}

// ModelPage is one page of model search results.
type ModelPage struct {
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Items []Model `json:"items"`
}

// Dataset is a listed dataset.
type Dataset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	License   string `json:"license"`
}

// DatasetPage is one page of datasets.
type DatasetPage struct {
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Items []Dataset `json:"items"`
}

// Usage summarizes billing for one period.
type Usage struct {
	Period   string  `json:"period"`
	Requests int64   `json:"requests"`
	Tokens   int64   `json:"tokens"`
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// SearchParams narrows a model search.
type SearchParams struct {
	Query        string
	Category     string
	Page         int
	ForceRefresh bool
}
