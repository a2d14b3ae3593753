package model

// Region describes a supported YouTube market.
type Region struct {
	Code     string
	Name     string
	Language string
}

// Catalog is an immutable registry of supported regions. It is constructed
// once at process start and passed to the components that need it.
type Catalog struct {
	regions     map[string]Region
	order       []string
	defaultCode string
}

// NewCatalog builds a Catalog from the given regions. Iteration order of
// PrimaryCodes follows the order of the input slice. The default code is
// returned by Normalize for unknown input.
func NewCatalog(regions []Region, defaultCode string) Catalog {
	m := make(map[string]Region, len(regions))
	order := make([]string, 0, len(regions))
	for _, r := range regions {
		if _, exists := m[r.Code]; exists {
			continue
		}
		m[r.Code] = r
		order = append(order, r.Code)
	}
	return Catalog{
		regions:     m,
		order:       order,
		defaultCode: defaultCode,
	}
}

// DefaultCatalog returns the catalog of regions trending data is collected for.
func DefaultCatalog() Catalog {
	return NewCatalog([]Region{
		{Code: "KR", Name: "South Korea", Language: "ko"},
		{Code: "US", Name: "United States", Language: "en"},
		{Code: "JP", Name: "Japan", Language: "ja"},
		{Code: "GB", Name: "United Kingdom", Language: "en"},
		{Code: "DE", Name: "Germany", Language: "de"},
		{Code: "FR", Name: "France", Language: "fr"},
		{Code: "VN", Name: "Vietnam", Language: "vi"},
		{Code: "ID", Name: "Indonesia", Language: "id"},
	}, "KR")
}

// PrimaryCodes returns the supported region codes in registration order.
func (c Catalog) PrimaryCodes() []string {
	codes := make([]string, len(c.order))
	copy(codes, c.order)
	return codes
}

// IsValid reports whether code identifies a supported region.
// Matching is case-insensitive.
func (c Catalog) IsValid(code string) bool {
	_, ok := c.regions[upperASCII(code)]
	return ok
}

// Normalize upper-cases code and falls back to the default region when the
// input is absent or unsupported. It never rejects input.
func (c Catalog) Normalize(code string) string {
	normalized := upperASCII(code)
	if _, ok := c.regions[normalized]; ok {
		return normalized
	}
	return c.defaultCode
}

// Region returns the metadata for code, if supported.
func (c Catalog) Region(code string) (Region, bool) {
	r, ok := c.regions[upperASCII(code)]
	return r, ok
}

// DefaultCode returns the fallback region code.
func (c Catalog) DefaultCode() string {
	return c.defaultCode
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'a' && ch <= 'z' {
			b[i] = ch - ('a' - 'A')
		}
	}
	return string(b)
}
