package catalog

// Profile describes the column names of one catalog export layout. StatusCol is optional.
type Profile struct {
	Name        string
	CodeCol     string
	NameCol     string
	CategoryCol string
	PriceCol    string
	StockCol    string
	MinStockCol string
	StatusCol   string
}

func (p Profile) requiredCols() []string {
	return []string{p.CodeCol, p.NameCol, p.CategoryCol, p.PriceCol, p.StockCol, p.MinStockCol}
}

var profiles = []Profile{
	{
		Name:        "english",
		CodeCol:     "code",
		NameCol:     "name",
		CategoryCol: "category",
		PriceCol:    "price",
		StockCol:    "stock",
		MinStockCol: "min_stock",
		StatusCol:   "status",
	},
	{
		Name:        "spanish",
		CodeCol:     "código",
		NameCol:     "nombre",
		CategoryCol: "categoría",
		PriceCol:    "precio",
		StockCol:    "stock",
		MinStockCol: "stock mínimo",
		StatusCol:   "estado",
	},
}

var statuses = map[string]string{
	"":         "active",
	"active":   "active",
	"activo":   "active",
	"inactive": "inactive",
	"inactivo": "inactive",
}
