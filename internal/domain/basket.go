package domain

// BasketEntry is what the client sends at checkout: a product reference and
// how many of it. Prices are never trusted from the client.
type BasketEntry struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// BasketLineItem is a basket entry with the product snapshot resolved at
// checkout time. Price stays a pointer so a product published without one
// is detectable before any session is created.
type BasketLineItem struct {
	ProductID string
	Name      string
	Price     *int64
	ImageURL  string
	Quantity  int64
}

// GroupEntries collapses repeated references to the same product into one
// entry, summing quantities. Order of first appearance is preserved.
func GroupEntries(entries []BasketEntry) []BasketEntry {
	grouped := make([]BasketEntry, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		if i, ok := index[e.ProductID]; ok {
			grouped[i].Quantity += e.Quantity
			continue
		}
		index[e.ProductID] = len(grouped)
		grouped = append(grouped, e)
	}

	return grouped
}
