package cart

// Item is one cart line. Price is the value cached when the item was added and is
// never trusted for money at checkout.
type Item struct {
	ProductID string `json:"productId"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

// View is the cart as served to clients, with derived totals.
type View struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Count int    `json:"count"`
}

const (
	storageName    = "dbs-cart"
	storageVersion = 1
)

// envelope is the persisted shape of a cart.
type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// StorageKey is the key a cart is persisted under.
func StorageKey(cartID string) string {
	return storageName + ":" + cartID
}
