// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

var (
	ErrInvalidCart  = errors.New("cart: invalid")
	ErrLineNotFound = errors.New("cart: line not found")
	ErrConflict     = errors.New("cart: version conflict")
)

// Item represents one cart line. Identity is (productId, selectedColor, selectedSize);
// price, name and image are the caller-resolved selection at add time.
type Item struct {
	ProductID     string      `json:"productId"`
	Quantity      int         `json:"quantity"`
	Price         float64     `json:"price"`
	Name          string      `json:"name"`
	ImageURL      string      `json:"imageUrl"`
	SelectedColor string      `json:"selectedColor"`
	SelectedSize  common.Size `json:"selectedSize"`
}

// LineKey is the composite identity of a cart line.
type LineKey struct {
	ProductID string
	Color     string
	Size      common.Size
}

func NewLineKey(productID, color string, size common.Size) LineKey {
	return LineKey{
		ProductID: strings.TrimSpace(productID),
		Color:     strings.TrimSpace(color),
		Size:      size.Normalize(),
	}
}

func (it Item) Key() LineKey {
	return NewLineKey(it.ProductID, it.SelectedColor, it.SelectedSize)
}

// Cart is the per-user cart document (docId = userId).
//   - Version is the optimistic-lock token, incremented on every save.
//   - Total is never stored as truth; it is derived from Items.
type Cart struct {
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCart(userID string, now time.Time) (*Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrInvalidCart
	}
	return &Cart{
		UserID:    uid,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Add increments the matching line or appends a new one. qty must be >= 1.
func (c *Cart) Add(it Item, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	it = normalizeItem(it)
	if it.ProductID == "" || it.Quantity <= 0 || it.Price < 0 {
		return ErrInvalidCart
	}

	if idx := c.indexOf(it.Key()); idx >= 0 {
		c.Items[idx].Quantity += it.Quantity
	} else {
		c.Items = append(c.Items, it)
	}
	c.touch(now)
	return nil
}

// SetQty sets the quantity of an existing line. qty <= 0 removes the line.
func (c *Cart) SetQty(key LineKey, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	key = NewLineKey(key.ProductID, key.Color, key.Size)
	if key.ProductID == "" {
		return ErrInvalidCart
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = qty
	}
	c.touch(now)
	return nil
}

// RemoveLine removes exactly one (productId, color, size) line.
func (c *Cart) RemoveLine(key LineKey, now time.Time) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(NewLineKey(key.ProductID, key.Color, key.Size))
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch(now)
	return true
}

// RemoveProduct removes every line of productID and returns how many were removed.
func (c *Cart) RemoveProduct(productID string, now time.Time) int {
	if c == nil {
		return 0
	}
	pid := strings.TrimSpace(productID)
	kept := c.Items[:0]
	removed := 0
	for _, it := range c.Items {
		if it.ProductID == pid {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	if removed > 0 {
		c.touch(now)
	}
	return removed
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Total is Σ price × quantity, recomputed on every call.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	return SumItems(c.Items)
}

func SumItems(items []Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(common.LineTotal(it.Price, it.Quantity))
	}
	return common.ToAmount(sum)
}

func (c *Cart) indexOf(key LineKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (c *Cart) touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func normalizeItem(it Item) Item {
	it.ProductID = strings.TrimSpace(it.ProductID)
	it.SelectedColor = strings.TrimSpace(it.SelectedColor)
	it.SelectedSize = it.SelectedSize.Normalize()
	it.Name = strings.TrimSpace(it.Name)
	it.ImageURL = strings.TrimSpace(it.ImageURL)
	return it
}

// Merge folds duplicate lines (same composite key) into one, summing quantities.
// Used when reading documents written by older clients.
func Merge(items []Item) []Item {
	out := make([]Item, 0, len(items))
	pos := map[LineKey]int{}
	for _, it := range items {
		it = normalizeItem(it)
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		if i, ok := pos[it.Key()]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.Key()] = len(out)
		out = append(out, it)
	}
	return out
}
