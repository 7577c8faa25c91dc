package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// CartLine línea del carrito. Stock es la cantidad disponible al momento de agregar.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Stock     int
}

// LineTotal precio unitario × cantidad.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem solicitud de compra de un producto (id + cantidad).
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart carrito de venta. Nunca contiene una línea con cantidad mayor al stock.
type Cart struct {
	lines []CartLine
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add agrega una unidad del producto. Falla si superaría el stock disponible.
func (c *Cart) Add(p *entity.Product) error {
	if p == nil || p.IsArchived {
		return domain.ErrNotFound
	}
	if i := c.indexOf(p.ID); i >= 0 {
		if c.lines[i].Quantity+1 > c.lines[i].Stock {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
		}
		c.lines[i].Quantity++
		return nil
	}
	if p.Quantity < 1 {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  1,
		Stock:     p.Quantity,
	})
	return nil
}

// UpdateQty suma delta a la línea. Por encima del stock se rechaza sin cambios;
// por debajo de 1 se fija en 1.
func (c *Cart) UpdateQty(productID string, delta int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	next := c.lines[i].Quantity + delta
	if next > c.lines[i].Stock {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, c.lines[i].Name)
	}
	if next < 1 {
		next = 1
	}
	c.lines[i].Quantity = next
	return nil
}

// Remove quita la línea del producto (sin efecto si no existe).
func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines copia de las líneas en orden de inserción.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len número de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// Units unidades totales.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total suma de precio unitario × cantidad.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// BuildCart arma un carrito desde una solicitud contra el stock actual.
// Fusiona ids repetidos y valida cantidad >= 1, producto existente y no archivado, stock suficiente.
func BuildCart(items []CartItem, products map[string]*entity.Product) (*Cart, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	cart := NewCart()
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantité doit être >= 1", domain.ErrInvalidInput)
		}
		p, ok := products[it.ProductID]
		if !ok || p == nil || p.IsArchived {
			return nil, fmt.Errorf("%w: produit %s", domain.ErrNotFound, it.ProductID)
		}
		i := cart.indexOf(p.ID)
		if i < 0 {
			cart.lines = append(cart.lines, CartLine{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.UnitPrice,
				Stock:     p.Quantity,
			})
			i = len(cart.lines) - 1
		}
		if cart.lines[i].Quantity+it.Quantity > p.Quantity {
			return nil, fmt.Errorf("%w: %s (disponible %d)", domain.ErrInsufficientStock, p.Name, p.Quantity)
		}
		cart.lines[i].Quantity += it.Quantity
	}
	return cart, nil
}
