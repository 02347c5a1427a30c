// Package storetest provides in-memory implementations of the stores the
// handlers depend on. They follow the repository error contract so HTTP
// flows can be tested without MySQL.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/repository"
)

// Accounts is an in-memory account store keyed by normalized email.
type Accounts struct {
	mu      sync.Mutex
	nextID  uint64
	byEmail map[string]*model.Account
}

func NewAccounts() *Accounts {
	return &Accounts{byEmail: map[string]*model.Account{}}
}

// Seed stores a directly, bypassing registration rules. Used to create admins.
func (s *Accounts) Seed(a *model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now().UTC()
	cp := *a
	s.byEmail[a.Email] = &cp
}

func (s *Accounts) Create(_ context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return repository.ErrEmailExists
	}
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now().UTC()
	cp := *a
	s.byEmail[a.Email] = &cp
	return nil
}

func (s *Accounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byEmail[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrAccountNotFound
}

func (s *Accounts) GetByID(_ context.Context, id uint64) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (s *Accounts) ListRoles(context.Context) ([]model.RoleRecord, error) {
	out := make([]model.RoleRecord, 0, len(model.Roles()))
	for _, r := range model.Roles() {
		out = append(out, model.RoleRecord{ID: uint8(r), Name: r.String()})
	}
	return out, nil
}

// Catalog holds categories, products and carts behind one lock so the
// foreign key rules of the schema can be enforced across them.
type Catalog struct {
	mu         sync.Mutex
	nextID     uint64
	categories map[uint64]model.Category
	products   map[uint64]model.Product
	carts      map[uint64]map[uint64]*model.CartItem // user -> product -> line
}

func NewCatalog() *Catalog {
	return &Catalog{
		categories: map[uint64]model.Category{},
		products:   map[uint64]model.Product{},
		carts:      map[uint64]map[uint64]*model.CartItem{},
	}
}

func (s *Catalog) id() uint64 {
	s.nextID++
	return s.nextID
}

// Categories returns the category view of the catalog.
func (s *Catalog) Categories() *Categories { return &Categories{s} }

// Products returns the product view of the catalog.
func (s *Catalog) Products() *Products { return &Products{s} }

// Cart returns the cart view of the catalog.
func (s *Catalog) Cart() *Cart { return &Cart{s} }

type Categories struct{ s *Catalog }

func (v *Categories) Create(_ context.Context, c *model.Category) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return repository.ErrCategoryExists
		}
	}
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC()
	s.categories[c.ID] = *c
	return nil
}

func (v *Categories) GetByID(_ context.Context, id uint64) (*model.Category, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

func (v *Categories) List(context.Context) ([]model.Category, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *Categories) UpdateName(_ context.Context, id uint64, name string) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	for oid, other := range s.categories {
		if oid != id && other.Name == name {
			return repository.ErrCategoryExists
		}
	}
	c.Name = name
	s.categories[id] = c
	return nil
}

func (v *Categories) Delete(_ context.Context, id uint64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	for _, p := range s.products {
		if p.CategoryID == id {
			return repository.ErrConflict
		}
	}
	delete(s.categories, id)
	return nil
}

type Products struct{ s *Catalog }

func (v *Products) Create(_ context.Context, p *model.Product) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = *p
	return nil
}

func (v *Products) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (v *Products) List(_ context.Context, f repository.ProductFilter) ([]model.Product, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Product{}
	for _, p := range s.products {
		if !f.IncludeInactive && !p.IsActive {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.SellerID != nil && p.SellerID != *f.SellerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *Products) Update(_ context.Context, p *model.Product) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	if _, ok := s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = *p
	return nil
}

func (v *Products) Delete(_ context.Context, id uint64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	for _, lines := range s.carts {
		delete(lines, id)
	}
	return nil
}

type Cart struct{ s *Catalog }

func (v *Cart) AddItem(_ context.Context, userID, productID uint64, quantity uint32) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return repository.ErrProductNotFound
	}
	lines := s.carts[userID]
	if lines == nil {
		lines = map[uint64]*model.CartItem{}
		s.carts[userID] = lines
	}
	if it, ok := lines[productID]; ok {
		it.Quantity += quantity
		return nil
	}
	lines[productID] = &model.CartItem{ID: s.id(), UserID: userID, ProductID: productID, Quantity: quantity}
	return nil
}

func (v *Cart) ListItems(_ context.Context, userID uint64) ([]model.CartItem, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.CartItem{}
	for pid, it := range s.carts[userID] {
		p := s.products[pid]
		line := *it
		line.Product = &p
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *Cart) RemoveItem(_ context.Context, userID, productID uint64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[userID][productID]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(s.carts[userID], productID)
	return nil
}

func (v *Cart) Clear(_ context.Context, userID uint64) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
