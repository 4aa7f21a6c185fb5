// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en los tests de casos de uso; no es apto para concurrencia
// real ni simula bloqueos de filas.
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdrueda/slotstock-api/internal/application/kardex"
	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

// Store agrupa todos los datos en memoria y expone repos + TxRunner sobre ellos.
type Store struct {
	Companies map[string]*entity.Company
	Users     map[string]*entity.User
	Platforms map[string]*entity.Platform
	Suppliers map[string]*entity.Supplier
	Customers map[string]*entity.Customer
	Accounts  map[string]*entity.Account
	Profiles  map[string]*entity.Profile
	Sales     map[string]*entity.Sale
	Balances  map[string]*entity.ItemBalance  // key: companyID + "|" + platformID
	Movements []*entity.KardexMovement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		Companies: map[string]*entity.Company{},
		Users:     map[string]*entity.User{},
		Platforms: map[string]*entity.Platform{},
		Suppliers: map[string]*entity.Supplier{},
		Customers: map[string]*entity.Customer{},
		Accounts:  map[string]*entity.Account{},
		Profiles:  map[string]*entity.Profile{},
		Sales:     map[string]*entity.Sale{},
		Balances:  map[string]*entity.ItemBalance{},
	}
}

// Repos devuelve el juego de repositorios sobre el store.
func (s *Store) Repos() kardex.Repos {
	return kardex.Repos{
		Movements: &MovementRepo{s: s},
		Balances:  &BalanceRepo{s: s},
		Accounts:  &AccountRepo{s: s},
		Profiles:  &ProfileRepo{s: s},
		Sales:     &SaleRepo{s: s},
		Suppliers: &SupplierRepo{s: s},
	}
}

// TxRunner ejecuta fn directamente sobre el store (sin transacción real).
type TxRunner struct {
	Store *Store
	// FailWith fuerza el error en Run, para probar propagación.
	FailWith error
}

// Run ejecuta fn con los repos del store.
func (r *TxRunner) Run(ctx context.Context, fn func(tx kardex.Repos) error) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	return fn(r.Store.Repos())
}

func balanceKey(companyID, platformID string) string { return companyID + "|" + platformID }

// MovementRepo repositorio de movimientos en memoria.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(m *entity.KardexMovement) error {
	cp := *m
	r.s.Movements = append(r.s.Movements, &cp)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.KardexMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) LinkSale(movementID, saleID string) error {
	for _, m := range r.s.Movements {
		if m.ID == movementID {
			if m.SaleID != nil {
				return domain.ErrConflict
			}
			m.SaleID = &saleID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MovementRepo) ListByItem(companyID, platformID string) ([]*entity.KardexMovement, error) {
	var list []*entity.KardexMovement
	for _, m := range r.s.Movements {
		if m.CompanyID == companyID && m.PlatformID == platformID {
			list = append(list, m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *MovementRepo) ListByItemPaged(companyID, platformID string, from, to *time.Time, limit, offset int) ([]*entity.KardexMovement, error) {
	all, _ := r.ListByItem(companyID, platformID)
	var filtered []*entity.KardexMovement
	for _, m := range all {
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		filtered = append(filtered, m)
	}
	// más reciente primero
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// BalanceRepo repositorio de balances en memoria.
type BalanceRepo struct{ s *Store }

func (r *BalanceRepo) Get(companyID, platformID string) (*entity.ItemBalance, error) {
	if b, ok := r.s.Balances[balanceKey(companyID, platformID)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.ItemBalance{CompanyID: companyID, PlatformID: platformID, AvgCost: decimal.Zero}, nil
}

func (r *BalanceRepo) GetForUpdate(companyID, platformID string) (*entity.ItemBalance, error) {
	return r.Get(companyID, platformID)
}

func (r *BalanceRepo) Upsert(b *entity.ItemBalance) error {
	cp := *b
	r.s.Balances[balanceKey(b.CompanyID, b.PlatformID)] = &cp
	return nil
}

func (r *BalanceRepo) ListByCompany(companyID string) ([]*entity.ItemBalance, error) {
	var list []*entity.ItemBalance
	for _, b := range r.s.Balances {
		if b.CompanyID == companyID {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PlatformID < list[j].PlatformID })
	return list, nil
}

// AccountRepo repositorio de cuentas en memoria.
type AccountRepo struct{ s *Store }

func (r *AccountRepo) Create(a *entity.Account) error {
	cp := *a
	r.s.Accounts[a.ID] = &cp
	return nil
}

func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	if a, ok := r.s.Accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *AccountRepo) GetForUpdate(id string) (*entity.Account, error) { return r.GetByID(id) }

func (r *AccountRepo) Update(a *entity.Account) error {
	if _, ok := r.s.Accounts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.s.Accounts[a.ID] = &cp
	return nil
}

func (r *AccountRepo) UpdateStatus(id, status string) error {
	a, ok := r.s.Accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *AccountRepo) ListByCompany(companyID, platformID string, includeInactive bool, limit, offset int) ([]*entity.Account, error) {
	var list []*entity.Account
	for _, a := range r.s.Accounts {
		if a.CompanyID != companyID {
			continue
		}
		if platformID != "" && a.PlatformID != platformID {
			continue
		}
		if !includeInactive && a.Status == entity.AccountInactive {
			continue
		}
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// ProfileRepo repositorio de perfiles en memoria.
type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) CreateBatch(profiles []*entity.Profile) error {
	for _, p := range profiles {
		cp := *p
		r.s.Profiles[p.ID] = &cp
	}
	return nil
}

func (r *ProfileRepo) GetByID(id string) (*entity.Profile, error) {
	if p, ok := r.s.Profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProfileRepo) ListByAccount(accountID string) ([]*entity.Profile, error) {
	list := r.byAccount(accountID, "")
	sort.Slice(list, func(i, j int) bool { return list[i].ProfileNo < list[j].ProfileNo })
	return list, nil
}

func (r *ProfileRepo) CountByStatus(accountID, status string) (int, error) {
	return len(r.byAccount(accountID, status)), nil
}

func (r *ProfileRepo) FirstAvailableForUpdate(accountID string) (*entity.Profile, error) {
	list := r.byAccount(accountID, entity.ProfileAvailable)
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProfileNo < list[j].ProfileNo })
	cp := *list[0]
	return &cp, nil
}

func (r *ProfileRepo) ListAvailableDescForUpdate(accountID string, limit int) ([]*entity.Profile, error) {
	list := r.byAccount(accountID, entity.ProfileAvailable)
	sort.Slice(list, func(i, j int) bool { return list[i].ProfileNo > list[j].ProfileNo })
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	out := make([]*entity.Profile, 0, len(list))
	for _, p := range list {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProfileRepo) UpdateStatus(id, status string) error {
	p, ok := r.s.Profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *ProfileRepo) byAccount(accountID, status string) []*entity.Profile {
	var list []*entity.Profile
	for _, p := range r.s.Profiles {
		if p.AccountID != accountID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		list = append(list, p)
	}
	return list
}

// SaleRepo repositorio de ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.Sales[sale.ID] = &cp
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	if sale, ok := r.s.Sales[id]; ok {
		cp := *sale
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) UpdateStatus(id, status string) error {
	sale, ok := r.s.Sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Status = status
	return nil
}

func (r *SaleRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, sale := range r.s.Sales {
		if sale.CompanyID != companyID {
			continue
		}
		if from != nil && sale.SaleDate.Before(*from) {
			continue
		}
		if to != nil && sale.SaleDate.After(*to) {
			continue
		}
		list = append(list, sale)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleDate.After(list[j].SaleDate) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// SupplierRepo repositorio de proveedores en memoria.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	cp := *supplier
	r.s.Suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	if supplier, ok := r.s.Suppliers[id]; ok {
		cp := *supplier
		return &cp, nil
	}
	return nil, nil
}

func (r *SupplierRepo) GetByCompanyAndName(companyID, name string) (*entity.Supplier, error) {
	for _, supplier := range r.s.Suppliers {
		if supplier.CompanyID == companyID && supplier.Name == name {
			cp := *supplier
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	if _, ok := r.s.Suppliers[supplier.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *supplier
	r.s.Suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) IncrementSpend(id string, delta decimal.Decimal) error {
	supplier, ok := r.s.Suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	supplier.HistoricalSpend = supplier.HistoricalSpend.Add(delta)
	return nil
}

func (r *SupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for _, supplier := range r.s.Suppliers {
		if supplier.CompanyID == companyID {
			list = append(list, supplier)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// PlatformRepo repositorio de plataformas en memoria.
type PlatformRepo struct{ S *Store }

func (r *PlatformRepo) Create(p *entity.Platform) error {
	cp := *p
	r.S.Platforms[p.ID] = &cp
	return nil
}

func (r *PlatformRepo) GetByID(id string) (*entity.Platform, error) {
	if p, ok := r.S.Platforms[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *PlatformRepo) GetByCompanyAndName(companyID, name string) (*entity.Platform, error) {
	for _, p := range r.S.Platforms {
		if p.CompanyID == companyID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *PlatformRepo) Update(p *entity.Platform) error {
	if _, ok := r.S.Platforms[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.S.Platforms[p.ID] = &cp
	return nil
}

func (r *PlatformRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Platform, error) {
	var list []*entity.Platform
	for _, p := range r.S.Platforms {
		if p.CompanyID == companyID {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// CustomerRepo repositorio de clientes en memoria.
type CustomerRepo struct{ S *Store }

func (r *CustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.S.Customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.S.Customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range r.S.Customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) Update(c *entity.Customer) error {
	if _, ok := r.S.Customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.S.Customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, c := range r.S.Customers {
		if c.CompanyID == companyID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *CustomerRepo) Delete(id string) error {
	delete(r.S.Customers, id)
	return nil
}

// CompanyRepo repositorio de empresas en memoria.
type CompanyRepo struct{ S *Store }

func (r *CompanyRepo) Create(c *entity.Company) error {
	cp := *c
	r.S.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	if c, ok := r.S.Companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CompanyRepo) GetByNIT(nit string) (*entity.Company, error) {
	for _, c := range r.S.Companies {
		if c.NIT == nit {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	var list []*entity.Company
	for _, c := range r.S.Companies {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ S *Store }

func (r *UserRepo) Create(u *entity.User) error {
	cp := *u
	r.S.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.S.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.S.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.S.Users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	for _, u := range r.S.Users {
		if u.CompanyID == companyID {
			list = append(list, u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
