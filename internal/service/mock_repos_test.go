package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
)

// ── In-memory store shared by the mock repositories ──
//
// Every mock goes through one mutex, so the store behaves like a database
// that applies each statement atomically. The single-open-row rules are
// enforced on insert the way the partial unique indexes do.

type mockStore struct {
	mu     sync.Mutex
	nextID uint

	users         map[uint]*model.User
	workers       map[uint]*model.Worker
	shifts        map[uint]*model.Shift
	modules       map[uint]*model.Module
	components    map[uint]*model.Component
	orders        map[string]*model.Order
	workItems     map[uint]*model.WorkItemEvent
	stoppageTypes map[uint]*model.StoppageType
	stoppages     map[uint]*model.StoppageEvent
	defects       []*model.Defect
	audits        []*model.AuditEntry

	auditErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         make(map[uint]*model.User),
		workers:       make(map[uint]*model.Worker),
		shifts:        make(map[uint]*model.Shift),
		modules:       make(map[uint]*model.Module),
		components:    make(map[uint]*model.Component),
		orders:        make(map[string]*model.Order),
		workItems:     make(map[uint]*model.WorkItemEvent),
		stoppageTypes: make(map[uint]*model.StoppageType),
		stoppages:     make(map[uint]*model.StoppageEvent),
	}
}

func (s *mockStore) id() uint {
	s.nextID++
	return s.nextID
}

// newMockRepository wires every mock over one store
func newMockRepository() (*repository.Repository, *mockStore) {
	store := newMockStore()
	return &repository.Repository{
		User:     &mockUserRepo{store},
		Worker:   &mockWorkerRepo{store},
		Shift:    &mockShiftRepo{store},
		Catalog:  &mockCatalogRepo{store},
		Order:    &mockOrderRepo{store},
		WorkItem: &mockWorkItemRepo{store},
		Stoppage: &mockStoppageRepo{store},
		Defect:   &mockDefectRepo{store},
		Audit:    &mockAuditRepo{store},
	}, store
}

// ── Fixtures ──

func (s *mockStore) addWorker(name, pin string, active bool) *model.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, _ := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	user := &model.User{ID: s.id(), Username: name, FullName: name, Role: model.RoleWelder, PasswordHash: "-", IsActive: true}
	s.users[user.ID] = user
	worker := &model.Worker{ID: s.id(), UserID: user.ID, PinHash: string(hash), IsActive: active}
	s.workers[worker.ID] = worker
	return worker
}

func (s *mockStore) addStaff(username, password, role string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{ID: s.id(), Username: username, FullName: username, Role: role, PasswordHash: string(hash), IsActive: true}
	s.users[user.ID] = user
	return user
}

func (s *mockStore) addShift(workerID uint, date time.Time, hours float64, status string) *model.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift := &model.Shift{ID: s.id(), WorkerID: workerID, ShiftDate: date, StartedAt: date.Add(7 * time.Hour), AvailableHours: hours, Status: status}
	s.shifts[shift.ID] = shift
	return shift
}

func (s *mockStore) addModule(name string, active bool) *model.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.Module{ID: s.id(), Name: name, IsActive: active}
	s.modules[m.ID] = m
	return m
}

func (s *mockStore) addComponent(name string, standard float64, formula string) *model.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Component{ID: s.id(), Name: name, StandardTime: standard, Formula: formula, IsActive: true}
	s.components[c.ID] = c
	return c
}

func (s *mockStore) addStoppageType(name, category string, counts bool) *model.StoppageType {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &model.StoppageType{ID: s.id(), Name: name, Category: category, CountsAgainstAvailability: counts, IsActive: true}
	s.stoppageTypes[st.ID] = st
	return st
}

// addFinishedItem stores a finished work item directly, bypassing the tracker
func (s *mockStore) addFinishedItem(workerID, moduleID, componentID uint, start time.Time, standard, actual float64, diameter *float64) *model.WorkItemEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := start.Add(time.Duration(actual * float64(time.Minute)))
	eff := standard / actual * 100
	ev := &model.WorkItemEvent{
		ID: s.id(), WorkerID: workerID, ModuleID: moduleID, ComponentID: componentID,
		StartedAt: start, EndedAt: &end, StandardTime: standard, ActualTime: &actual, Efficiency: &eff,
		Diameter: diameter,
	}
	s.workItems[ev.ID] = ev
	return ev
}

func (s *mockStore) addFinishedStoppage(workerID, typeID uint, start time.Time, minutes float64) *model.StoppageEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := start.Add(time.Duration(minutes * float64(time.Minute)))
	ev := &model.StoppageEvent{ID: s.id(), WorkerID: workerID, StoppageTypeID: typeID, StartedAt: start, EndedAt: &end, DurationMinutes: &minutes}
	s.stoppages[ev.ID] = ev
	return ev
}

func (s *mockStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		actions = append(actions, a.Action)
	}
	return actions
}

func (s *mockStore) countOpenWorkItems(workerID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.workItems {
		if ev.WorkerID == workerID && ev.EndedAt == nil {
			n++
		}
	}
	return n
}

func (s *mockStore) countOpenStoppages(workerID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.stoppages {
		if ev.WorkerID == workerID && ev.EndedAt == nil {
			n++
		}
	}
	return n
}

func (s *mockStore) workItem(id uint) model.WorkItemEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.workItems[id]
}

func (s *mockStore) shift(id uint) model.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.shifts[id]
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user.ID = m.s.id()
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.User
	for _, u := range m.s.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct{ s *mockStore }

func (m *mockWorkerRepo) withUser(w *model.Worker) *model.Worker {
	cp := *w
	if u, ok := m.s.users[w.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}

func (m *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	worker.ID = m.s.id()
	cp := *worker
	m.s.workers[worker.ID] = &cp
	return nil
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id uint) (*model.Worker, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if w, ok := m.s.workers[id]; ok {
		return m.withUser(w), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) ListActive(_ context.Context) ([]model.Worker, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Worker
	for _, w := range m.s.workers {
		if w.IsActive {
			out = append(out, *m.withUser(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return out, nil
}

func (m *mockWorkerRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx)
	return int64(len(list)), nil
}

func (m *mockWorkerRepo) ListByUserIDs(_ context.Context, userIDs []uint) ([]model.Worker, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []model.Worker
	for _, w := range m.s.workers {
		if wanted[w.UserID] {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockWorkerRepo) SetActive(_ context.Context, id uint, active bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if w, ok := m.s.workers[id]; ok {
		w.IsActive = active
	}
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct{ s *mockStore }

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, sh := range m.s.shifts {
		if sh.WorkerID == shift.WorkerID && sh.Status == model.ShiftActive && shift.Status == model.ShiftActive {
			return gorm.ErrDuplicatedKey
		}
	}
	shift.ID = m.s.id()
	cp := *shift
	m.s.shifts[shift.ID] = &cp
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id uint) (*model.Shift, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sh, ok := m.s.shifts[id]; ok {
		cp := *sh
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetActiveByWorker(_ context.Context, workerID uint) (*model.Shift, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, sh := range m.s.shifts {
		if sh.WorkerID == workerID && sh.Status == model.ShiftActive {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Finish(_ context.Context, id uint, endedAt time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sh, ok := m.s.shifts[id]
	if !ok || sh.Status != model.ShiftActive {
		return 0, nil
	}
	sh.EndedAt = &endedAt
	sh.Status = model.ShiftFinished
	return 1, nil
}

func (m *mockShiftRepo) SumAvailableHours(_ context.Context, workerID *uint, fromDate, toDate time.Time) (float64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var total float64
	for _, sh := range m.s.shifts {
		if workerID != nil && sh.WorkerID != *workerID {
			continue
		}
		if sh.ShiftDate.Before(fromDate) || sh.ShiftDate.After(toDate) {
			continue
		}
		total += sh.AvailableHours
	}
	return total, nil
}

func (m *mockShiftRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, sh := range m.s.shifts {
		if sh.ShiftDate.Equal(date) {
			n++
		}
	}
	return n, nil
}

// ── Mock CatalogRepository ──

type mockCatalogRepo struct{ s *mockStore }

func (m *mockCatalogRepo) CreateModule(_ context.Context, module *model.Module) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	module.ID = m.s.id()
	cp := *module
	m.s.modules[module.ID] = &cp
	return nil
}

func (m *mockCatalogRepo) GetModule(_ context.Context, id uint) (*model.Module, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v, ok := m.s.modules[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListActiveModules(_ context.Context) ([]model.Module, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Module
	for _, v := range m.s.modules {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepo) CreateComponent(_ context.Context, component *model.Component) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	component.ID = m.s.id()
	cp := *component
	m.s.components[component.ID] = &cp
	return nil
}

func (m *mockCatalogRepo) GetComponent(_ context.Context, id uint) (*model.Component, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v, ok := m.s.components[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListActiveComponents(_ context.Context) ([]model.Component, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Component
	for _, v := range m.s.components {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepo) CreateStoppageType(_ context.Context, st *model.StoppageType) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	st.ID = m.s.id()
	cp := *st
	m.s.stoppageTypes[st.ID] = &cp
	return nil
}

func (m *mockCatalogRepo) GetStoppageType(_ context.Context, id uint) (*model.StoppageType, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v, ok := m.s.stoppageTypes[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListActiveStoppageTypes(_ context.Context, category string) ([]model.StoppageType, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StoppageType
	for _, v := range m.s.stoppageTypes {
		if v.IsActive && (category == "" || v.Category == category) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct{ s *mockStore }

func (m *mockOrderRepo) GetByNumber(_ context.Context, number string) (*model.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if o, ok := m.s.orders[number]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) Resolve(ctx context.Context, number string) (*model.Order, error) {
	m.s.mu.Lock()
	if _, ok := m.s.orders[number]; !ok {
		m.s.orders[number] = &model.Order{ID: m.s.id(), Number: number, Status: "active"}
	}
	m.s.mu.Unlock()
	return m.GetByNumber(ctx, number)
}

// ── Mock WorkItemRepository ──

type mockWorkItemRepo struct{ s *mockStore }

// hydrate copies the event with its associations, caller holds the lock
func (m *mockWorkItemRepo) hydrate(ev *model.WorkItemEvent) model.WorkItemEvent {
	cp := *ev
	if w, ok := m.s.workers[ev.WorkerID]; ok {
		cp.Worker = (&mockWorkerRepo{m.s}).withUser(w)
	}
	if v, ok := m.s.modules[ev.ModuleID]; ok {
		mc := *v
		cp.Module = &mc
	}
	if v, ok := m.s.components[ev.ComponentID]; ok {
		cc := *v
		cp.Component = &cc
	}
	for _, o := range m.s.orders {
		if o.ID == ev.OrderID {
			oc := *o
			cp.Order = &oc
		}
	}
	return cp
}

func (m *mockWorkItemRepo) Create(_ context.Context, event *model.WorkItemEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ev := range m.s.workItems {
		if ev.WorkerID == event.WorkerID && ev.EndedAt == nil {
			return gorm.ErrDuplicatedKey
		}
	}
	event.ID = m.s.id()
	cp := *event
	m.s.workItems[event.ID] = &cp
	return nil
}

func (m *mockWorkItemRepo) GetByID(_ context.Context, id uint) (*model.WorkItemEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if ev, ok := m.s.workItems[id]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkItemRepo) GetOpenByWorker(_ context.Context, workerID uint) (*model.WorkItemEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ev := range m.s.workItems {
		if ev.WorkerID == workerID && ev.EndedAt == nil {
			cp := m.hydrate(ev)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkItemRepo) GetOpenByIDAndWorker(_ context.Context, id, workerID uint) (*model.WorkItemEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if ev, ok := m.s.workItems[id]; ok && ev.WorkerID == workerID && ev.EndedAt == nil {
		cp := *ev
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkItemRepo) Finish(_ context.Context, id uint, endedAt time.Time, actual, efficiency float64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ev, ok := m.s.workItems[id]
	if !ok || ev.EndedAt != nil {
		return 0, nil
	}
	ev.EndedAt = &endedAt
	ev.ActualTime = &actual
	ev.Efficiency = &efficiency
	return 1, nil
}

func (m *mockWorkItemRepo) ListFinished(_ context.Context, f repository.WorkItemFilter) ([]model.WorkItemEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.WorkItemEvent
	for _, ev := range m.s.workItems {
		switch {
		case ev.EndedAt == nil,
			f.WorkerID != nil && ev.WorkerID != *f.WorkerID,
			f.ModuleID != nil && ev.ModuleID != *f.ModuleID,
			f.ComponentID != nil && ev.ComponentID != *f.ComponentID,
			f.From != nil && ev.StartedAt.Before(*f.From),
			f.To != nil && !ev.StartedAt.Before(*f.To):
			continue
		}
		out = append(out, m.hydrate(ev))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockWorkItemRepo) CountStarted(_ context.Context, from, to time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, ev := range m.s.workItems {
		if !ev.StartedAt.Before(from) && ev.StartedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// ── Mock StoppageRepository ──

type mockStoppageRepo struct{ s *mockStore }

func (m *mockStoppageRepo) match(ev *model.StoppageEvent, f repository.StoppageFilter) bool {
	if ev.EndedAt == nil || ev.StartedAt.Before(f.From) || !ev.StartedAt.Before(f.To) {
		return false
	}
	return f.WorkerID == nil || ev.WorkerID == *f.WorkerID
}

func (m *mockStoppageRepo) Create(_ context.Context, event *model.StoppageEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ev := range m.s.stoppages {
		if ev.WorkerID == event.WorkerID && ev.EndedAt == nil {
			return gorm.ErrDuplicatedKey
		}
	}
	event.ID = m.s.id()
	cp := *event
	m.s.stoppages[event.ID] = &cp
	return nil
}

func (m *mockStoppageRepo) GetByID(_ context.Context, id uint) (*model.StoppageEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if ev, ok := m.s.stoppages[id]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoppageRepo) GetOpenByWorker(_ context.Context, workerID uint) (*model.StoppageEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ev := range m.s.stoppages {
		if ev.WorkerID == workerID && ev.EndedAt == nil {
			cp := *ev
			if st, ok := m.s.stoppageTypes[ev.StoppageTypeID]; ok {
				sc := *st
				cp.StoppageType = &sc
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoppageRepo) GetOpenByIDAndWorker(_ context.Context, id, workerID uint) (*model.StoppageEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if ev, ok := m.s.stoppages[id]; ok && ev.WorkerID == workerID && ev.EndedAt == nil {
		cp := *ev
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoppageRepo) Finish(_ context.Context, id uint, endedAt time.Time, durationMinutes float64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ev, ok := m.s.stoppages[id]
	if !ok || ev.EndedAt != nil {
		return 0, nil
	}
	ev.EndedAt = &endedAt
	ev.DurationMinutes = &durationMinutes
	return 1, nil
}

func (m *mockStoppageRepo) SumCountingMinutes(_ context.Context, f repository.StoppageFilter) (float64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var total float64
	for _, ev := range m.s.stoppages {
		st := m.s.stoppageTypes[ev.StoppageTypeID]
		if m.match(ev, f) && st != nil && st.CountsAgainstAvailability {
			total += *ev.DurationMinutes
		}
	}
	return total, nil
}

func (m *mockStoppageRepo) SummarizeByCategory(_ context.Context, f repository.StoppageFilter) ([]repository.CategoryTotal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	byCat := make(map[string]*repository.CategoryTotal)
	for _, ev := range m.s.stoppages {
		st := m.s.stoppageTypes[ev.StoppageTypeID]
		if !m.match(ev, f) || st == nil {
			continue
		}
		t, ok := byCat[st.Category]
		if !ok {
			t = &repository.CategoryTotal{Category: st.Category}
			byCat[st.Category] = t
		}
		t.Count++
		t.TotalMinutes += *ev.DurationMinutes
	}
	var out []repository.CategoryTotal
	for _, t := range byCat {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (m *mockStoppageRepo) ListFinished(_ context.Context, f repository.StoppageFilter) ([]model.StoppageEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.StoppageEvent
	for _, ev := range m.s.stoppages {
		if !m.match(ev, f) {
			continue
		}
		cp := *ev
		if st, ok := m.s.stoppageTypes[ev.StoppageTypeID]; ok {
			sc := *st
			cp.StoppageType = &sc
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (m *mockStoppageRepo) CountFinished(ctx context.Context, f repository.StoppageFilter) (int64, error) {
	list, _ := m.ListFinished(ctx, f)
	return int64(len(list)), nil
}

// ── Mock DefectRepository ──

type mockDefectRepo struct{ s *mockStore }

func (m *mockDefectRepo) Create(_ context.Context, defect *model.Defect) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	defect.ID = m.s.id()
	cp := *defect
	m.s.defects = append(m.s.defects, &cp)
	return nil
}

func (m *mockDefectRepo) SumAreaByWorkItems(_ context.Context, ids []uint) (float64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var total float64
	for _, d := range m.s.defects {
		if want[d.WorkItemEventID] {
			total += d.DefectArea
		}
	}
	return total, nil
}

// ── Mock AuditRepository ──

type mockAuditRepo struct{ s *mockStore }

func (m *mockAuditRepo) Create(_ context.Context, entry *model.AuditEntry) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.auditErr != nil {
		return m.s.auditErr
	}
	entry.ID = m.s.id()
	cp := *entry
	m.s.audits = append(m.s.audits, &cp)
	return nil
}

func (m *mockAuditRepo) ListByRecord(_ context.Context, table, recordID string) ([]model.AuditEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.AuditEntry
	for _, a := range m.s.audits {
		if a.AffectedTable == table && a.RecordID == recordID {
			out = append(out, *a)
		}
	}
	return out, nil
}

var errAuditDown = errors.New("audit table unavailable")
