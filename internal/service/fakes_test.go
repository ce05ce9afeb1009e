package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crowdsight/internal/model"
	"crowdsight/internal/repository"
)

type fakeReportRepo struct {
	mu            sync.Mutex
	nextID        int64
	reports       map[int64]*model.Report
	statusUpdates int
	// deleteOnUpdate simulates a concurrent delete landing between lookup and write
	deleteOnUpdate bool
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[int64]*model.Report{}}
}

func (f *fakeReportRepo) Create(_ context.Context, r *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Unix(f.nextID, 0)
	r.UpdatedAt = r.CreatedAt
	cp := *r
	f.reports[r.ID] = &cp
	return nil
}

func (f *fakeReportRepo) FindByID(_ context.Context, id int64) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) FindMany(_ context.Context, q model.ReportQuery) ([]model.Report, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []model.Report
	for _, r := range f.reports {
		if q.OwnerID != nil && (r.OwnerID == nil || *r.OwnerID != *q.OwnerID) {
			continue
		}
		if q.Status != nil && r.Status != *q.Status {
			continue
		}
		if q.CrowdLevel != nil && r.CrowdLevel != *q.CrowdLevel {
			continue
		}
		if s := strings.ToLower(q.Search); s != "" &&
			!strings.Contains(strings.ToLower(r.Title), s) &&
			!strings.Contains(strings.ToLower(r.Description), s) &&
			!strings.Contains(strings.ToLower(r.Location), s) {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.SortDesc {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return append([]model.Report{}, matched[start:end]...), total, nil
}

func (f *fakeReportRepo) UpdateStatus(_ context.Context, id int64, status model.ReportStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates++
	if f.deleteOnUpdate {
		delete(f.reports, id)
	}
	r, ok := f.reports[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeReportRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == model.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}
