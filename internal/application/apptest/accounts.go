package apptest

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// UserRepo implementación en memoria de repository.UserRepository.
type UserRepo struct{ Store *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Firstname < out[j].Firstname })
	return out, nil
}

func (r *UserRepo) ListActiveAdmins(ctx context.Context) ([]*entity.User, error) {
	all, _ := r.List(ctx)
	out := make([]*entity.User, 0)
	for _, u := range all {
		if u.IsActive && u.IsAdmin() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepo) CountAdmins(ctx context.Context) (int, error) {
	all, _ := r.List(ctx)
	n := 0
	for _, u := range all {
		if u.IsAdmin() {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	s.users[id] = u
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// ActivityRepo implementación en memoria de repository.ActivityLogRepository.
type ActivityRepo struct{ Store *Store }

var _ repository.ActivityLogRepository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *l)
	return nil
}

func (r *ActivityRepo) List(ctx context.Context, f repository.ActivityFilter) ([]repository.ActivityRecord, int, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := make([]repository.ActivityRecord, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		l := s.logs[i]
		u := s.users[l.UserID]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Action), search) &&
			!strings.Contains(strings.ToLower(u.Firstname+" "+u.Lastname), search) {
			continue
		}
		all = append(all, repository.ActivityRecord{Log: l, Firstname: u.Firstname, Lastname: u.Lastname})
	}
	total := len(all)
	if f.Offset >= total {
		return []repository.ActivityRecord{}, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

// NotificationRepo implementación en memoria de repository.NotificationRepository.
type NotificationRepo struct{ Store *Store }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if n := s.notifications[i]; n.UserID == userID {
			out = append(out, &n)
		}
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}
