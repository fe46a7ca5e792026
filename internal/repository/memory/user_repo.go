package memory

import "context"

type UserRepository struct {
	s *Store
}

func (r *UserRepository) NamesByID(_ context.Context, companyID string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	names := make(map[string]string, len(r.s.userNames[companyID]))
	for id, name := range r.s.userNames[companyID] {
		names[id] = name
	}
	return names, nil
}
