// internal/domain/user/entity.go
package user

import "context"

// User is a read-only projection of the identity layer, enough to put a
// name next to a leaderboard row. Account management lives elsewhere.
type User struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	CompanyID string `json:"company_id" db:"company_id"`
}

type Repository interface {
	// NamesByID maps user id to display name for the tenant.
	NamesByID(ctx context.Context, companyID string) (map[string]string, error)
}
