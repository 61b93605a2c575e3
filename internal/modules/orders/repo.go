package orders

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"subbazar.com/app/internal/shared/dbconn"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// TrustedStore is the insert path behind the elevated credential; it
// satisfies Inserter for Service.
type TrustedStore struct{ db dbconn.Trusted }

func NewTrustedStore(db dbconn.Trusted) *TrustedStore { return &TrustedStore{db: db} }

func (s *TrustedStore) Insert(ctx context.Context, o *Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// GetSummary is the privilege-neutral lookup keyed only by order id. Both an
// authenticated owner and an anonymous guest mid-checkout hit this path; the
// email it returns is the ground truth proof submission binds to.
func (r *Repo) GetSummary(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

type ListByUserParams struct {
	UserID   string
	Page     int
	PageSize int
	Status   string // optional filter
}

type ListByUserResult struct {
	Items []Order
	Total int64
}

func (r *Repo) ListByUser(ctx context.Context, in ListByUserParams) (ListByUserResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	status := strings.TrimSpace(in.Status)

	// Include guest orders with the matching email that LinkToUser has not
	// claimed yet
	var userEmail string
	if err := r.db.WithContext(ctx).Table("users").Select("email").Where("id = ?", in.UserID).Scan(&userEmail).Error; err != nil {
		log.Printf("ListByUser: failed to get user email: %v", err)
		userEmail = ""
	}

	q := r.db.WithContext(ctx).Model(&Order{}).
		Where("user_id = ? OR (user_id IS NULL AND customer_email = ?)", in.UserID, userEmail)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListByUserResult{}, err
	}

	var items []Order
	if err := q.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListByUserResult{}, err
	}
	return ListByUserResult{Items: items, Total: total}, nil
}

type AdminListParams struct {
	Q        string
	Status   string
	Page     int
	PageSize int
}

type AdminListResult struct {
	Items []Order
	Total int64
}

func (r *Repo) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	q := strings.TrimSpace(in.Q)
	status := strings.TrimSpace(in.Status)

	base := r.db.WithContext(ctx).Model(&Order{})
	if status != "" {
		base = base.Where("status IN ?", statusWithAliases(status))
	}
	if q != "" {
		like := "%" + q + "%"
		base = base.Where("(id LIKE ? OR customer_email LIKE ?)", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return AdminListResult{}, err
	}

	var items []Order
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return AdminListResult{}, err
	}
	return AdminListResult{Items: items, Total: total}, nil
}

// statusWithAliases widens a filter to catch rows older tooling wrote with
// the legacy labels.
func statusWithAliases(status string) []string {
	switch status {
	case StatusPaid:
		return []string{StatusPaid, "approved", "completed"}
	case StatusPaymentFailed:
		return []string{StatusPaymentFailed, "rejected"}
	default:
		return []string{status}
	}
}

// LinkToUser claims unlinked guest orders for a freshly logged-in user. Keyed
// on the order email matching the account email.
func (r *Repo) LinkToUser(ctx context.Context, userID, email string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Order{}).
		Where("user_id IS NULL AND customer_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Update("user_id", userID)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("LinkToUser: claimed %d guest orders for user=%s", res.RowsAffected, userID)
	}
	return res.RowsAffected, nil
}
