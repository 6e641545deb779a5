package adminController

import (
	"context"
	"errors"
	"sort"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSelfDemotion   = errors.New("admins cannot change their own account this way")
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrEmailTaken     = errors.New("email is already registered")
	ErrUnknownRole    = errors.New("unknown role")
	ErrUserHasBooking = errors.New("user has an active booking and cannot be deleted")
)

// AdminController covers user administration and the dashboard.
type AdminController struct {
	users         repositories.UserRepository
	bookings      repositories.BookingRepository
	items         repositories.RentalItemRepository
	restrictions  repositories.UserRestrictionRepository
	notifications *services.NotificationService
	transactions  *services.TransactionService
	validate      *validator.Validate
	log           logger.Logger
}

type AdminControllerInterface interface {
	GetUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	CreateUser(ctx context.Context, req AdminUserCreateRequest) (*models.User, error)
	UpdateUser(ctx context.Context, admin *models.User, userID int, req AdminUserUpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, admin *models.User, userID int) error
	SetRestricted(ctx context.Context, admin *models.User, userID int, restricted bool) (*models.User, error)
	GetDashboard(ctx context.Context) (*DashboardStats, error)
	GetRevenueDetails(ctx context.Context, from, to *time.Time) (*RevenueDetails, error)
	GetRecentActivity(ctx context.Context) (*RecentActivity, error)
}

type AdminUserCreateRequest struct {
	FullName string          `json:"fullName" validate:"required"`
	Username string          `json:"username" validate:"required,min=3"`
	Email    string          `json:"email"    validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	Role     models.UserRole `json:"role"`
}

type AdminUserUpdateRequest struct {
	FullName string           `json:"fullName"`
	Phone    string           `json:"phone"`
	Address  string           `json:"address"`
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"isActive"`
}

// RevenueDetails breaks released payments down by calendar month.
type RevenueDetails struct {
	Months       []MonthlyRevenue `json:"months"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	TotalVolume  decimal.Decimal  `json:"totalVolume"`
}

type MonthlyRevenue struct {
	Month    string          `json:"month"`
	Bookings int             `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue"`
	Volume   decimal.Decimal `json:"volume"`
}

// RecentActivity is the dashboard feed of the latest bookings and
// registrations.
type RecentActivity struct {
	Bookings []*models.Booking    `json:"bookings"`
	Users    []models.UserProfile `json:"users"`
}

// DashboardStats is the admin landing page aggregate.
type DashboardStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalOwners      int64            `json:"totalOwners"`
	RestrictedUsers  int64            `json:"restrictedUsers"`
	TotalItems       int64            `json:"totalItems"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	HeldPayments     int              `json:"heldPayments"`
	HeldVolume       decimal.Decimal  `json:"heldVolume"`
	PlatformRevenue  decimal.Decimal  `json:"platformRevenue"`
}

func New(
	repos repositories.Repository,
	services services.Service,
) AdminControllerInterface {
	return &AdminController{
		users:         repos.User,
		bookings:      repos.Booking,
		items:         repos.RentalItem,
		restrictions:  repos.UserRestriction,
		notifications: services.Notification,
		transactions:  services.Transaction,
		validate:      validator.New(),
		log:           logger.New("adminController"),
	}
}

func (c *AdminController) GetUsers(ctx context.Context) ([]*models.User, error) {
	return c.users.GetAll(ctx)
}

func (c *AdminController) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return c.users.GetByID(ctx, userID)
}

func (c *AdminController) CreateUser(ctx context.Context, req AdminUserCreateRequest) (*models.User, error) {
	log := c.log.Function("CreateUser")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleOwner && role != models.RoleAdmin {
		return nil, ErrUnknownRole
	}

	if _, err := c.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := c.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	if err := c.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("User created by admin", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (c *AdminController) UpdateUser(ctx context.Context, admin *models.User, userID int, req AdminUserUpdateRequest) (*models.User, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		role := *req.Role
		if role != models.RoleUser && role != models.RoleOwner && role != models.RoleAdmin {
			return nil, ErrUnknownRole
		}
		if user.ID == admin.ID && role != models.RoleAdmin {
			return nil, ErrSelfDemotion
		}
		user.Role = role
	}
	if req.IsActive != nil {
		if user.ID == admin.ID && !*req.IsActive {
			return nil, ErrSelfDemotion
		}
		user.IsActive = *req.IsActive
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := c.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (c *AdminController) DeleteUser(ctx context.Context, admin *models.User, userID int) error {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == admin.ID {
		return ErrSelfDemotion
	}

	held, err := c.bookings.GetByRenter(ctx, user.ID, repositories.BookingFilter{PaymentStatus: models.PaymentHeld})
	if err != nil {
		return err
	}
	if len(held) > 0 {
		return ErrUserHasBooking
	}

	return c.users.Delete(ctx, user.ID)
}

// SetRestricted toggles the manual restriction flag on a user and
// notifies them.
func (c *AdminController) SetRestricted(ctx context.Context, admin *models.User, userID int, restricted bool) (*models.User, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID == admin.ID {
		return nil, ErrSelfDemotion
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		user.IsRestricted = restricted
		if err := c.users.Update(txCtx, user); err != nil {
			return err
		}

		restriction, err := c.restrictions.GetOrCreateByUser(txCtx, user.ID)
		if err != nil {
			return err
		}
		if restricted {
			until := time.Now().Add(models.RestrictionBlockDuration)
			restriction.Restricted = true
			restriction.BlockedUntil = &until
		} else {
			restriction.Unblock()
		}
		if err := c.restrictions.Update(txCtx, restriction); err != nil {
			return err
		}

		message := "Your account restriction has been lifted."
		typeTag := models.NotificationGeneral
		if restricted {
			message = "Your account has been restricted by an administrator."
			typeTag = models.NotificationRestriction
		}
		return c.notifications.Notify(txCtx, user.ID, message, typeTag)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

const recentActivityLimit = 10

// GetRevenueDetails groups released payments by the month they were
// released in. Months come back newest first.
func (c *AdminController) GetRevenueDetails(ctx context.Context, from, to *time.Time) (*RevenueDetails, error) {
	completed, err := c.bookings.GetCompleted(ctx, from, to)
	if err != nil {
		return nil, err
	}

	details := &RevenueDetails{
		TotalRevenue: decimal.Zero,
		TotalVolume:  decimal.Zero,
	}
	byMonth := map[string]*MonthlyRevenue{}
	var order []string
	for _, b := range completed {
		if b.PaymentReleasedAt == nil {
			continue
		}
		month := b.PaymentReleasedAt.Format("2006-01")
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthlyRevenue{Month: month, Revenue: decimal.Zero, Volume: decimal.Zero}
			byMonth[month] = entry
			order = append(order, month)
		}
		entry.Bookings++
		entry.Revenue = entry.Revenue.Add(b.ServiceFee)
		entry.Volume = entry.Volume.Add(b.TotalAmount())
		details.TotalRevenue = details.TotalRevenue.Add(b.ServiceFee)
		details.TotalVolume = details.TotalVolume.Add(b.TotalAmount())
	}
	for _, month := range order {
		details.Months = append(details.Months, *byMonth[month])
	}

	return details, nil
}

func (c *AdminController) GetRecentActivity(ctx context.Context) (*RecentActivity, error) {
	bookings, err := c.bookings.GetRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	users, err := c.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if len(users) > recentActivityLimit {
		users = users[:recentActivityLimit]
	}

	activity := &RecentActivity{Bookings: bookings}
	for _, user := range users {
		activity.Users = append(activity.Users, user.ToProfile())
	}

	return activity, nil
}

func (c *AdminController) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := c.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := c.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	held, err := c.bookings.GetHeld(ctx)
	if err != nil {
		return nil, err
	}

	completed, err := c.bookings.GetCompleted(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	counts, err := c.items.CountAvailableByCategory(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		BookingsByStatus: byStatus,
		HeldPayments:     len(held),
		HeldVolume:       decimal.Zero,
		PlatformRevenue:  decimal.Zero,
	}
	for _, user := range users {
		stats.TotalUsers++
		if user.IsOwner() {
			stats.TotalOwners++
		}
		if user.IsRestricted {
			stats.RestrictedUsers++
		}
	}
	for _, b := range held {
		stats.HeldVolume = stats.HeldVolume.Add(b.TotalAmount())
	}
	for _, b := range completed {
		stats.PlatformRevenue = stats.PlatformRevenue.Add(b.ServiceFee)
	}
	for _, count := range counts {
		stats.TotalItems += count
	}

	return stats, nil
}
