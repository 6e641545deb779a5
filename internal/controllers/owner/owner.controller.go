package ownerController

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrRequestPending    = errors.New("an owner application is already pending for this user")
	ErrAlreadyOwner      = errors.New("user is already an owner")
	ErrRequestDecided    = errors.New("owner application has already been decided")
	ErrFieldNameTaken    = errors.New("a requirement with this field name already exists")
	ErrRejectionRequired = errors.New("a rejection reason is required")
)

// OwnerController handles owner applications and the admin-managed
// application form schema.
type OwnerController struct {
	requests      repositories.OwnerRequestRepository
	requirements  repositories.OwnerRequirementRepository
	users         repositories.UserRepository
	transactions  *services.TransactionService
	notifications *services.NotificationService
	validate      *validator.Validate
	log           logger.Logger
}

type OwnerControllerInterface interface {
	GetApplicationForm(ctx context.Context) ([]*models.OwnerRequirement, error)
	SubmitRequest(ctx context.Context, user *models.User, req models.OwnerRequestSubmission) (*models.OwnerRequest, error)
	GetMyRequests(ctx context.Context, userID int) ([]*models.OwnerRequest, error)

	GetRequests(ctx context.Context, status models.OwnerRequestStatus) ([]*models.OwnerRequest, error)
	ApproveRequest(ctx context.Context, requestID int) (*models.OwnerRequest, error)
	RejectRequest(ctx context.Context, requestID int, reason string) (*models.OwnerRequest, error)

	GetRequirements(ctx context.Context, activeOnly bool) ([]*models.OwnerRequirement, error)
	CreateRequirement(ctx context.Context, req models.OwnerRequirementRequest) (*models.OwnerRequirement, error)
	UpdateRequirement(ctx context.Context, id int, req models.OwnerRequirementRequest) (*models.OwnerRequirement, error)
	DeleteRequirement(ctx context.Context, id int) error
	ReorderRequirements(ctx context.Context, req models.OwnerRequirementReorderRequest) error
}

func New(
	repos repositories.Repository,
	services services.Service,
) OwnerControllerInterface {
	return &OwnerController{
		requests:      repos.OwnerRequest,
		requirements:  repos.OwnerRequirement,
		users:         repos.User,
		transactions:  services.Transaction,
		notifications: services.Notification,
		validate:      validator.New(),
		log:           logger.New("ownerController"),
	}
}

// GetApplicationForm returns the active, ordered application schema.
func (c *OwnerController) GetApplicationForm(ctx context.Context) ([]*models.OwnerRequirement, error) {
	return c.requirements.GetAll(ctx, true)
}

// SubmitRequest files an owner application after validating the
// answers against the active schema. One pending application per user.
func (c *OwnerController) SubmitRequest(ctx context.Context, user *models.User, req models.OwnerRequestSubmission) (*models.OwnerRequest, error) {
	log := c.log.Function("SubmitRequest")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}
	if user.IsOwner() {
		return nil, ErrAlreadyOwner
	}

	if _, err := c.requests.GetPendingByUser(ctx, user.ID); err == nil {
		return nil, ErrRequestPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	requirements, err := c.requirements.GetAll(ctx, true)
	if err != nil {
		return nil, err
	}
	specs := make([]models.FieldSpec, 0, len(requirements))
	for _, requirement := range requirements {
		specs = append(specs, requirement.Spec())
	}
	if err := models.ValidateDynamicValues(specs, req.RequirementsData); err != nil {
		return nil, err
	}

	dataJSON, err := json.Marshal(req.RequirementsData)
	if err != nil {
		return nil, log.Err("failed to encode requirements data", err)
	}

	request := &models.OwnerRequest{
		UserID:           user.ID,
		RequirementsData: dataJSON,
		SubmittedAt:      time.Now(),
	}
	if err := c.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Info("Owner application submitted", "requestID", request.ID, "userID", user.ID)
	return request, nil
}

func (c *OwnerController) GetMyRequests(ctx context.Context, userID int) ([]*models.OwnerRequest, error) {
	return c.requests.GetByUser(ctx, userID)
}

func (c *OwnerController) GetRequests(ctx context.Context, status models.OwnerRequestStatus) ([]*models.OwnerRequest, error) {
	return c.requests.GetAll(ctx, status)
}

// ApproveRequest promotes the applicant to owner and records the
// decision in one transaction.
func (c *OwnerController) ApproveRequest(ctx context.Context, requestID int) (*models.OwnerRequest, error) {
	log := c.log.Function("ApproveRequest")

	request, err := c.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, ErrRequestDecided
	}

	user, err := c.users.GetByID(ctx, request.UserID)
	if err != nil {
		return nil, err
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		request.Approve(time.Now())
		if err := c.requests.Update(txCtx, request); err != nil {
			return err
		}

		user.Role = models.RoleOwner
		if err := c.users.Update(txCtx, user); err != nil {
			return err
		}

		return c.notifications.Notify(txCtx, user.ID,
			"Your owner application has been approved. You can now list items for rent.",
			models.NotificationGeneral)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Owner application approved", "requestID", request.ID, "userID", user.ID)
	return request, nil
}

func (c *OwnerController) RejectRequest(ctx context.Context, requestID int, reason string) (*models.OwnerRequest, error) {
	log := c.log.Function("RejectRequest")

	if reason == "" {
		return nil, ErrRejectionRequired
	}

	request, err := c.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, ErrRequestDecided
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		request.Reject(reason, time.Now())
		if err := c.requests.Update(txCtx, request); err != nil {
			return err
		}

		return c.notifications.Notify(txCtx, request.UserID,
			"Your owner application was rejected: "+reason,
			models.NotificationGeneral)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Owner application rejected", "requestID", request.ID, "userID", request.UserID)
	return request, nil
}

func (c *OwnerController) GetRequirements(ctx context.Context, activeOnly bool) ([]*models.OwnerRequirement, error) {
	return c.requirements.GetAll(ctx, activeOnly)
}

func (c *OwnerController) CreateRequirement(ctx context.Context, req models.OwnerRequirementRequest) (*models.OwnerRequirement, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	requirement := &models.OwnerRequirement{
		Label:       req.Label,
		FieldName:   req.FieldName,
		InputType:   req.InputType,
		IsRequired:  req.IsRequired,
		Placeholder: req.Placeholder,
		HelpText:    req.HelpText,
		OrderIndex:  req.OrderIndex,
		IsActive:    true,
	}
	if req.IsActive != nil {
		requirement.IsActive = *req.IsActive
	}
	if err := applyRequirementJSON(requirement, req); err != nil {
		return nil, err
	}

	if err := c.requirements.Create(ctx, requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

func (c *OwnerController) UpdateRequirement(ctx context.Context, id int, req models.OwnerRequirementRequest) (*models.OwnerRequirement, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	requirement, err := c.requirements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requirement.Label = req.Label
	requirement.FieldName = req.FieldName
	requirement.InputType = req.InputType
	requirement.IsRequired = req.IsRequired
	requirement.Placeholder = req.Placeholder
	requirement.HelpText = req.HelpText
	requirement.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		requirement.IsActive = *req.IsActive
	}
	if err := applyRequirementJSON(requirement, req); err != nil {
		return nil, err
	}

	if err := c.requirements.Update(ctx, requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

func (c *OwnerController) DeleteRequirement(ctx context.Context, id int) error {
	if _, err := c.requirements.GetByID(ctx, id); err != nil {
		return err
	}
	return c.requirements.Delete(ctx, id)
}

func (c *OwnerController) ReorderRequirements(ctx context.Context, req models.OwnerRequirementReorderRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return err
	}
	return c.requirements.Reorder(ctx, req.OrderedIDs)
}

func applyRequirementJSON(requirement *models.OwnerRequirement, req models.OwnerRequirementRequest) error {
	if len(req.Options) > 0 {
		encoded, err := json.Marshal(req.Options)
		if err != nil {
			return err
		}
		requirement.OptionsJSON = encoded
	} else {
		requirement.OptionsJSON = nil
	}

	if len(req.ValidationRules) > 0 {
		encoded, err := json.Marshal(req.ValidationRules)
		if err != nil {
			return err
		}
		requirement.ValidationRules = encoded
	} else {
		requirement.ValidationRules = nil
	}

	return nil
}
