package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
)

// dateLayouts are the accepted formats for date-typed fields. Anything else
// is rejected rather than coerced into a nonsense date.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// FieldError reports a single invalid request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

// ClientStore is the persistence surface the client service needs.
// *repository.ClientRepository implements it.
type ClientStore interface {
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Create(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, id int64, patch *model.ClientPatch) (*model.Client, error)
	Delete(ctx context.Context, id int64) error
}

// Uploader pushes a staged attachment to the object store, returning its
// permanent URL. *UploadService implements it.
type Uploader interface {
	Upload(ctx context.Context, kind model.AttachmentKind, stagingPath string) (string, error)
}

// ClientService validates, normalizes and persists client records.
type ClientService struct {
	clients  ClientStore
	auth     *AuthService
	uploader Uploader
}

// NewClientService creates a new ClientService.
func NewClientService(clients ClientStore, auth *AuthService, uploader Uploader) *ClientService {
	return &ClientService{clients: clients, auth: auth, uploader: uploader}
}

// checkMobileFree runs the advisory duplicate check. The unique constraint
// on clients.mobile remains the backstop when two registrations race past
// this check.
func (s *ClientService) checkMobileFree(ctx context.Context, mobile string) error {
	_, err := s.clients.GetByMobile(ctx, mobile)
	if err == nil {
		return repository.ErrDuplicateMobile
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// Register creates a minimal client record from mobile and password.
func (s *ClientService) Register(ctx context.Context, req model.ClientRegisterRequest) (*model.Client, error) {
	if err := s.checkMobileFree(ctx, req.Mobile); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	client := &model.Client{Mobile: req.Mobile, PasswordHash: hash}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Create persists a full client profile. Staged attachments are uploaded
// before anything is written, so a failed upload leaves no record behind.
func (s *ClientService) Create(ctx context.Context, req model.CreateClientRequest, files map[model.AttachmentKind]string) (*model.Client, error) {
	if err := s.checkMobileFree(ctx, req.Mobile); err != nil {
		return nil, err
	}

	dob, err := parseDate("dob", req.DOB)
	if err != nil {
		return nil, err
	}
	enrolment, err := parseDate("dateOfEnrolment", req.DateOfEnrolment)
	if err != nil {
		return nil, err
	}
	llExpiry, err := parseDate("expiryOfLL", req.ExpiryOfLL)
	if err != nil {
		return nil, err
	}
	testDate, err := parseDate("mainTestDate", req.MainTestDate)
	if err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	photoURL, licenseURL, err := s.uploadAttachments(ctx, files)
	if err != nil {
		return nil, err
	}

	client := &model.Client{
		FirstName:         &req.FirstName,
		Mobile:            req.Mobile,
		PasswordHash:      hash,
		ApplicationNo:     optional(req.ApplicationNo),
		Phone:             optional(req.Phone),
		Relation:          optional(req.Relation),
		PermanentAddress:  optional(req.PermanentAddress),
		TemporaryAddress:  optional(req.TemporaryAddress),
		DOB:               dob,
		Photo:             photoURL,
		LicenseFile:       licenseURL,
		ClassOfVehicle:    optional(req.ClassOfVehicle),
		DateOfEnrolment:   enrolment,
		LearnersLicenseNo: optional(req.LearnersLicenseNo),
		ExpiryOfLL:        llExpiry,
		MainTestDate:      testDate,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Login authenticates a client by mobile and password and issues a token
// scoped to their id. Unknown mobiles and wrong passwords are reported
// identically.
func (s *ClientService) Login(ctx context.Context, req model.ClientLoginRequest) (string, *model.Client, error) {
	client, err := s.clients.GetByMobile(ctx, req.Mobile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.auth.CheckPassword(client.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}

	token, err := s.auth.GenerateToken(client.ID, TokenKindClient)
	if err != nil {
		return "", nil, err
	}
	return token, client, nil
}

// Get retrieves a single client record.
func (s *ClientService) Get(ctx context.Context, id int64) (*model.Client, error) {
	return s.clients.GetByID(ctx, id)
}

// List retrieves all client records, newest first.
func (s *ClientService) List(ctx context.Context) ([]model.Client, error) {
	return s.clients.List(ctx)
}

// Update applies a shallow merge of the provided fields onto the stored
// record. Date strings are parsed first; staged attachments are uploaded and
// their URLs merged into the patch before anything is persisted.
func (s *ClientService) Update(ctx context.Context, id int64, req model.UpdateClientRequest, files map[model.AttachmentKind]string) (*model.Client, error) {
	patch := &model.ClientPatch{
		FirstName:         req.FirstName,
		Mobile:            req.Mobile,
		ApplicationNo:     req.ApplicationNo,
		Phone:             req.Phone,
		Relation:          req.Relation,
		PermanentAddress:  req.PermanentAddress,
		TemporaryAddress:  req.TemporaryAddress,
		ClassOfVehicle:    req.ClassOfVehicle,
		LearnersLicenseNo: req.LearnersLicenseNo,
		TotalFee:          req.TotalFee,
		PaidFee:           req.PaidFee,
		FeeDiscount:       req.FeeDiscount,
		TotalClasses:      req.TotalClasses,
		ClassesAttended:   req.ClassesAttended,
	}

	var err error
	if patch.DOB, err = parseDatePtr("dob", req.DOB); err != nil {
		return nil, err
	}
	if patch.DateOfEnrolment, err = parseDatePtr("dateOfEnrolment", req.DateOfEnrolment); err != nil {
		return nil, err
	}
	if patch.ExpiryOfLL, err = parseDatePtr("expiryOfLL", req.ExpiryOfLL); err != nil {
		return nil, err
	}
	if patch.MainTestDate, err = parseDatePtr("mainTestDate", req.MainTestDate); err != nil {
		return nil, err
	}

	patch.Photo, patch.LicenseFile, err = s.uploadAttachments(ctx, files)
	if err != nil {
		return nil, err
	}

	return s.clients.Update(ctx, id, patch)
}

// Delete removes a client record unconditionally.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.clients.Delete(ctx, id)
}

// uploadAttachments pushes any staged files to the object store in a fixed
// order and returns the resulting references.
func (s *ClientService) uploadAttachments(ctx context.Context, files map[model.AttachmentKind]string) (photo, license *string, err error) {
	if path, ok := files[model.AttachmentPhoto]; ok {
		url, err := s.uploader.Upload(ctx, model.AttachmentPhoto, path)
		if err != nil {
			return nil, nil, err
		}
		photo = &url
	}
	if path, ok := files[model.AttachmentLicense]; ok {
		url, err := s.uploader.Upload(ctx, model.AttachmentLicense, path)
		if err != nil {
			return nil, nil, err
		}
		license = &url
	}
	return photo, license, nil
}

// parseDate parses a date-typed form field. Empty input means the field was
// not provided.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, &FieldError{Field: field, Reason: "must be a valid date (YYYY-MM-DD)"}
}

// parseDatePtr is parseDate for optional update fields.
func parseDatePtr(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return parseDate(field, *value)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
