// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/platform/validate"
	"github.com/taibuivan/adminportal/pkg/pagination"
	"github.com/taibuivan/adminportal/pkg/pointer"
)

// Field limits, in characters.
const (
	maxNameLen     = 255
	maxEmailLen    = 255
	maxLoginLen    = 50
	maxPhoneLen    = 30
	maxImageLen    = 255
	minPasswordLen = 6
)

// ErrUserNotFound is returned for unknown user ids.
var ErrUserNotFound = apperr.NotFound("Usuário não encontrado")

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// # Service Layer

// Service implements the user record operations.
type Service struct {
	repository UserRepository
	hasher     PasswordHasher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a user [Service].
func NewService(repository UserRepository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		hasher:     hasher,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for audit stamps.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// List returns users matching filter. A nil page returns all of them.
func (service *Service) List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Identity, int, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return service.repository.List(ctx, filter, page)
}

// Get returns one user.
func (service *Service) Get(ctx context.Context, id int64) (*Identity, error) {
	identity, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return identity, nil
}

/*
Create validates input and inserts a new user stamped with actor.

Required: NOME, EMAIL, LOGIN, SENHA, IDPERFIL, IDDEPART. ATIVO defaults to
true. The password is stored only as a hash.
*/
func (service *Service) Create(ctx context.Context, actor *sec.Principal, input Input) (*Identity, error) {
	v := &validate.Validator{}

	v.Custom(FieldName, !input.Name.Set(), validate.MsgRequired).
		Custom(FieldEmail, !input.Email.Set(), validate.MsgRequired).
		Custom(FieldLogin, !input.Login.Set(), validate.MsgRequired).
		Custom(FieldPassword, !input.Password.Set(), validate.MsgRequired).
		Custom(FieldProfileID, !input.ProfileID.Set(), validate.MsgRequired).
		Custom(FieldDepartmentID, !input.DepartmentID.Set(), validate.MsgRequired)
	service.checkFields(v, input)

	if err := service.checkUnique(ctx, v, input, 0); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := service.hasher.Hash(input.Password.Value)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now()
	identity := &Identity{
		Active:            true,
		Name:              strings.TrimSpace(input.Name.Value),
		Email:             strings.TrimSpace(input.Email.Value),
		Login:             strings.TrimSpace(input.Login.Value),
		PasswordHash:      hash,
		Phone:             input.Phone.Ptr(),
		Image:             input.Image.Ptr(),
		ProfileID:         input.ProfileID.Value,
		DepartmentID:      input.DepartmentID.Value,
		CreatedBy:         actor.Actor(),
		CreatedAt:         now,
		PasswordChangedAt: &now,
	}
	if input.Active.Set() {
		identity.Active = input.Active.Value
	}

	if err := service.repository.Create(ctx, identity); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_created",
		slog.Int64("user_id", identity.ID),
		slog.String("actor", actor.Actor()),
	)
	return identity, nil
}

/*
Update merges the present fields of input into user id.

Absent fields keep their stored value. USUARIOALT/DATAALT are stamped on
every call. A new SENHA is re-hashed and stamps SENHAULTIMAALT.
*/
func (service *Service) Update(ctx context.Context, actor *sec.Principal, id int64, input Input) (*Identity, error) {
	identity, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	// Present-but-null is only allowed for the nullable TELEFONE and IMAGEM.
	v := &validate.Validator{}
	v.Custom(FieldActive, input.Active.Null, validate.MsgRequired).
		Custom(FieldName, input.Name.Null, validate.MsgRequired).
		Custom(FieldEmail, input.Email.Null, validate.MsgRequired).
		Custom(FieldLogin, input.Login.Null, validate.MsgRequired).
		Custom(FieldPassword, input.Password.Null, validate.MsgRequired).
		Custom(FieldProfileID, input.ProfileID.Null, validate.MsgRequired).
		Custom(FieldDepartmentID, input.DepartmentID.Null, validate.MsgRequired)
	service.checkFields(v, input)

	if err := service.checkUnique(ctx, v, input, id); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := service.now()

	if input.Password.Set() {
		hash, err := service.hasher.Hash(input.Password.Value)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		identity.PasswordHash = hash
		identity.PasswordChangedAt = &now
	}

	if input.Active.Set() {
		identity.Active = input.Active.Value
	}
	if input.Name.Set() {
		identity.Name = strings.TrimSpace(input.Name.Value)
	}
	if input.Email.Set() {
		identity.Email = strings.TrimSpace(input.Email.Value)
	}
	if input.Login.Set() {
		identity.Login = strings.TrimSpace(input.Login.Value)
	}
	if input.Phone.Present {
		identity.Phone = input.Phone.Ptr()
	}
	if input.Image.Present {
		identity.Image = input.Image.Ptr()
	}
	if input.ProfileID.Set() {
		identity.ProfileID = input.ProfileID.Value
	}
	if input.DepartmentID.Set() {
		identity.DepartmentID = input.DepartmentID.Value
	}

	identity.ModifiedBy = pointer.To(actor.Actor())
	identity.ModifiedAt = &now

	if err := service.repository.Update(ctx, identity); err != nil {
		return nil, notFound(err)
	}

	service.logger.InfoContext(ctx, "user_updated",
		slog.Int64("user_id", identity.ID),
		slog.String("actor", actor.Actor()),
		slog.Bool("password_rotated", input.Password.Set()),
	)
	return identity, nil
}

// Delete removes user id.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	service.logger.WarnContext(ctx, "user_deleted", slog.Int64("user_id", id))
	return nil
}

// # Validation

// checkFields applies the format rules to every set field.
func (service *Service) checkFields(v *validate.Validator, input Input) {
	if input.Name.Set() {
		v.Required(FieldName, input.Name.Value).MaxLen(FieldName, input.Name.Value, maxNameLen)
	}
	if input.Email.Set() {
		email := strings.TrimSpace(input.Email.Value)
		v.Required(FieldEmail, email)
		if email != "" {
			v.Email(FieldEmail, email).MaxLen(FieldEmail, email, maxEmailLen)
		}
	}
	if input.Login.Set() {
		v.Required(FieldLogin, input.Login.Value).MaxLen(FieldLogin, input.Login.Value, maxLoginLen)
	}
	if input.Password.Set() {
		v.MinLen(FieldPassword, input.Password.Value, minPasswordLen)
	}
	if input.Phone.Set() {
		v.MaxLen(FieldPhone, input.Phone.Value, maxPhoneLen)
	}
	if input.Image.Set() {
		v.MaxLen(FieldImage, input.Image.Value, maxImageLen)
	}
	if input.ProfileID.Set() {
		v.Positive(FieldProfileID, input.ProfileID.Value)
	}
	if input.DepartmentID.Set() {
		v.Positive(FieldDepartmentID, input.DepartmentID.Value)
	}
}

// checkUnique adds EMAIL/LOGIN conflicts with rows other than excludeID.
// Fields that already failed a format rule are not queried.
func (service *Service) checkUnique(ctx context.Context, v *validate.Validator, input Input, excludeID int64) error {
	if input.Email.Set() && !v.Failed(FieldEmail) {
		taken, err := service.repository.EmailTaken(ctx, strings.TrimSpace(input.Email.Value), excludeID)
		if err != nil {
			return err
		}
		v.Custom(FieldEmail, taken, validate.MsgTaken)
	}

	if input.Login.Set() && !v.Failed(FieldLogin) {
		taken, err := service.repository.LoginTaken(ctx, strings.TrimSpace(input.Login.Value), excludeID)
		if err != nil {
			return err
		}
		v.Custom(FieldLogin, taken, validate.MsgTaken)
	}
	return nil
}

func notFound(err error) error {
	if dberr.IsNotFound(err) {
		return ErrUserNotFound.WithCause(err)
	}
	return err
}
