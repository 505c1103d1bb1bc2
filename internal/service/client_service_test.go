package service

import (
	"context"
	"path"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/30secgamer/drivingbackend/internal/config"
	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
)

// fakeClientStore is an in-memory ClientStore mirroring the repository's
// merge and sentinel-error semantics.
type fakeClientStore struct {
	byID   map[int64]*model.Client
	nextID int64
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{byID: map[int64]*model.Client{}}
}

func (f *fakeClientStore) GetByID(_ context.Context, id int64) (*model.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientStore) GetByMobile(_ context.Context, mobile string) (*model.Client, error) {
	for _, c := range f.byID {
		if c.Mobile == mobile {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClientStore) List(_ context.Context) ([]model.Client, error) {
	out := []model.Client{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeClientStore) Create(_ context.Context, c *model.Client) error {
	for _, existing := range f.byID {
		if existing.Mobile == c.Mobile {
			return repository.ErrDuplicateMobile
		}
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClientStore) Update(_ context.Context, id int64, p *model.ClientPatch) (*model.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.FirstName != nil {
		c.FirstName = p.FirstName
	}
	if p.Mobile != nil {
		c.Mobile = *p.Mobile
	}
	if p.ApplicationNo != nil {
		c.ApplicationNo = p.ApplicationNo
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Relation != nil {
		c.Relation = p.Relation
	}
	if p.PermanentAddress != nil {
		c.PermanentAddress = p.PermanentAddress
	}
	if p.TemporaryAddress != nil {
		c.TemporaryAddress = p.TemporaryAddress
	}
	if p.DOB != nil {
		c.DOB = p.DOB
	}
	if p.Photo != nil {
		c.Photo = p.Photo
	}
	if p.LicenseFile != nil {
		c.LicenseFile = p.LicenseFile
	}
	if p.ClassOfVehicle != nil {
		c.ClassOfVehicle = p.ClassOfVehicle
	}
	if p.DateOfEnrolment != nil {
		c.DateOfEnrolment = p.DateOfEnrolment
	}
	if p.LearnersLicenseNo != nil {
		c.LearnersLicenseNo = p.LearnersLicenseNo
	}
	if p.ExpiryOfLL != nil {
		c.ExpiryOfLL = p.ExpiryOfLL
	}
	if p.MainTestDate != nil {
		c.MainTestDate = p.MainTestDate
	}
	if p.TotalFee != nil {
		c.TotalFee = *p.TotalFee
	}
	if p.PaidFee != nil {
		c.PaidFee = *p.PaidFee
	}
	if p.FeeDiscount != nil {
		c.FeeDiscount = *p.FeeDiscount
	}
	if p.TotalClasses != nil {
		c.TotalClasses = *p.TotalClasses
	}
	if p.ClassesAttended != nil {
		c.ClassesAttended = *p.ClassesAttended
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (f *fakeClientStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUploader records uploads and optionally fails every call.
type fakeUploader struct {
	err     error
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, kind model.AttachmentKind, stagingPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	url := "https://cdn.test/driving-school/" + string(kind) + "/" + path.Base(stagingPath)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func newTestClientService(store ClientStore, up Uploader) (*ClientService, *AuthService) {
	auth := NewAuthService(&config.Config{
		JWTSecret:  "unit-test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	})
	return NewClientService(store, auth, up), auth
}

func TestRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, auth := newTestClientService(store, &fakeUploader{})

	client, err := svc.Register(context.Background(), model.ClientRegisterRequest{
		Mobile: "9990001111", Password: "pass123",
	})
	require.NoError(t, err)
	require.NotEqual(t, "pass123", client.PasswordHash)
	require.NoError(t, auth.CheckPassword(client.PasswordHash, "pass123"))
}

func TestRegister_DuplicateMobile(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	_, err := svc.Register(ctx, model.ClientRegisterRequest{Mobile: "9990001111", Password: "a-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.ClientRegisterRequest{Mobile: "9990001111", Password: "b-pass"})
	require.ErrorIs(t, err, repository.ErrDuplicateMobile)
	require.Len(t, store.byID, 1, "second attempt must not persist a record")
}

func TestLogin_FailureModesIndistinguishable(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	_, err := svc.Register(ctx, model.ClientRegisterRequest{Mobile: "9990001111", Password: "pass123"})
	require.NoError(t, err)

	_, _, errMissing := svc.Login(ctx, model.ClientLoginRequest{Mobile: "0000000000", Password: "pass123"})
	_, _, errWrongPw := svc.Login(ctx, model.ClientLoginRequest{Mobile: "9990001111", Password: "wrong"})

	require.ErrorIs(t, errMissing, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	require.Equal(t, errMissing, errWrongPw, "both failure modes must look identical")
}

func TestLogin_IssuesScopedToken(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, auth := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	created, err := svc.Register(ctx, model.ClientRegisterRequest{Mobile: "9990001111", Password: "pass123"})
	require.NoError(t, err)

	token, client, err := svc.Login(ctx, model.ClientLoginRequest{Mobile: "9990001111", Password: "pass123"})
	require.NoError(t, err)
	require.Equal(t, created.ID, client.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.UserID)
	require.Equal(t, TokenKindClient, claims.TokenKind)
}

func TestCreate_NoFilesDefaults(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})

	client, err := svc.Create(context.Background(), model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
	}, nil)
	require.NoError(t, err)

	require.Equal(t, "Asha", *client.FirstName)
	require.Nil(t, client.Photo)
	require.Nil(t, client.LicenseFile)
	require.Zero(t, client.TotalFee)
	require.Zero(t, client.ClassesAttended)
}

func TestCreate_ParsesDates(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})

	client, err := svc.Create(context.Background(), model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
		DOB:             "2001-04-15",
		DateOfEnrolment: "2026-01-10",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, time.Date(2001, 4, 15, 0, 0, 0, 0, time.UTC), client.DOB.UTC())
	require.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), client.DateOfEnrolment.UTC())
}

func TestCreate_RejectsUnparseableDate(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})

	_, err := svc.Create(context.Background(), model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
		DOB: "not-a-date",
	}, nil)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "dob", fieldErr.Field)
	require.Empty(t, store.byID, "invalid date must not persist a record")
}

func TestCreate_UploadsBeforePersist(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	up := &fakeUploader{}
	svc, _ := newTestClientService(store, up)

	client, err := svc.Create(context.Background(), model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
	}, map[model.AttachmentKind]string{
		model.AttachmentPhoto:   "/tmp/staging/p.jpg",
		model.AttachmentLicense: "/tmp/staging/l.pdf",
	})
	require.NoError(t, err)
	require.Len(t, up.uploads, 2)
	require.NotNil(t, client.Photo)
	require.NotNil(t, client.LicenseFile)
	require.Contains(t, *client.Photo, "photo/")
	require.Contains(t, *client.LicenseFile, "license/")
}

func TestCreate_UploadFailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{err: ErrStorageUnavailable})

	_, err := svc.Create(context.Background(), model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
	}, map[model.AttachmentKind]string{model.AttachmentPhoto: "/tmp/staging/p.jpg"})

	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.Empty(t, store.byID, "no record may reference an object that was never stored")
}

func TestUpdate_ShallowMergeDOBOnly(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
		Phone: "080-1234",
	}, nil)
	require.NoError(t, err)

	dob := "2020-01-01"
	updated, err := svc.Update(ctx, created.ID, model.UpdateClientRequest{DOB: &dob}, nil)
	require.NoError(t, err)

	require.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), updated.DOB.UTC())
	require.Equal(t, "Asha", *updated.FirstName)
	require.Equal(t, "9990001111", updated.Mobile)
	require.Equal(t, "080-1234", *updated.Phone)
}

func TestUpdate_EmptyStringOverwrites(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
		Relation: "father",
	}, nil)
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, created.ID, model.UpdateClientRequest{Relation: &empty}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Relation)
	require.Empty(t, *updated.Relation)
}

func TestUpdate_ReplacesAttachmentReference(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	up := &fakeUploader{}
	svc, _ := newTestClientService(store, up)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
	}, map[model.AttachmentKind]string{model.AttachmentPhoto: "/tmp/staging/old.jpg"})
	require.NoError(t, err)
	oldURL := *created.Photo

	updated, err := svc.Update(ctx, created.ID, model.UpdateClientRequest{},
		map[model.AttachmentKind]string{model.AttachmentPhoto: "/tmp/staging/new.jpg"})
	require.NoError(t, err)
	require.NotEqual(t, oldURL, *updated.Photo)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})

	_, err := svc.Update(context.Background(), 404, model.UpdateClientRequest{}, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate_RejectsUnparseableDate(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClientRequest{
		FirstName: "Asha", Mobile: "9990001111", Password: "pass123",
	}, nil)
	require.NoError(t, err)

	bad := "31/31/2020"
	_, err = svc.Update(ctx, created.ID, model.UpdateClientRequest{MainTestDate: &bad}, nil)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "mainTestDate", fieldErr.Field)
}

func TestDelete_Semantics(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, 404), repository.ErrNotFound)

	created, err := svc.Register(ctx, model.ClientRegisterRequest{Mobile: "9990001111", Password: "pass123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()

	store := newFakeClientStore()
	svc, _ := newTestClientService(store, &fakeUploader{})
	ctx := context.Background()

	for _, mobile := range []string{"111111", "222222", "333333"} {
		_, err := svc.Register(ctx, model.ClientRegisterRequest{Mobile: mobile, Password: "pass123"})
		require.NoError(t, err)
	}

	clients, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	require.Equal(t, "333333", clients[0].Mobile)
	require.Equal(t, "111111", clients[2].Mobile)
}
