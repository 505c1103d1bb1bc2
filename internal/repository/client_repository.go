package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/30secgamer/drivingbackend/internal/database"
	"github.com/30secgamer/drivingbackend/internal/model"
)

const clientColumns = `id, first_name, mobile, password_hash, application_no, phone, relation,
	permanent_address, temporary_address, dob, photo, license_file, class_of_vehicle,
	date_of_enrolment, learners_license_no, expiry_of_ll, main_test_date,
	total_fee, paid_fee, fee_discount, total_classes, classes_attended, created_at, updated_at`

// ClientRepository handles client record data access.
type ClientRepository struct {
	pool database.PgxPool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool database.PgxPool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func scanClient(row pgx.Row) (*model.Client, error) {
	c := &model.Client{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.Mobile, &c.PasswordHash, &c.ApplicationNo, &c.Phone, &c.Relation,
		&c.PermanentAddress, &c.TemporaryAddress, &c.DOB, &c.Photo, &c.LicenseFile, &c.ClassOfVehicle,
		&c.DateOfEnrolment, &c.LearnersLicenseNo, &c.ExpiryOfLL, &c.MainTestDate,
		&c.TotalFee, &c.PaidFee, &c.FeeDiscount, &c.TotalClasses, &c.ClassesAttended,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return scanClient(r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

// GetByMobile retrieves a client by their unique mobile number.
func (r *ClientRepository) GetByMobile(ctx context.Context, mobile string) (*model.Client, error) {
	return scanClient(r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE mobile = $1`, mobile))
}

// List retrieves all clients, newest first.
func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// Create inserts a new client. ErrDuplicateMobile is returned when the
// store-level unique constraint rejects the mobile number.
func (r *ClientRepository) Create(ctx context.Context, c *model.Client) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO clients (first_name, mobile, password_hash, application_no, phone, relation,
			permanent_address, temporary_address, dob, photo, license_file, class_of_vehicle,
			date_of_enrolment, learners_license_no, expiry_of_ll, main_test_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, total_fee, paid_fee, fee_discount, total_classes, classes_attended, created_at, updated_at`,
		c.FirstName, c.Mobile, c.PasswordHash, c.ApplicationNo, c.Phone, c.Relation,
		c.PermanentAddress, c.TemporaryAddress, c.DOB, c.Photo, c.LicenseFile, c.ClassOfVehicle,
		c.DateOfEnrolment, c.LearnersLicenseNo, c.ExpiryOfLL, c.MainTestDate,
	).Scan(&c.ID, &c.TotalFee, &c.PaidFee, &c.FeeDiscount, &c.TotalClasses, &c.ClassesAttended, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMobile
		}
		return err
	}
	return nil
}

// Update applies a partial field set to an existing client and returns the
// updated record. Only non-nil patch fields are written (shallow merge).
func (r *ClientRepository) Update(ctx context.Context, id int64, patch *model.ClientPatch) (*model.Client, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	argIdx := 1

	add := func(column string, value any) {
		set = append(set, column+" = $"+strconv.Itoa(argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.Mobile != nil {
		add("mobile", *patch.Mobile)
	}
	if patch.ApplicationNo != nil {
		add("application_no", *patch.ApplicationNo)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Relation != nil {
		add("relation", *patch.Relation)
	}
	if patch.PermanentAddress != nil {
		add("permanent_address", *patch.PermanentAddress)
	}
	if patch.TemporaryAddress != nil {
		add("temporary_address", *patch.TemporaryAddress)
	}
	if patch.DOB != nil {
		add("dob", *patch.DOB)
	}
	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if patch.LicenseFile != nil {
		add("license_file", *patch.LicenseFile)
	}
	if patch.ClassOfVehicle != nil {
		add("class_of_vehicle", *patch.ClassOfVehicle)
	}
	if patch.DateOfEnrolment != nil {
		add("date_of_enrolment", *patch.DateOfEnrolment)
	}
	if patch.LearnersLicenseNo != nil {
		add("learners_license_no", *patch.LearnersLicenseNo)
	}
	if patch.ExpiryOfLL != nil {
		add("expiry_of_ll", *patch.ExpiryOfLL)
	}
	if patch.MainTestDate != nil {
		add("main_test_date", *patch.MainTestDate)
	}
	if patch.TotalFee != nil {
		add("total_fee", *patch.TotalFee)
	}
	if patch.PaidFee != nil {
		add("paid_fee", *patch.PaidFee)
	}
	if patch.FeeDiscount != nil {
		add("fee_discount", *patch.FeeDiscount)
	}
	if patch.TotalClasses != nil {
		add("total_classes", *patch.TotalClasses)
	}
	if patch.ClassesAttended != nil {
		add("classes_attended", *patch.ClassesAttended)
	}

	query := `UPDATE clients SET ` + strings.Join(set, ", ") +
		` WHERE id = $` + strconv.Itoa(argIdx) + ` RETURNING ` + clientColumns
	args = append(args, id)

	c, err := scanClient(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMobile
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a client by ID. ErrNotFound is returned when no row
// was deleted.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
