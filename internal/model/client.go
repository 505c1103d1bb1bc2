package model

import "time"

// AttachmentKind is the logical category of an uploaded binary. It selects
// the object-store namespace the file is stored under.
type AttachmentKind string

const (
	AttachmentPhoto   AttachmentKind = "photo"
	AttachmentLicense AttachmentKind = "license"
)

// Client represents one driving-school enrollee. Date fields and attachment
// references are nullable; Photo and LicenseFile are either nil or a
// fully-resolved object-store URL, never a local path.
type Client struct {
	ID           int64   `json:"id"`
	FirstName    *string `json:"firstName"`
	Mobile       string  `json:"mobile"`
	PasswordHash string  `json:"-"`

	ApplicationNo    *string    `json:"applicationNo"`
	Phone            *string    `json:"phone"`
	Relation         *string    `json:"relation"`
	PermanentAddress *string    `json:"permanentAddress"`
	TemporaryAddress *string    `json:"temporaryAddress"`
	DOB              *time.Time `json:"dob"`
	Photo            *string    `json:"photo"`
	LicenseFile      *string    `json:"licenseFile"`

	ClassOfVehicle    *string    `json:"classOfVehicle"`
	DateOfEnrolment   *time.Time `json:"dateOfEnrolment"`
	LearnersLicenseNo *string    `json:"learnersLicenseNo"`
	ExpiryOfLL        *time.Time `json:"expiryOfLL"`
	MainTestDate      *time.Time `json:"mainTestDate"`

	TotalFee        float64 `json:"totalFee"`
	PaidFee         float64 `json:"paidFee"`
	FeeDiscount     float64 `json:"feeDiscount"`
	TotalClasses    int     `json:"totalClasses"`
	ClassesAttended int     `json:"classesAttended"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientRegisterRequest is the payload for minimal client signup.
type ClientRegisterRequest struct {
	Mobile   string `json:"mobile" binding:"required,min=6,max=20"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// ClientLoginRequest is the payload for client authentication.
type ClientLoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ClientLoginResponse is returned after successful client login.
type ClientLoginResponse struct {
	Token  string `json:"token"`
	Client Client `json:"client"`
}

// CreateClientRequest is the multipart payload for full client creation.
// Date fields arrive as strings and are parsed by the service; billing and
// attendance fields are not accepted here and start at zero.
type CreateClientRequest struct {
	FirstName         string `form:"firstName" binding:"required,min=1,max=100"`
	Mobile            string `form:"mobile" binding:"required,min=6,max=20"`
	Password          string `form:"password" binding:"required,min=4,max=128"`
	ApplicationNo     string `form:"applicationNo"`
	Phone             string `form:"phone"`
	Relation          string `form:"relation"`
	PermanentAddress  string `form:"permanentAddress"`
	TemporaryAddress  string `form:"temporaryAddress"`
	DOB               string `form:"dob"`
	ClassOfVehicle    string `form:"classOfVehicle"`
	DateOfEnrolment   string `form:"dateOfEnrolment"`
	LearnersLicenseNo string `form:"learnersLicenseNo"`
	ExpiryOfLL        string `form:"expiryOfLL"`
	MainTestDate      string `form:"mainTestDate"`
}

// UpdateClientRequest is the multipart payload for partial update. Nil
// pointers mean "leave the stored value untouched"; present values overwrite
// it, empty strings included (shallow merge).
type UpdateClientRequest struct {
	FirstName         *string  `form:"firstName"`
	Mobile            *string  `form:"mobile"`
	ApplicationNo     *string  `form:"applicationNo"`
	Phone             *string  `form:"phone"`
	Relation          *string  `form:"relation"`
	PermanentAddress  *string  `form:"permanentAddress"`
	TemporaryAddress  *string  `form:"temporaryAddress"`
	DOB               *string  `form:"dob"`
	ClassOfVehicle    *string  `form:"classOfVehicle"`
	DateOfEnrolment   *string  `form:"dateOfEnrolment"`
	LearnersLicenseNo *string  `form:"learnersLicenseNo"`
	ExpiryOfLL        *string  `form:"expiryOfLL"`
	MainTestDate      *string  `form:"mainTestDate"`
	TotalFee          *float64 `form:"totalFee"`
	PaidFee           *float64 `form:"paidFee"`
	FeeDiscount       *float64 `form:"feeDiscount"`
	TotalClasses      *int     `form:"totalClasses"`
	ClassesAttended   *int     `form:"classesAttended"`
}

// ClientPatch is the resolved partial field set applied to a stored record:
// request fields with date strings parsed plus freshly uploaded attachment
// references.
type ClientPatch struct {
	FirstName         *string
	Mobile            *string
	ApplicationNo     *string
	Phone             *string
	Relation          *string
	PermanentAddress  *string
	TemporaryAddress  *string
	DOB               *time.Time
	Photo             *string
	LicenseFile       *string
	ClassOfVehicle    *string
	DateOfEnrolment   *time.Time
	LearnersLicenseNo *string
	ExpiryOfLL        *time.Time
	MainTestDate      *time.Time
	TotalFee          *float64
	PaidFee           *float64
	FeeDiscount       *float64
	TotalClasses      *int
	ClassesAttended   *int
}
