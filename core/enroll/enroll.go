// Package enroll implements the enrollment flow: the form draft, the
// simulated-payment submission machine, the one-shot handoff to the
// confirmation view and the simulated course-material download.
package enroll

import "time"

const (
	MethodCard   = "card"
	MethodPaypal = "paypal"
)

// Draft is the in-progress form data for one enrollment attempt. Card
// fields are required and validated only when the payment method is
// card; with paypal they are ignored entirely.
type Draft struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Passion       string `json:"passion"`
	Course        string `json:"course"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card paypal"`
	CardNumber    string `json:"cardNumber" validate:"required_if=PaymentMethod card,omitempty,numeric,len=16"`
	CardName      string `json:"cardName" validate:"required_if=PaymentMethod card"`
	Expiry        string `json:"expiryDate" validate:"required_if=PaymentMethod card,omitempty,datetime=01/06"`
	CVV           string `json:"cvv" validate:"required_if=PaymentMethod card,omitempty,numeric,min=3,max=4"`
}

// Context is the payload handed from the form to the confirmation
// view. It moves through the one-shot handoff store, never the URL.
type Context struct {
	CourseName string  `json:"courseName"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image"`
}

// Enrollment records one successful enrollment.
type Enrollment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	CourseID     int       `json:"courseId"`
	CourseName   string    `json:"courseName"`
	Price        float64   `json:"price"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	State        State     `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
}
